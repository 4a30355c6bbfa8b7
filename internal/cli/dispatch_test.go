package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"bizdesk/internal/backend/bizapi"
	"bizdesk/internal/cli"
	"bizdesk/internal/commands"
	"bizdesk/internal/config"
	"bizdesk/internal/exitcode"
	"bizdesk/internal/notify"
	"bizdesk/internal/service"
	"bizdesk/internal/testutil"
	"bizdesk/internal/transport"
)

// testFactory wires the real sections to a fake backend.
func testFactory(backend *testutil.FakeBackend) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config, n notify.Notifier) (service.Service, error) {
		client := transport.New(backend.URL(), transport.WithNotifier(n))
		return bizapi.Assemble(client, n, nil), nil
	}
}

func run(t *testing.T, backend *testutil.FakeBackend, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(backend))

	var outBuf, errBuf bytes.Buffer
	full := append([]string{args[0], "--config", t.TempDir()}, args[1:]...)
	code = dispatcher.Run(context.Background(), full, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"unknowncmd"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	stdout, stderr, code := run(t, nil, "help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !bytes.Contains([]byte(stdout), []byte("Usage:")) {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	stdout, stderr, code := run(t, nil, "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "bizdesk 0.1.0\n" {
		t.Errorf("expected 'bizdesk 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_VersionVerbose(t *testing.T) {
	t.Setenv(config.EnvBaseURL, "http://api.test/api")

	stdout, _, code := run(t, nil, "version", "--verbose")

	assert.Equal(t, exitcode.Success, code)
	assert.Contains(t, stdout, "bizdesk 0.1.0\n")
	assert.Contains(t, stdout, "api:    http://api.test/api\n")
	assert.Contains(t, stdout, "config.yaml")
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	_, stderr, code := run(t, nil, "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_MissingFlagValue(t *testing.T) {
	backend := testutil.NewFakeBackend(t)

	_, stderr, code := run(t, backend, "list", "--search")

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: flag needs an argument: -search\n", stderr)
}

func TestDispatcher_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte("timeout: soon\n"), 0o600)
	assert.NoError(t, err)

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeBackend(t)))
	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"entities", "--config", dir}, &stdout, &stderr)

	assert.Equal(t, exitcode.ConfigError, code)
	assert.Contains(t, stderr.String(), "error: config error:")
}

func TestDispatcher_NoFactory(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"entities", "--config", t.TempDir()}, &stdout, &stderr)

	assert.Equal(t, exitcode.ConfigError, code)
	assert.Equal(t, "error: no backend configured\n", stderr.String())
}

func TestDispatcher_Entities(t *testing.T) {
	stdout, stderr, code := run(t, testutil.NewFakeBackend(t), "entities")

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	testutil.GoldenString(t, "entities", stdout)
}

func TestDispatcher_ListDesktopTable(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.SeedClients("Acme", "Globex")

	stdout, stderr, code := run(t, backend, "list", "--width", "1280", "clients")

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "ID  Nom\n1   Acme\n2   Globex\n", stdout)
}

func TestDispatcher_ListMobileCards(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	ids := backend.SeedEmployees(service.Employee{Nom: "Martin", Prenom: "Alice", Poste: "Dev", Contrat: "CDI", TJM: "450", Role: 1})
	backend.SeedAbsences(service.Absence{Type: service.AbsenceConge, Debut: "2026-01-05", EmployeeID: ids[0]})

	stdout, _, code := run(t, backend, "list", "--width", "768", "salaries")
	assert.Equal(t, exitcode.Success, code)
	testutil.GoldenString(t, "list_salaries_cards", stdout)

	stdout, _, code = run(t, backend, "list", "--width", "375", "absences")
	assert.Equal(t, exitcode.Success, code)
	testutil.GoldenString(t, "list_absences_cards", stdout)
}

func TestDispatcher_ListSearchAndEmpty(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.SeedClients("Acme", "Globex")

	stdout, _, code := run(t, backend, "list", "--search", "zzz", "--width", "1280", "client")
	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "no records found\n", stdout)

	stdout, _, code = run(t, backend, "list", "--quiet", "--search", "zzz", "client")
	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stdout)
}

func TestDispatcher_ListSearchUnsupported(t *testing.T) {
	_, stderr, code := run(t, testutil.NewFakeBackend(t), "list", "--search", "martin", "salaries")

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: Recherche indisponible pour Salariés\n", stderr)
}

func TestDispatcher_ListUnknownEntity(t *testing.T) {
	_, stderr, code := run(t, testutil.NewFakeBackend(t), "list", "factures")

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: unknown entity: factures\n", stderr)
}

func TestDispatcher_ListBackendError(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.Fail("GET /client", 500)

	stdout, stderr, code := run(t, backend, "list", "client")

	assert.Equal(t, exitcode.BackendError, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "error: Erreur serveur (500)\n", stderr)
}

func TestDispatcher_AddPrintsNotice(t *testing.T) {
	backend := testutil.NewFakeBackend(t)

	stdout, stderr, code := run(t, backend, "add", "client", "nom=Initech")

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "Client créé\n", stdout)
	assert.Len(t, backend.Clients(), 1)
}

func TestDispatcher_AddQuiet(t *testing.T) {
	stdout, _, code := run(t, testutil.NewFakeBackend(t), "create", "--quiet", "client", "nom=Initech")

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stdout)
}

func TestDispatcher_AddValidationError(t *testing.T) {
	backend := testutil.NewFakeBackend(t)

	_, stderr, code := run(t, backend, "add", "client", "nom=")

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: Le nom est obligatoire\n", stderr)
	assert.Zero(t, backend.TotalCalls())
}

func TestDispatcher_AddBadAssignment(t *testing.T) {
	_, stderr, code := run(t, testutil.NewFakeBackend(t), "add", "client", "Initech")

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: invalid assignment: Initech (expected key=value)\n", stderr)
}

func TestDispatcher_UpdateKeepsOtherFields(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	ids := backend.SeedTasks(service.Task{Nom: "Maquettes", Debut: "2026-02-01", ProjectID: 3, EmployeeID: 4})

	stdout, stderr, code := run(t, backend, "update", "taches", "1", "statut=fait")

	assert.Equal(t, exitcode.Success, code, stderr)
	assert.Equal(t, "Tâche mise à jour\n", stdout)
	got := backend.Tasks()[0]
	assert.Equal(t, ids[0], got.ID)
	assert.Equal(t, "fait", got.Statut)
	assert.Equal(t, "Maquettes", got.Nom)
}

func TestDispatcher_UpdateShow(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.SeedClients("Acme")

	stdout, _, code := run(t, backend, "update", "--show", "client", "1")

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "Modifier le client #1\n  nom: Acme\n", stdout)
}

func TestDispatcher_UpdateUnknownRecord(t *testing.T) {
	backend := testutil.NewFakeBackend(t)

	_, stderr, code := run(t, backend, "update", "client", "42", "nom=X")

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: Client #42 introuvable\n", stderr)
}

func TestDispatcher_RmYes(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.SeedClients("Acme")

	stdout, _, code := run(t, backend, "rm", "--yes", "client", "1")

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "Client supprimé\n", stdout)
	assert.Empty(t, backend.Clients())
}

func TestDispatcher_RmInvalidID(t *testing.T) {
	_, stderr, code := run(t, testutil.NewFakeBackend(t), "rm", "--yes", "client", "abc")

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: invalid id: abc\n", stderr)
}

func TestDispatcher_Export(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.SeedProjects("Refonte", "Migration")
	path := filepath.Join(t.TempDir(), "projets.xlsx")

	stdout, stderr, code := run(t, backend, "export", "--out", path, "projets")

	assert.Equal(t, exitcode.Success, code, stderr)
	assert.Equal(t, "2 rows written to "+path+"\n", stdout)
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestDispatcher_ExportNeedsXLSX(t *testing.T) {
	_, stderr, code := run(t, testutil.NewFakeBackend(t), "export", "--out", "projets.csv", "projets")

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: output must be an .xlsx file: projets.csv\n", stderr)
}
