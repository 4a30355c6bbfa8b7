package commands_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"bizdesk/internal/backend/bizapi"
	"bizdesk/internal/commands"
	"bizdesk/internal/config"
	"bizdesk/internal/exitcode"
	"bizdesk/internal/notify"
	"bizdesk/internal/service"
	"bizdesk/internal/testutil"
	"bizdesk/internal/transport"
	"bizdesk/internal/view"
)

// runCommand runs cmd against a coordinator backed by backend.
func runCommand(t *testing.T, cmd commands.Command, backend *testutil.FakeBackend, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{
		Dir:       t.TempDir(),
		Quiet:     quiet,
		CellWidth: config.DefaultCellWidth,
	}

	var svc service.Service
	if backend != nil {
		n := notify.NewWriter(&outBuf, &errBuf, quiet)
		svc = bizapi.Assemble(transport.New(backend.URL(), transport.WithNotifier(n)), n, nil)
	}

	code = cmd.Run(context.Background(), cfg, svc, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "bizdesk 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

func TestHelpListsEveryCommand(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.HelpCmd{}, nil, nil, false)

	assert.Equal(t, exitcode.Success, code)
	for _, cmd := range commands.DefaultRegistry.All() {
		assert.Contains(t, stdout, "bizdesk "+cmd.Name(), "help should mention %s", cmd.Name())
	}
}

func TestRegistryAliases(t *testing.T) {
	for alias, name := range map[string]string{"ls": "list", "tabs": "entities", "edit": "update", "delete": "rm"} {
		cmd, ok := commands.DefaultRegistry.Find(alias)
		if assert.True(t, ok, alias) {
			assert.Equal(t, name, cmd.Name())
		}
	}
}

func TestRmCommand_Declined(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.SeedClients("Acme")

	cmd := &commands.RmCmd{}
	cmd.SetInput(strings.NewReader("n\n"))
	stdout, stderr, code := runCommand(t, cmd, backend, []string{"client", "1"}, false)

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "Supprimer ce client ? [o/N] ", stderr)
	assert.Equal(t, "cancelled\n", stdout)
	assert.Len(t, backend.Clients(), 1)
	assert.Zero(t, backend.TotalCalls())
}

func TestRmCommand_Confirmed(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.SeedClients("Acme")

	cmd := &commands.RmCmd{}
	cmd.SetInput(strings.NewReader("oui\n"))
	stdout, _, code := runCommand(t, cmd, backend, []string{"client", "1"}, false)

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "Client supprimé\n", stdout)
	assert.Empty(t, backend.Clients())
}

func TestRmCommand_Conflict(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.SeedProjects("Refonte")
	backend.SeedTasks(testTask(1))

	cmd := &commands.RmCmd{}
	cmd.SetInput(strings.NewReader("o\n"))
	_, stderr, code := runCommand(t, cmd, backend, []string{"projet", "1"}, false)

	assert.Equal(t, exitcode.BackendError, code)
	assert.Contains(t, stderr, "error: Erreur serveur (409)")
}

func TestListCommand_WidthSelectsLayout(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.SeedClients("Acme")

	cmd := &commands.ListCmd{}
	cmd.SetWidth(769)
	stdout, _, _ := runCommand(t, cmd, backend, []string{"client"}, false)
	assert.Equal(t, "ID  Nom\n1   Acme\n", stdout)

	cmd.SetWidth(768)
	stdout, _, _ = runCommand(t, cmd, backend, []string{"client"}, false)
	assert.Equal(t, view.Text(view.Render(
		[]view.Column{{Key: "id_client", Label: "ID"}, {Key: "nom", Label: "Nom"}},
		[]view.Record{{ID: 1, Values: []string{"1", "Acme"}}},
		view.Mobile,
	), view.PlainStyles(), -1), stdout)
}

func TestListCommand_ExtraArgument(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ListCmd{}, testutil.NewFakeBackend(t), []string{"client", "extra"}, false)

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: unexpected argument: extra\n", stderr)
}

func TestAddCommand_RequiresValues(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.AddCmd{}, testutil.NewFakeBackend(t), []string{"client"}, false)

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: values required (key=value)\n", stderr)
}

func TestAddCommand_EntityRequired(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.AddCmd{}, testutil.NewFakeBackend(t), nil, false)

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: entity required\n", stderr)
}

func TestExportCommand_RequiresOut(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ExportCmd{}, testutil.NewFakeBackend(t), []string{"client"}, false)

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: --out required\n", stderr)
}

func TestUICommand_IsInteractive(t *testing.T) {
	cmd, ok := commands.DefaultRegistry.Find("ui")
	if assert.True(t, ok) {
		ic, ok := cmd.(commands.Interactive)
		assert.True(t, ok)
		assert.NotNil(t, ic.Surface())
	}
}

func testTask(projectID int) service.Task {
	return service.Task{Nom: "Recette", Debut: "2026-02-01", ProjectID: projectID, EmployeeID: 9}
}
