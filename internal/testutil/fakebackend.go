// Package testutil provides test helpers: an in-memory HTTP backend that
// speaks the business API, and golden file comparison.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"bizdesk/internal/service"
)

// FakeBackend is an in-memory implementation of the business API served over
// httptest. Routes are keyed "METHOD /template", e.g. "GET /client" or
// "DELETE /salaries/{id}".
type FakeBackend struct {
	Server *httptest.Server

	mu        sync.Mutex
	clients   []service.Client
	projects  []service.Project
	employees []service.Employee
	absences  []service.Absence
	tasks     []service.Task
	nextID    int
	calls     map[string]int
	failures  map[string]int
	overrides map[string]string
	requests  []*http.Request
}

// NewFakeBackend starts a backend that is closed when the test ends.
func NewFakeBackend(t testing.TB) *FakeBackend {
	t.Helper()
	b := &FakeBackend{
		nextID:    1,
		calls:     make(map[string]int),
		failures:  make(map[string]int),
		overrides: make(map[string]string),
	}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(b.middleware)

	api.HandleFunc("/client", b.listClients).Methods(http.MethodGet)
	api.HandleFunc("/client/nom/{nom}", b.searchClients).Methods(http.MethodGet)
	api.HandleFunc("/client/add", b.addClient).Methods(http.MethodPost)
	api.HandleFunc("/client/update", b.updateClient).Methods(http.MethodPost)
	api.HandleFunc("/client/delete", b.deleteClient).Methods(http.MethodPost)

	api.HandleFunc("/projet", b.listProjects).Methods(http.MethodGet)
	api.HandleFunc("/projet/nom/{nom}", b.searchProjects).Methods(http.MethodGet)
	api.HandleFunc("/projet/add", b.addProject).Methods(http.MethodPost)
	api.HandleFunc("/projet/update", b.updateProject).Methods(http.MethodPost)
	api.HandleFunc("/projet/delete", b.deleteProject).Methods(http.MethodPost)

	api.HandleFunc("/salaries", b.listEmployees).Methods(http.MethodGet)
	api.HandleFunc("/salaries", b.addEmployee).Methods(http.MethodPost)
	api.HandleFunc("/salaries/{id:[0-9]+}", b.updateEmployee).Methods(http.MethodPost)
	api.HandleFunc("/salaries/{id:[0-9]+}", b.deleteEmployee).Methods(http.MethodDelete)

	api.HandleFunc("/absences", b.listAbsences).Methods(http.MethodGet)
	api.HandleFunc("/absences", b.addAbsence).Methods(http.MethodPost)
	api.HandleFunc("/absences/{id:[0-9]+}", b.updateAbsence).Methods(http.MethodPut)
	api.HandleFunc("/absences/{id:[0-9]+}", b.deleteAbsence).Methods(http.MethodDelete)

	api.HandleFunc("/taches", b.listTasks).Methods(http.MethodGet)
	api.HandleFunc("/taches", b.addTask).Methods(http.MethodPost)
	api.HandleFunc("/taches/update", b.updateTask).Methods(http.MethodPost)
	api.HandleFunc("/taches/delete", b.deleteTask).Methods(http.MethodPost)

	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Server.Close)
	return b
}

// URL is the API root to configure clients with.
func (b *FakeBackend) URL() string {
	return b.Server.URL + "/api"
}

// Fail makes the next request on route answer with status.
func (b *FakeBackend) Fail(route string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[route] = status
}

// Respond makes every request on route answer 200 with body.
func (b *FakeBackend) Respond(route, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overrides[route] = body
}

// Calls returns how many requests hit route.
func (b *FakeBackend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

// TotalCalls returns the number of requests served.
func (b *FakeBackend) TotalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		n += c
	}
	return n
}

// LastRequest returns the most recent request, or nil.
func (b *FakeBackend) LastRequest() *http.Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.requests) == 0 {
		return nil
	}
	return b.requests[len(b.requests)-1]
}

func (b *FakeBackend) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tpl, _ := mux.CurrentRoute(r).GetPathTemplate()
		route := r.Method + " " + strings.TrimPrefix(tpl, "/api")
		route = strings.ReplaceAll(route, "{id:[0-9]+}", "{id}")

		b.mu.Lock()
		b.calls[route]++
		b.requests = append(b.requests, r)
		status, failing := b.failures[route]
		delete(b.failures, route)
		body, overridden := b.overrides[route]
		b.mu.Unlock()

		switch {
		case failing:
			http.Error(w, http.StatusText(status), status)
		case overridden:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func (b *FakeBackend) id() int {
	id := b.nextID
	b.nextID++
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func formValue(r *http.Request, key string) string {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		_ = r.ParseForm()
	}
	return strings.TrimSpace(r.FormValue(key))
}

func formInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(formValue(r, key))
	return n
}

func pathID(r *http.Request) int {
	n, _ := strconv.Atoi(mux.Vars(r)["id"])
	return n
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func matches(nom, q string) bool {
	return strings.Contains(strings.ToLower(nom), strings.ToLower(q))
}

// Clients and projects answer with {ok, ...} envelopes.

func (b *FakeBackend) SeedClients(names ...string) []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]int, len(names))
	for i, n := range names {
		ids[i] = b.id()
		b.clients = append(b.clients, service.Client{ID: ids[i], Nom: n})
	}
	return ids
}

func (b *FakeBackend) Clients() []service.Client {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.clients)
}

func (b *FakeBackend) listClients(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]service.Client{}, b.clients...))
}

func (b *FakeBackend) searchClients(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := mux.Vars(r)["nom"]
	var found []service.Client
	for _, c := range b.clients {
		if matches(c.Nom, q) {
			found = append(found, c)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "results": found})
}

func (b *FakeBackend) addClient(w http.ResponseWriter, r *http.Request) {
	nom := formValue(r, "nom")
	if nom == "" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": false, "errors": map[string]string{"nom": "Le nom est requis"}})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.id()
	b.clients = append(b.clients, service.Client{ID: id, Nom: nom})
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id})
}

func (b *FakeBackend) updateClient(w http.ResponseWriter, r *http.Request) {
	id, nom := formInt(r, "id"), formValue(r, "nom")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.clients {
		if b.clients[i].ID == id {
			b.clients[i].Nom = nom
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": false, "message": "Client introuvable"})
}

func (b *FakeBackend) deleteClient(w http.ResponseWriter, r *http.Request) {
	id := formInt(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.clients)
	b.clients = slices.DeleteFunc(b.clients, func(c service.Client) bool { return c.ID == id })
	if len(b.clients) == n {
		writeJSON(w, http.StatusOK, map[string]any{"ok": false, "message": "Client introuvable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (b *FakeBackend) SeedProjects(names ...string) []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]int, len(names))
	for i, n := range names {
		ids[i] = b.id()
		b.projects = append(b.projects, service.Project{ID: ids[i], Nom: n})
	}
	return ids
}

func (b *FakeBackend) listProjects(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": append([]service.Project{}, b.projects...)})
}

func (b *FakeBackend) searchProjects(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := mux.Vars(r)["nom"]
	var found []service.Project
	for _, p := range b.projects {
		if matches(p.Nom, q) {
			found = append(found, p)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "results": found})
}

func (b *FakeBackend) addProject(w http.ResponseWriter, r *http.Request) {
	nom := formValue(r, "nom")
	if nom == "" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": false, "errors": map[string]string{"nom": "Le nom est requis"}})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.projects = append(b.projects, service.Project{ID: b.id(), Nom: nom})
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (b *FakeBackend) updateProject(w http.ResponseWriter, r *http.Request) {
	id, nom := formInt(r, "id"), formValue(r, "nom")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.projects {
		if b.projects[i].ID == id {
			b.projects[i].Nom = nom
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": false, "message": "Projet introuvable"})
}

func (b *FakeBackend) deleteProject(w http.ResponseWriter, r *http.Request) {
	id := formInt(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range b.tasks {
		if t.ProjectID == id {
			writeJSON(w, http.StatusConflict, map[string]any{"ok": false, "message": "Projet référencé par une tâche"})
			return
		}
	}
	b.projects = slices.DeleteFunc(b.projects, func(p service.Project) bool { return p.ID == id })
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// Salariés answer with raw arrays and plain status codes.

func (b *FakeBackend) SeedEmployees(es ...service.Employee) []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]int, len(es))
	for i, e := range es {
		e.ID = b.id()
		ids[i] = e.ID
		b.employees = append(b.employees, e)
	}
	return ids
}

func (b *FakeBackend) Employees() []service.Employee {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.employees)
}

func employeeFromForm(r *http.Request) service.Employee {
	return service.Employee{
		Nom:     formValue(r, "nom"),
		Prenom:  formValue(r, "prenom"),
		Poste:   formValue(r, "poste"),
		Contrat: formValue(r, "contrat"),
		TJM:     service.Decimal(formValue(r, "taux_journalier_moyen")),
		Role:    formInt(r, "role"),
	}
}

func (b *FakeBackend) listEmployees(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]service.Employee{}, b.employees...))
}

func (b *FakeBackend) addEmployee(w http.ResponseWriter, r *http.Request) {
	e := employeeFromForm(r)
	if e.Nom == "" || e.TJM == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"success": false, "message": "Champs manquants"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	e.ID = b.id()
	b.employees = append(b.employees, e)
	writeJSON(w, http.StatusCreated, e)
}

func (b *FakeBackend) updateEmployee(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	e := employeeFromForm(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.employees {
		if b.employees[i].ID == id {
			e.ID = id
			b.employees[i] = e
			writeJSON(w, http.StatusOK, e)
			return
		}
	}
	http.NotFound(w, r)
}

func (b *FakeBackend) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.absences {
		if a.EmployeeID == id {
			http.Error(w, "referenced", http.StatusConflict)
			return
		}
	}
	for _, t := range b.tasks {
		if t.EmployeeID == id {
			http.Error(w, "referenced", http.StatusConflict)
			return
		}
	}
	n := len(b.employees)
	b.employees = slices.DeleteFunc(b.employees, func(e service.Employee) bool { return e.ID == id })
	if len(b.employees) == n {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (b *FakeBackend) hasEmployee(id int) bool {
	return slices.ContainsFunc(b.employees, func(e service.Employee) bool { return e.ID == id })
}

// Absences answer with {success, data} envelopes.

func (b *FakeBackend) SeedAbsences(as ...service.Absence) []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]int, len(as))
	for i, a := range as {
		a.ID = b.id()
		ids[i] = a.ID
		b.absences = append(b.absences, a)
	}
	return ids
}

func (b *FakeBackend) Absences() []service.Absence {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.absences)
}

func (b *FakeBackend) listAbsences(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": append([]service.Absence{}, b.absences...)})
}

func (b *FakeBackend) addAbsence(w http.ResponseWriter, r *http.Request) {
	var a service.Absence
	if err := decodeBody(r, &a); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.hasEmployee(a.EmployeeID) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": fmt.Sprintf("Salarié %d introuvable", a.EmployeeID)})
		return
	}
	a.ID = b.id()
	b.absences = append(b.absences, a)
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": a})
}

func (b *FakeBackend) updateAbsence(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	var a service.Absence
	if err := decodeBody(r, &a); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.absences {
		if b.absences[i].ID == id {
			a.ID = id
			b.absences[i] = a
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": a})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Absence introuvable"})
}

func (b *FakeBackend) deleteAbsence(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.absences = slices.DeleteFunc(b.absences, func(a service.Absence) bool { return a.ID == id })
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Tâches take JSON bodies and answer with raw arrays.

func (b *FakeBackend) SeedTasks(ts ...service.Task) []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]int, len(ts))
	for i, t := range ts {
		t.ID = b.id()
		ids[i] = t.ID
		b.tasks = append(b.tasks, t)
	}
	return ids
}

func (b *FakeBackend) Tasks() []service.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.tasks)
}

func (b *FakeBackend) listTasks(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]service.Task{}, b.tasks...))
}

func (b *FakeBackend) addTask(w http.ResponseWriter, r *http.Request) {
	var t service.Task
	if err := decodeBody(r, &t); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	t.ID = b.id()
	b.tasks = append(b.tasks, t)
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "id_tache": t.ID})
}

func (b *FakeBackend) updateTask(w http.ResponseWriter, r *http.Request) {
	var t service.Task
	if err := decodeBody(r, &t); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.tasks {
		if b.tasks[i].ID == t.ID {
			b.tasks[i] = t
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Tâche introuvable"})
}

func (b *FakeBackend) deleteTask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID int `json:"id_tache"`
	}
	if err := decodeBody(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tasks = slices.DeleteFunc(b.tasks, func(t service.Task) bool { return t.ID == body.ID })
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
