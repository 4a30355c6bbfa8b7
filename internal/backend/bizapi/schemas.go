package bizapi

import (
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"strconv"

	"bizdesk/internal/entity"
	"bizdesk/internal/service"
	"bizdesk/internal/transport"
)

func get(path string) transport.Request {
	return transport.Request{Method: http.MethodGet, Path: path}
}

func postForm(path string, body map[string]any) transport.Request {
	return transport.Request{Method: http.MethodPost, Path: path, Body: body, Encoding: transport.Form}
}

func sendJSON(method, path string, body map[string]any) transport.Request {
	return transport.Request{Method: method, Path: path, Body: body, Encoding: transport.JSON}
}

// with returns a copy of body with key set.
func with(body map[string]any, key string, value any) map[string]any {
	out := maps.Clone(body)
	if out == nil {
		out = make(map[string]any, 1)
	}
	out[key] = value
	return out
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Clients is the client schema. Lists come back as a raw array or an
// envelope; name search returns {ok, results}.
func Clients() entity.Schema[service.Client] {
	return entity.Schema[service.Client]{
		Name:  "client",
		Title: "Clients",
		IDKey: "id_client",
		Fields: []entity.Field{
			{Key: "nom", Label: "Nom", Required: true},
		},
		Captions: entity.Captions{
			Create:        "Créer un client",
			Edit:          "Modifier le client #%d",
			Created:       "Client créé",
			Updated:       "Client mis à jour",
			Deleted:       "Client supprimé",
			ConfirmDelete: "Supprimer ce client ?",
			Required:      "Le nom est obligatoire",
			NotFound:      "Client #%d introuvable",
		},
		ID:     func(c service.Client) int { return c.ID },
		Values: func(c service.Client) map[string]string { return map[string]string{"nom": c.Nom} },
		List:   entity.Endpoint{Request: get("/client"), Shape: transport.ShapeAny},
		Search: func(q string) entity.Endpoint {
			return entity.Endpoint{Request: get("/client/nom/" + url.PathEscape(q)), Shape: transport.ShapeResults}
		},
		Create: func(body map[string]any) transport.Request { return postForm("/client/add", body) },
		Update: func(id int, body map[string]any) transport.Request {
			return postForm("/client/update", with(body, "id", id))
		},
		Delete: func(id int) transport.Request {
			return postForm("/client/delete", map[string]any{"id": id})
		},
	}
}

// Projects is the projet schema; same conventions as Clients.
func Projects() entity.Schema[service.Project] {
	return entity.Schema[service.Project]{
		Name:  "projet",
		Title: "Projets",
		IDKey: "id_projet",
		Fields: []entity.Field{
			{Key: "nom", Label: "Nom", Required: true},
		},
		Captions: entity.Captions{
			Create:        "Créer un projet",
			Edit:          "Modifier le projet #%d",
			Created:       "Projet créé",
			Updated:       "Projet mis à jour",
			Deleted:       "Projet supprimé",
			ConfirmDelete: "Supprimer ce projet ?",
			Required:      "Le nom est obligatoire",
			NotFound:      "Projet #%d introuvable",
		},
		ID:     func(p service.Project) int { return p.ID },
		Values: func(p service.Project) map[string]string { return map[string]string{"nom": p.Nom} },
		List:   entity.Endpoint{Request: get("/projet"), Shape: transport.ShapeAny},
		Search: func(q string) entity.Endpoint {
			return entity.Endpoint{Request: get("/projet/nom/" + url.PathEscape(q)), Shape: transport.ShapeResults}
		},
		Create: func(body map[string]any) transport.Request { return postForm("/projet/add", body) },
		Update: func(id int, body map[string]any) transport.Request {
			return postForm("/projet/update", with(body, "id", id))
		},
		Delete: func(id int) transport.Request {
			return postForm("/projet/delete", map[string]any{"id": id})
		},
	}
}

// Employees is the salarié schema. The ID travels in the path.
func Employees() entity.Schema[service.Employee] {
	return entity.Schema[service.Employee]{
		Name:  "salarie",
		Title: "Salariés",
		IDKey: "id_salarie",
		Fields: []entity.Field{
			{Key: "nom", Label: "Nom", Required: true},
			{Key: "prenom", Label: "Prénom", Required: true},
			{Key: "poste", Label: "Poste", Required: true},
			{Key: "contrat", Label: "Contrat", Required: true},
			{Key: "taux_journalier_moyen", Label: "TJM", Kind: entity.Number, Required: true},
			{Key: "role", Label: "Rôle", Kind: entity.Integer},
		},
		Captions: entity.Captions{
			Create:        "Créer un salarié",
			Edit:          "Modifier le salarié #%d",
			Created:       "Salarié créé",
			Updated:       "Salarié mis à jour",
			Deleted:       "Salarié supprimé",
			ConfirmDelete: "Supprimer ce salarié ?",
			Required:      "Tous les champs sont obligatoires",
			NotFound:      "Salarié #%d introuvable",
		},
		ID: func(e service.Employee) int { return e.ID },
		Values: func(e service.Employee) map[string]string {
			return map[string]string{
				"nom":                   e.Nom,
				"prenom":                e.Prenom,
				"poste":                 e.Poste,
				"contrat":               e.Contrat,
				"taux_journalier_moyen": string(e.TJM),
				"role":                  strconv.Itoa(e.Role),
			}
		},
		List:   entity.Endpoint{Request: get("/salaries"), Shape: transport.ShapeList},
		Create: func(body map[string]any) transport.Request { return postForm("/salaries", body) },
		Update: func(id int, body map[string]any) transport.Request {
			return postForm(fmt.Sprintf("/salaries/%d", id), body)
		},
		Delete: func(id int) transport.Request {
			return transport.Request{Method: http.MethodDelete, Path: fmt.Sprintf("/salaries/%d", id)}
		},
	}
}

// Absences is the absence schema. The list is wrapped as {success, data}.
func Absences() entity.Schema[service.Absence] {
	return entity.Schema[service.Absence]{
		Name:  "absence",
		Title: "Absences",
		IDKey: "id_absence",
		Fields: []entity.Field{
			{Key: "type", Label: "Type", Kind: entity.Choice, Required: true,
				Choices: []string{service.AbsenceConge, service.AbsenceMaladie}},
			{Key: "debut", Label: "Début", Kind: entity.Date, Required: true},
			{Key: "fin", Label: "Fin", Kind: entity.Date, Nullable: true},
			{Key: "motif", Label: "Motif", Nullable: true},
			{Key: "id_salarie", Label: "ID Salarié", Kind: entity.Integer, Required: true},
		},
		Captions: entity.Captions{
			Create:        "Créer une absence",
			Edit:          "Modifier l'absence #%d",
			Created:       "Absence créée",
			Updated:       "Absence mise à jour",
			Deleted:       "Absence supprimée",
			ConfirmDelete: "Supprimer cette absence ?",
			Required:      "Les champs Type, Début et ID Salarié sont obligatoires",
			NotFound:      "Absence #%d introuvable",
		},
		ID: func(a service.Absence) int { return a.ID },
		Values: func(a service.Absence) map[string]string {
			return map[string]string{
				"type":       a.Type,
				"debut":      a.Debut,
				"fin":        service.OrEmpty(a.Fin),
				"motif":      service.OrEmpty(a.Motif),
				"id_salarie": strconv.Itoa(a.EmployeeID),
			}
		},
		List: entity.Endpoint{Request: get("/absences"), Shape: transport.ShapeData},
		Create: func(body map[string]any) transport.Request {
			return sendJSON(http.MethodPost, "/absences", body)
		},
		Update: func(id int, body map[string]any) transport.Request {
			return sendJSON(http.MethodPut, fmt.Sprintf("/absences/%d", id), body)
		},
		Delete: func(id int) transport.Request {
			return transport.Request{Method: http.MethodDelete, Path: fmt.Sprintf("/absences/%d", id)}
		},
	}
}

// Tasks is the tâche schema. Update and delete carry id_tache in the JSON body.
func Tasks() entity.Schema[service.Task] {
	return entity.Schema[service.Task]{
		Name:  "tache",
		Title: "Tâches",
		IDKey: "id_tache",
		Fields: []entity.Field{
			{Key: "Nom", Label: "Nom", Required: true},
			{Key: "temps_previsionnel", Label: "Temps prévu", Kind: entity.Number, Default: "0"},
			{Key: "temps_passe", Label: "Temps passé", Kind: entity.Number, Default: "0"},
			{Key: "debut", Label: "Début", Kind: entity.Date, Required: true},
			{Key: "fin", Label: "Fin", Kind: entity.Date, Nullable: true},
			{Key: "statut", Label: "Statut"},
			{Key: "id_projet", Label: "ID Projet", Kind: entity.Integer, Required: true},
			{Key: "id_salarie", Label: "ID Salarié", Kind: entity.Integer, Required: true},
		},
		Captions: entity.Captions{
			Create:        "Créer une tâche",
			Edit:          "Modifier la tâche #%d",
			Created:       "Tâche créée",
			Updated:       "Tâche mise à jour",
			Deleted:       "Tâche supprimée",
			ConfirmDelete: "Supprimer cette tâche ?",
			Required:      "Les champs Nom, Début, ID Projet et ID Salarié sont obligatoires",
			NotFound:      "Tâche #%d introuvable",
		},
		ID: func(t service.Task) int { return t.ID },
		Values: func(t service.Task) map[string]string {
			return map[string]string{
				"Nom":                t.Nom,
				"temps_previsionnel": formatFloat(t.TempsPrevisionnel),
				"temps_passe":        formatFloat(t.TempsPasse),
				"debut":              t.Debut,
				"fin":                service.OrEmpty(t.Fin),
				"statut":             t.Statut,
				"id_projet":          strconv.Itoa(t.ProjectID),
				"id_salarie":         strconv.Itoa(t.EmployeeID),
			}
		},
		List: entity.Endpoint{Request: get("/taches"), Shape: transport.ShapeList},
		Create: func(body map[string]any) transport.Request {
			return sendJSON(http.MethodPost, "/taches", body)
		},
		Update: func(id int, body map[string]any) transport.Request {
			return sendJSON(http.MethodPost, "/taches/update", with(body, "id_tache", id))
		},
		Delete: func(id int) transport.Request {
			return sendJSON(http.MethodPost, "/taches/delete", map[string]any{"id_tache": id})
		},
	}
}
