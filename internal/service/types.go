// Package service defines the backend records and the interface the CLI and
// the interactive UI drive.
package service

import (
	"bytes"
	"encoding/json"
)

// Client is a customer.
type Client struct {
	ID  int    `json:"id_client"`
	Nom string `json:"nom"`
}

// Project is a customer project.
type Project struct {
	ID  int    `json:"id_projet"`
	Nom string `json:"nom"`
}

// Employee is a salarié.
type Employee struct {
	ID      int     `json:"id_salarie"`
	Nom     string  `json:"nom"`
	Prenom  string  `json:"prenom"`
	Poste   string  `json:"poste"`
	Contrat string  `json:"contrat"`
	TJM     Decimal `json:"taux_journalier_moyen"`
	Role    int     `json:"role"`
}

// Absence types accepted by the backend.
const (
	AbsenceConge   = "conge"
	AbsenceMaladie = "maladie"
)

// Absence is a leave period for an employee.
type Absence struct {
	ID         int     `json:"id_absence"`
	Type       string  `json:"type"` // "conge" or "maladie"
	Debut      string  `json:"debut"`
	Fin        *string `json:"fin"`
	Motif      *string `json:"motif"`
	EmployeeID int     `json:"id_salarie"`
}

// Task is a tâche assigned to an employee on a project.
type Task struct {
	ID                int     `json:"id_tache"`
	Nom               string  `json:"Nom"`
	TempsPrevisionnel float64 `json:"temps_previsionnel"`
	TempsPasse        float64 `json:"temps_passe"`
	Debut             string  `json:"debut"`
	Fin               *string `json:"fin"`
	Statut            string  `json:"statut"`
	ProjectID         int     `json:"id_projet"`
	EmployeeID        int     `json:"id_salarie"`
}

// Decimal is a numeric value the backend may send as a JSON string or number.
// It keeps the textual form.
type Decimal string

// UnmarshalJSON implements json.Unmarshaler.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = Decimal(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*d = Decimal(n.String())
	return nil
}

// OrEmpty dereferences an optional text field.
func OrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
