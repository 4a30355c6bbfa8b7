package entity

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk/internal/view"
)

func absenceLikeSchema() Schema[item] {
	s := itemSchema()
	s.Captions.Required = ""
	s.Fields = []Field{
		{Key: "type", Label: "Type", Kind: Choice, Required: true, Choices: []string{"conge", "maladie"}},
		{Key: "debut", Label: "Début", Kind: Date, Required: true},
		{Key: "fin", Label: "Fin", Kind: Date, Nullable: true},
		{Key: "jours", Label: "Jours", Kind: Number},
		{Key: "id_salarie", Label: "ID Salarié", Kind: Integer, Required: true},
	}
	return s
}

func TestSchema_Columns(t *testing.T) {
	want := []view.Column{{Key: "id", Label: "ID"}, {Key: "nom", Label: "Nom"}}
	if diff := cmp.Diff(want, itemSchema().Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_BodyConverts(t *testing.T) {
	body, err := absenceLikeSchema().Body(map[string]string{
		"type":       "maladie",
		"debut":      "2026-03-02",
		"fin":        "",
		"jours":      "2,5",
		"id_salarie": " 7 ",
	})
	require.NoError(t, err)

	want := map[string]any{
		"type":       "maladie",
		"debut":      "2026-03-02",
		"fin":        nil,
		"jours":      2.5,
		"id_salarie": 7,
	}
	if diff := cmp.Diff(want, body); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_BodyAppliesDefault(t *testing.T) {
	s := itemSchema()
	s.Fields = []Field{
		{Key: "nom", Label: "Nom", Required: true},
		{Key: "heures", Label: "Heures", Kind: Number, Default: "0"},
		{Key: "role", Label: "Rôle", Kind: Integer},
	}

	body, err := s.Body(map[string]string{"nom": "Acme", "heures": "  "})
	require.NoError(t, err)
	assert.Equal(t, 0.0, body["heures"])
	assert.Nil(t, body["role"])

	body, err = s.Body(map[string]string{"nom": "Acme", "heures": "1.5"})
	require.NoError(t, err)
	assert.Equal(t, 1.5, body["heures"])
}

func TestSchema_BodyErrors(t *testing.T) {
	valid := map[string]string{"type": "conge", "debut": "2026-03-02", "id_salarie": "7"}
	with := func(k, v string) map[string]string {
		out := map[string]string{}
		for key, val := range valid {
			out[key] = val
		}
		out[k] = v
		return out
	}

	tests := []struct {
		name       string
		values     map[string]string
		wantMsg    string
		wantFields []string
	}{
		{"bad date", with("debut", "02/03/2026"), "Début doit être une date (AAAA-MM-JJ)", []string{"debut"}},
		{"bad integer", with("id_salarie", "sept"), "ID Salarié doit être un nombre entier", []string{"id_salarie"}},
		{"bad number", with("jours", "beaucoup"), "Jours doit être un nombre", []string{"jours"}},
		{"bad choice", with("type", "rtt"), "Type doit valoir conge ou maladie", []string{"type"}},
		{"zero reference is missing", with("id_salarie", "0"), "Champs obligatoires : ID Salarié", []string{"id_salarie"}},
		{"several missing", map[string]string{"type": "conge"}, "Champs obligatoires : Début, ID Salarié", []string{"debut", "id_salarie"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := absenceLikeSchema().Body(tt.values)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, tt.wantMsg, verr.Message)
			assert.Equal(t, tt.wantFields, verr.Fields)
		})
	}
}

func TestSchema_RequiredCaptionWins(t *testing.T) {
	_, err := itemSchema().Body(map[string]string{"nom": ""})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Le nom est obligatoire", verr.Message)
}

func TestSchema_RecordShowsDashForNull(t *testing.T) {
	s := absenceLikeSchema()
	s.Values = func(i item) map[string]string {
		return map[string]string{"type": "conge", "debut": "2026-03-02", "jours": "1", "id_salarie": "7"}
	}

	rec := s.record(item{ID: 3})

	assert.Equal(t, 3, rec.ID)
	assert.Equal(t, []string{"3", "conge", "2026-03-02", "-", "1", "7"}, rec.Values)
}
