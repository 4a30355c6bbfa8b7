package output

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk/internal/entity"
	"bizdesk/internal/view"
)

func TestFormatList_Empty(t *testing.T) {
	state := view.Render([]view.Column{{Key: "id", Label: "ID"}}, nil, view.Desktop)

	var buf bytes.Buffer
	FormatList(&buf, state, view.PlainStyles(), false)
	assert.Equal(t, "no records found\n", buf.String())

	buf.Reset()
	FormatList(&buf, state, view.PlainStyles(), true)
	assert.Empty(t, buf.String())
}

func TestFormatForm(t *testing.T) {
	form := entity.Form{
		ID:     "3",
		Title:  "Modifier le client #3",
		Values: map[string]string{"nom": "Acme"},
	}

	var buf bytes.Buffer
	FormatForm(&buf, form, []entity.Field{{Key: "nom", Label: "Nom"}})

	assert.Equal(t, "Modifier le client #3\n  nom: Acme\n", buf.String())
}

func TestWriteXLSX_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clients.xlsx")
	header := []string{"ID", "Nom"}
	rows := [][]string{{"1", "Acme"}, {"2", "Globex"}}

	require.NoError(t, WriteXLSX(path, "Clients", header, rows))

	got, err := ReadXLSX(path)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"ID", "Nom"}, {"1", "Acme"}, {"2", "Globex"}}, got)
}

func TestWriteXLSX_LongSheetName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "long.xlsx")

	require.NoError(t, WriteXLSX(path, "Une feuille au nom beaucoup trop long", []string{"ID"}, nil))

	got, err := ReadXLSX(path)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"ID"}}, got)
}
