package view

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clientColumns = []Column{{Key: "id_client", Label: "ID"}, {Key: "nom", Label: "Nom"}}

func TestClassify(t *testing.T) {
	tests := []struct {
		width int
		want  Class
	}{
		{0, Mobile},
		{767, Mobile},
		{768, Mobile},
		{769, Desktop},
		{1920, Desktop},
	}
	for _, tt := range tests {
		if got := Classify(tt.width); got != tt.want {
			t.Errorf("Classify(%d): expected %s, got %s", tt.width, tt.want, got)
		}
	}
}

func TestRender_Table(t *testing.T) {
	records := []Record{{ID: 1, Values: []string{"1", "Acme"}}, {ID: 2, Values: []string{"2", "Globex"}}}

	state := Render(clientColumns, records, Desktop)

	table, ok := state.(*Table)
	require.True(t, ok, "expected *Table, got %T", state)
	assert.Equal(t, Desktop, state.Class())
	assert.Equal(t, 2, state.Len())
	assert.Equal(t, []int{1, 2}, state.IDs())
	assert.Equal(t, []string{"1", "Acme"}, table.Rows[0].Cells)
	assert.Equal(t, []Action{ActionEdit, ActionDelete}, table.Rows[0].Actions)
}

func TestRender_Cards(t *testing.T) {
	records := []Record{{ID: 1, Values: []string{"1", "Acme"}}}

	state := Render(clientColumns, records, Mobile)

	cards, ok := state.(*Cards)
	require.True(t, ok, "expected *Cards, got %T", state)
	want := []Card{{
		ID:      1,
		Fields:  []Field{{Label: "ID", Value: "1"}, {Label: "Nom", Value: "Acme"}},
		Actions: []Action{ActionEdit, ActionDelete},
	}}
	if diff := cmp.Diff(want, cards.Items); diff != "" {
		t.Errorf("cards mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_EmptyListStillPicksOneTarget(t *testing.T) {
	for _, class := range []Class{Desktop, Mobile} {
		state := Render(clientColumns, nil, class)
		assert.Equal(t, class, state.Class())
		assert.Zero(t, state.Len())
	}
}

func TestRender_Idempotent(t *testing.T) {
	records := []Record{{ID: 1, Values: []string{"1", "Acme"}}}

	first := Render(clientColumns, records, Desktop)
	second := Render(clientColumns, records, Desktop)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("render not idempotent (-first +second):\n%s", diff)
	}
	assert.Equal(t, 1, second.Len())
}

func TestRender_ShortRecordPadsCells(t *testing.T) {
	state := Render(clientColumns, []Record{{ID: 9, Values: []string{"9"}}}, Desktop)
	assert.Equal(t, []string{"9", ""}, state.(*Table).Rows[0].Cells)
}

func TestText_Table(t *testing.T) {
	records := []Record{{ID: 1, Values: []string{"1", "Acme"}}, {ID: 12, Values: []string{"12", "Globex\nCorp"}}}
	got := Text(Render(clientColumns, records, Desktop), PlainStyles(), -1)

	want := "ID  Nom\n" +
		"1   Acme\n" +
		"12  Globex Corp\n"
	assert.Equal(t, want, got)
}

func TestText_Cards(t *testing.T) {
	records := []Record{{ID: 1, Values: []string{"1", "Acme"}}, {ID: 2, Values: []string{"2", "Globex"}}}
	got := Text(Render(clientColumns, records, Mobile), PlainStyles(), -1)

	want := "  ID : 1\n  Nom : Acme\n\n  ID : 2\n  Nom : Globex\n"
	assert.Equal(t, want, got)
}
