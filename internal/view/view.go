// Package view turns an entity list into exactly one presentation target:
// a table on wide viewports or a card list on narrow ones.
package view

// MobileMaxWidth is the widest viewport, in logical pixels, rendered as cards.
const MobileMaxWidth = 768

// Class is the viewport class.
type Class int

const (
	Desktop Class = iota
	Mobile
)

func (c Class) String() string {
	if c == Mobile {
		return "mobile"
	}
	return "desktop"
}

// Classify returns Mobile for widths up to MobileMaxWidth, Desktop above.
func Classify(width int) Class {
	if width <= MobileMaxWidth {
		return Mobile
	}
	return Desktop
}

// Action is a per-record control.
type Action string

const (
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// RecordActions are the controls attached to every row or card.
var RecordActions = []Action{ActionEdit, ActionDelete}

// Column describes one displayed field.
type Column struct {
	Key   string
	Label string
}

// Record is one entity flattened to display strings aligned with the columns.
type Record struct {
	ID     int
	Values []string
}

// State is the rendered form of a list: either *Table or *Cards, never both.
type State interface {
	// Class is the viewport class the state was rendered for.
	Class() Class
	// Len is the number of rows or cards.
	Len() int
	// IDs lists record IDs in display order.
	IDs() []int

	sealed()
}

// Table is the desktop target.
type Table struct {
	Columns []Column
	Rows    []Row
}

// Row is one table line.
type Row struct {
	ID      int
	Cells   []string
	Actions []Action
}

// Cards is the mobile target.
type Cards struct {
	Items []Card
}

// Card is one stacked record.
type Card struct {
	ID      int
	Fields  []Field
	Actions []Action
}

// Field is a labelled value on a card.
type Field struct {
	Label string
	Value string
}

func (*Table) Class() Class { return Desktop }
func (t *Table) Len() int   { return len(t.Rows) }
func (*Table) sealed()      {}

func (t *Table) IDs() []int {
	ids := make([]int, len(t.Rows))
	for i, r := range t.Rows {
		ids[i] = r.ID
	}
	return ids
}

func (*Cards) Class() Class { return Mobile }
func (c *Cards) Len() int   { return len(c.Items) }
func (*Cards) sealed()      {}

func (c *Cards) IDs() []int {
	ids := make([]int, len(c.Items))
	for i, card := range c.Items {
		ids[i] = card.ID
	}
	return ids
}

// Render builds the target for class from records, one entry per record in
// order. It does not retain or mutate its inputs.
func Render(columns []Column, records []Record, class Class) State {
	if class == Mobile {
		cards := &Cards{Items: make([]Card, 0, len(records))}
		for _, rec := range records {
			fields := make([]Field, len(columns))
			for i, col := range columns {
				fields[i] = Field{Label: col.Label, Value: cell(rec, i)}
			}
			cards.Items = append(cards.Items, Card{ID: rec.ID, Fields: fields, Actions: actions()})
		}
		return cards
	}

	table := &Table{
		Columns: append([]Column(nil), columns...),
		Rows:    make([]Row, 0, len(records)),
	}
	for _, rec := range records {
		cells := make([]string, len(columns))
		for i := range columns {
			cells[i] = cell(rec, i)
		}
		table.Rows = append(table.Rows, Row{ID: rec.ID, Cells: cells, Actions: actions()})
	}
	return table
}

func cell(rec Record, i int) string {
	if i < len(rec.Values) {
		return rec.Values[i]
	}
	return ""
}

func actions() []Action {
	return append([]Action(nil), RecordActions...)
}
