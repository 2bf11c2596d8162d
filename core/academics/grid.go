package academics

import "strings"

type Cell struct {
	Value   Value `json:"value"`
	Editing bool  `json:"editing"`
}

// Grid is a header row plus data rows. Every row has exactly len(Headers) cells.
// A Grid is not safe for concurrent use; the Workspace guards it.
type Grid struct {
	Headers []string `json:"headers"`
	Rows    [][]Cell `json:"rows"`
}

// NewGrid builds a rectangular grid. Rows are padded with empty cells to the widest of
// the header and the longest row; the header is padded with "" accordingly.
func NewGrid(headers []string, rows [][]Value) *Grid {
	width := len(headers)
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}

	g := &Grid{
		Headers: make([]string, width),
		Rows:    make([][]Cell, len(rows)),
	}
	copy(g.Headers, headers)
	for i, r := range rows {
		row := make([]Cell, width)
		for j, v := range r {
			row[j].Value = v
		}
		g.Rows[i] = row
	}
	return g
}

func (g *Grid) ColumnCount() int { return len(g.Headers) }
func (g *Grid) RowCount() int    { return len(g.Rows) }

func (g *Grid) cell(row, col int) (*Cell, error) {
	if row < 0 || row >= len(g.Rows) {
		return nil, outOfRange("row", row, len(g.Rows))
	}
	if col < 0 || col >= len(g.Headers) {
		return nil, outOfRange("column", col, len(g.Headers))
	}
	return &g.Rows[row][col], nil
}

// Cell returns a copy of the cell at (row, col).
func (g *Grid) Cell(row, col int) (Cell, error) {
	c, err := g.cell(row, col)
	if err != nil {
		return Cell{}, err
	}
	return *c, nil
}

// SetCellValue replaces the value at (row, col); the editing flag is kept.
func (g *Grid) SetCellValue(row, col int, v Value) error {
	c, err := g.cell(row, col)
	if err != nil {
		return err
	}
	c.Value = v
	return nil
}

// ToggleEditing flips the editing flag at (row, col). Other cells may be editing too.
func (g *Grid) ToggleEditing(row, col int) error {
	c, err := g.cell(row, col)
	if err != nil {
		return err
	}
	c.Editing = !c.Editing
	return nil
}

// CommitEdit sets the value at (row, col) and leaves edit mode.
func (g *Grid) CommitEdit(row, col int, v Value) error {
	c, err := g.cell(row, col)
	if err != nil {
		return err
	}
	c.Value = v
	c.Editing = false
	return nil
}

// AddColumn appends a column named `name` with an empty cell in every row.
// The name is kept as given; an empty name leaves the grid unchanged and returns ErrBlankColumnName.
func (g *Grid) AddColumn(name string) error {
	if name == "" {
		return ErrBlankColumnName
	}
	g.Headers = append(g.Headers, name)
	for i := range g.Rows {
		g.Rows[i] = append(g.Rows[i], Cell{})
	}
	return nil
}

// DeleteColumn removes the header and the cell at `idx` from every row.
func (g *Grid) DeleteColumn(idx int) error {
	if idx < 0 || idx >= len(g.Headers) {
		return outOfRange("column", idx, len(g.Headers))
	}
	g.Headers = append(g.Headers[:idx:idx], g.Headers[idx+1:]...)
	for i, row := range g.Rows {
		g.Rows[i] = append(row[:idx:idx], row[idx+1:]...)
	}
	return nil
}

// AddRow appends a row of empty cells.
func (g *Grid) AddRow() {
	g.Rows = append(g.Rows, make([]Cell, len(g.Headers)))
}

func (g *Grid) DeleteRow(idx int) error {
	if idx < 0 || idx >= len(g.Rows) {
		return outOfRange("row", idx, len(g.Rows))
	}
	g.Rows = append(g.Rows[:idx:idx], g.Rows[idx+1:]...)
	return nil
}

// Values returns the data rows without the editing flags.
func (g *Grid) Values() [][]Value {
	out := make([][]Value, len(g.Rows))
	for i, row := range g.Rows {
		vals := make([]Value, len(row))
		for j, c := range row {
			vals[j] = c.Value
		}
		out[i] = vals
	}
	return out
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{
		Headers: make([]string, len(g.Headers)),
		Rows:    make([][]Cell, len(g.Rows)),
	}
	copy(c.Headers, g.Headers)
	for i, row := range g.Rows {
		c.Rows[i] = make([]Cell, len(row))
		copy(c.Rows[i], row)
	}
	return c
}

// Lines renders the header and every row as one tab-separated line each.
func (g *Grid) Lines() []string {
	lines := make([]string, 0, len(g.Rows)+1)
	lines = append(lines, strings.Join(g.Headers, "\t")+"\n")
	for _, row := range g.Rows {
		cells := make([]string, len(row))
		for j, c := range row {
			cells[j] = c.Value.String()
		}
		lines = append(lines, strings.Join(cells, "\t")+"\n")
	}
	return lines
}
