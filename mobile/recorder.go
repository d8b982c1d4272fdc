package mobile

import (
	"io"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Recorder receives (previous, current) pairs for loggable derived
// streams, once per accepted post-dedupe transition. Recording is
// best-effort: a failing recorder never affects delivered values.
type Recorder interface {
	Record(column string, prev, cur string)
}

type transition struct {
	at     time.Time
	column string
	prev   string
	cur    string
}

// TableRecorder keeps a bounded in-memory log of value transitions for
// post-hoc inspection.
type TableRecorder struct {
	mu   sync.Mutex
	max  int
	rows []transition
}

const DefaultRecorderSize = 256

func NewTableRecorder(max int) *TableRecorder {
	if max <= 0 {
		max = DefaultRecorderSize
	}
	return &TableRecorder{max: max}
}

func (tr *TableRecorder) Record(column, prev, cur string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.rows = append(tr.rows, transition{
		at:     time.Now(),
		column: column,
		prev:   prev,
		cur:    cur,
	})
	if len(tr.rows) > tr.max {
		tr.rows = tr.rows[len(tr.rows)-tr.max:]
	}
}

func (tr *TableRecorder) Len() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return len(tr.rows)
}

// Transitions returns a copy of the recorded (column, prev, cur) rows
// in arrival order.
func (tr *TableRecorder) Transitions(column string) [][2]string {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	var out [][2]string
	for _, row := range tr.rows {
		if row.column == column {
			out = append(out, [2]string{row.prev, row.cur})
		}
	}
	return out
}

// Dump renders the transition log as a table.
func (tr *TableRecorder) Dump(w io.Writer) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	tbl := table.NewWriter()
	tbl.SetTitle("Derived Value Transitions")
	tbl.SetOutputMirror(w)
	tbl.AppendHeader(table.Row{"time", "column", "previous", "current"})
	for _, row := range tr.rows {
		tbl.AppendRows([]table.Row{
			{
				row.at.Format(time.RFC3339Nano),
				row.column,
				row.prev,
				row.cur,
			},
		})
	}
	tbl.Render()
}
