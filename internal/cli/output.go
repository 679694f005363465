package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pfrederiksen/akleg-senators/internal/legislator"
)

// WriteSummary prints the record count, output path and elapsed time.
func WriteSummary(w io.Writer, count int, path string, elapsed time.Duration) {
	fmt.Fprintf(w, "Wrote %d records to %s\n", count, path)
	fmt.Fprintf(w, "Elapsed: %d ms\n", elapsed.Milliseconds())
}

// WriteTable renders the records as a table.
func WriteTable(w io.Writer, records []*legislator.Record) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Name", "Party", "Role", "Region", "URL"})

	for _, r := range records {
		t.AppendRow(table.Row{r.Name, r.Party, r.Profile, r.Type, r.URL})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}
