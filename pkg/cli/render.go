package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/irisworks/datadesk/pkg/tabular"
)

// renderResult writes a tabular value in the selected output format.
func renderResult(w io.Writer, t *tabular.Table, format string) error {
	switch format {
	case "json":
		return renderJSON(w, t)
	case "csv":
		return renderCSV(w, t)
	default:
		renderTable(w, t)
		return nil
	}
}

func renderTable(w io.Writer, t *tabular.Table) {
	if t.NumRows() == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	header := make(table.Row, t.NumCols())
	for i, c := range t.Columns {
		header[i] = c.Name
	}
	tw.AppendHeader(header)

	for _, row := range t.Rows {
		out := make(table.Row, len(row))
		for i, v := range row {
			if v.IsNull() {
				out[i] = "NULL"
			} else {
				out[i] = v.Render()
			}
		}
		tw.AppendRow(out)
	}

	tw.Render()
	fmt.Fprintf(w, "(%d rows)\n", t.NumRows())
}

func renderCSV(w io.Writer, t *tabular.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.ColumnNames()); err != nil {
		return err
	}
	record := make([]string, t.NumCols())
	for _, row := range t.Rows {
		for i, v := range row {
			record[i] = v.Render()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func renderJSON(w io.Writer, t *tabular.Table) error {
	records := make([]map[string]any, t.NumRows())
	for r, row := range t.Rows {
		rec := make(map[string]any, t.NumCols())
		for i, c := range t.Columns {
			rec[c.Name] = row[i].Arg()
		}
		records[r] = rec
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
