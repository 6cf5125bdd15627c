package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/irisworks/datadesk/pkg/tabular"
)

// timeLayouts are tried in order when parsing temporal cells.
var timeLayouts = []struct {
	layout string
	kind   tabular.Kind
}{
	{"2006-01-02 15:04:05", tabular.KindDateTime},
	{"2006-01-02T15:04:05", tabular.KindDateTime},
	{"2006-01-02", tabular.KindDate},
	{"15:04:05", tabular.KindTime},
}

// readCSV parses a CSV file into a tabular value. The first record is the
// header; cell kinds are guessed per cell (int, float, bool, date/time/
// datetime, else text) and the table refines each column to its dominant
// kind. Empty cells become nulls.
func readCSV(path string) (*tabular.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	t := tabular.New(header...)
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}
		row := make([]tabular.Value, len(record))
		for i, cell := range record {
			row[i] = parseCell(cell)
		}
		if err := t.AppendRow(row); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func parseCell(cell string) tabular.Value {
	if cell == "" {
		return tabular.Null()
	}
	if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return tabular.Int(n)
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return tabular.Float(f)
	}
	switch cell {
	case "true", "True", "TRUE":
		return tabular.Bool(true)
	case "false", "False", "FALSE":
		return tabular.Bool(false)
	}
	for _, tl := range timeLayouts {
		if ts, err := time.Parse(tl.layout, cell); err == nil {
			switch tl.kind {
			case tabular.KindDate:
				return tabular.Date(ts)
			case tabular.KindTime:
				return tabular.TimeOfDay(ts)
			default:
				return tabular.DateTime(ts)
			}
		}
	}
	return tabular.Text(cell)
}
