// Package report prints ranked trend tables.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/carbocation/stagetrend/pipeline"
	"github.com/carbocation/stagetrend/trend"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const (
	FormatTable = "table"
	FormatTSV   = "tsv"
)

// Header is the fixed column order of every result table.
func Header(stages []string) []string {
	out := []string{"gene", "slope"}
	for _, stage := range stages {
		out = append(out, trend.ColumnName(trend.MetricTPM, stage))
	}

	return out
}

func formatRow(row []float64) []string {
	out := make([]string, 0, len(row))
	for _, v := range row {
		out = append(out, strconv.FormatFloat(v, 'f', 6, 64))
	}

	return out
}

func cells(set pipeline.ResultSet) [][]string {
	out := make([][]string, 0, len(set.Rows))
	for _, row := range set.Rows {
		line := []string{row.Gene, strconv.FormatFloat(row.Slope, 'f', 6, 64)}
		line = append(line, formatRow(row.LogTPM)...)
		out = append(out, line)
	}

	return out
}

// Write prints every set in the requested format.
func Write(w io.Writer, format string, sets []pipeline.ResultSet, stages []string) error {
	switch format {
	case FormatTable:
		return WriteTables(w, sets, stages)
	case FormatTSV:
		return WriteTSV(w, sets, stages)
	}

	return fmt.Errorf("unknown output format %q (options: %s, %s)", format, FormatTable, FormatTSV)
}

// WriteTables renders one titled table per set, separated by blank lines.
func WriteTables(w io.Writer, sets []pipeline.ResultSet, stages []string) error {
	headers := Header(stages)

	for i, set := range sets {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w, "%s:\n", set.Title()); err != nil {
			return err
		}

		tw := table.NewWriter()
		tw.SetStyle(table.StyleRounded)
		// Column names carry stage labels; keep their case
		tw.Style().Format.Header = text.FormatDefault

		header := make(table.Row, len(headers))
		for k, h := range headers {
			header[k] = h
		}
		tw.AppendHeader(header)

		for _, line := range cells(set) {
			r := make(table.Row, len(line))
			for k, c := range line {
				r[k] = c
			}
			tw.AppendRow(r)
		}

		configs := make([]table.ColumnConfig, 0, len(headers))
		for k := range headers {
			align := text.AlignRight
			if k == 0 {
				align = text.AlignLeft
			}
			configs = append(configs, table.ColumnConfig{
				Number:      k + 1,
				Align:       align,
				AlignHeader: text.AlignLeft,
			})
		}
		tw.SetColumnConfigs(configs)

		if _, err := fmt.Fprintln(w, tw.Render()); err != nil {
			return err
		}
	}

	return nil
}

// WriteTSV prints a single tab-delimited table with the condition and
// direction of every row in front of the fixed columns.
func WriteTSV(w io.Writer, sets []pipeline.ResultSet, stages []string) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := cw.Write(append([]string{"condition", "direction"}, Header(stages)...)); err != nil {
		return err
	}

	for _, set := range sets {
		for _, line := range cells(set) {
			if err := cw.Write(append([]string{set.Condition, set.Direction.String()}, line...)); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
