// Package abundance reads kallisto-style transcript quantification tables
// and tags each row with the condition and stage of its sample.
package abundance

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

// RequiredColumns must all be present in the header of an abundance file.
var RequiredColumns = []string{"target_id", "est_counts", "tpm"}

// Row is one line of an abundance.tsv file. Other columns, such as length and
// eff_length, are ignored.
type Row struct {
	TargetID  string  `csv:"target_id"`
	EstCounts float64 `csv:"est_counts"`
	TPM       float64 `csv:"tpm"`
}

// Record is a Row that knows which sample group it came from.
type Record struct {
	TargetID  string
	EstCounts float64
	TPM       float64
	Condition string
	Stage     string
}

func tabReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	return cr
}

// ReadFile parses a tab-delimited abundance table.
func ReadFile(r io.Reader) ([]Row, error) {
	fileBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, pfx.Err(err)
	}

	header, err := tabReader(bytes.NewReader(fileBytes)).Read()
	if err == io.EOF {
		return nil, fmt.Errorf("abundance file is empty")
	} else if err != nil {
		return nil, pfx.Err(err)
	}

	present := make(map[string]struct{}, len(header))
	for _, col := range header {
		present[strings.TrimSpace(col)] = struct{}{}
	}
	for _, col := range RequiredColumns {
		if _, exists := present[col]; !exists {
			return nil, fmt.Errorf("abundance file is missing column %q (header: %v)", col, header)
		}
	}

	records := []*Row{}
	if err := gocsv.UnmarshalCSV(tabReader(bytes.NewReader(fileBytes)), &records); err != nil {
		return nil, pfx.Err(err)
	}

	out := make([]Row, 0, len(records))
	for _, rec := range records {
		out = append(out, *rec)
	}

	return out, nil
}
