package annotate

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/carbocation/stagetrend"
)

// Header names accepted for the two columns we need. The first pair is what
// an Ensembl BioMart export produces; the second is a flattened GTF.
var (
	transcriptColumns = []string{"Transcript stable ID", "transcript_id"}
	symbolColumns     = []string{"Gene name", "gene_name"}
)

// Table resolves symbols from a local transcript to gene table, with no
// network access.
type Table struct {
	symbols map[string]string
}

func newTable() *Table {
	return &Table{symbols: make(map[string]string)}
}

// add keeps the first symbol seen for a transcript.
func (b *Table) add(transcriptID, symbol string) {
	tx := StripVersion(strings.TrimSpace(transcriptID))
	symbol = strings.TrimSpace(symbol)
	if tx == "" || symbol == "" {
		return
	}

	if _, exists := b.symbols[tx]; !exists {
		b.symbols[tx] = symbol
	}
}

// LoadTable reads a gene table from a local path or gs:// URL with the given
// parser, e.g. ParseBioMart or ParseGTF. The file may be compressed.
func LoadTable(ctx context.Context, path string, client *storage.Client, parse func(io.Reader) (*Table, error)) (*Table, error) {
	r, err := stagetrend.Open(ctx, path, client)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	b, err := parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return b, nil
}

// ParseBioMart reads a BioMart export, which may be tab or comma delimited.
func ParseBioMart(r io.Reader) (*Table, error) {
	fileBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, pfx.Err(err)
	}

	delim := '\t'
	firstLine := fileBytes
	if i := bytes.IndexByte(fileBytes, '\n'); i >= 0 {
		firstLine = fileBytes[:i]
	}
	if !bytes.ContainsRune(firstLine, '\t') {
		sample := fileBytes
		if len(sample) > 8192 {
			sample = sample[:8192]
		}
		delim = stagetrend.DetermineDelimiter(sample, '\t')
	}

	cr := csv.NewReader(bytes.NewReader(fileBytes))
	cr.Comma = delim
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("gene table is empty")
	} else if err != nil {
		return nil, pfx.Err(err)
	}

	txCol := findColumn(header, transcriptColumns)
	symCol := findColumn(header, symbolColumns)
	if txCol < 0 || symCol < 0 {
		return nil, fmt.Errorf("gene table needs one of %v and one of %v, found %v", transcriptColumns, symbolColumns, header)
	}

	out := newTable()
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, pfx.Err(err)
		}

		if len(rec) <= txCol || len(rec) <= symCol {
			continue
		}

		out.add(rec[txCol], rec[symCol])
	}

	return out, nil
}

func findColumn(header []string, names []string) int {
	for _, name := range names {
		for i, col := range header {
			if strings.TrimSpace(col) == name {
				return i
			}
		}
	}

	return -1
}

// Len is the number of transcripts with a known symbol.
func (b *Table) Len() int {
	return len(b.symbols)
}

func (b *Table) Resolve(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if symbol, exists := b.symbols[id]; exists {
			out[id] = symbol
		}
	}

	return out, nil
}
