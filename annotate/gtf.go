package annotate

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/carbocation/pfx"
)

// gtfColumns is the number of tab-delimited fields on every GTF line; the
// last one holds the attributes.
const gtfColumns = 9

type KeyValue struct {
	Key   string
	Value string
}

// ParseAttributes splits the attribute column of a GTF line, e.g.
// `gene_id "ENSG1"; transcript_id "ENST1.2"; gene_name "TP53";`.
func ParseAttributes(attr string) ([]KeyValue, error) {
	out := make([]KeyValue, 0)

	attributes := strings.Split(attr, ";")
	for i, attribute := range attributes {
		attribute = strings.TrimSpace(attribute)
		if attribute == "" {
			// Line ends in a semicolon
			continue
		}

		parts := strings.SplitN(attribute, " ", 2)
		if x := len(parts); x != 2 {
			return nil, fmt.Errorf("Expected 2 parts; attribute %d had %d (%+v)", i, x, parts)
		}

		out = append(out, KeyValue{Key: parts[0], Value: strings.Trim(strings.TrimSpace(parts[1]), "\"")})
	}

	return out, nil
}

// ParseGTF builds a symbol table from a GENCODE or Ensembl GTF, using the
// transcript_id and gene_name attributes of any feature that carries both.
func ParseGTF(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	out := newTable()

	for i := 0; ; i++ {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, pfx.Err(fmt.Errorf("GTF 0-based row %d error %s: %s", i, err, line))
		}
		if line == "" && err == io.EOF {
			break
		}

		lineCandidate := strings.TrimRight(line, "\r\n")
		if lineCandidate == "" || strings.HasPrefix(lineCandidate, "#") {
			if err == io.EOF {
				break
			}
			continue
		}

		row := strings.Split(lineCandidate, "\t")
		if x := len(row); x < gtfColumns {
			return nil, fmt.Errorf("GTF 0-based row %d had %d columns, expected %d", i, x, gtfColumns)
		}

		attributes, aerr := ParseAttributes(row[gtfColumns-1])
		if aerr != nil {
			return nil, fmt.Errorf("GTF 0-based row %d: %w", i, aerr)
		}

		var transcriptID, geneName string
		for _, attr := range attributes {
			switch attr.Key {
			case "transcript_id":
				transcriptID = attr.Value
			case "gene_name":
				geneName = attr.Value
			}
		}
		out.add(transcriptID, geneName)

		if err == io.EOF {
			break
		}
	}

	return out, nil
}
