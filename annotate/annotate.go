// Package annotate maps transcript identifiers to gene symbols through a
// swappable batch Resolver.
package annotate

import (
	"context"
	"strings"

	"github.com/carbocation/stagetrend/trend"
)

// Unknown is reported for transcripts that have no gene symbol.
const Unknown = "Unknown"

// Resolver looks up gene symbols for unversioned transcript IDs in one batch.
// IDs without a symbol are simply absent from the returned map.
type Resolver interface {
	Resolve(ctx context.Context, ids []string) (map[string]string, error)
}

// StripVersion removes the version suffix, i.e. everything from the last
// period onward: ENST00000456328.2 becomes ENST00000456328.
func StripVersion(id string) string {
	if i := strings.LastIndex(id, "."); i >= 0 {
		return id[:i]
	}

	return id
}

// Symbols resolves every transcript ID, keyed by the original versioned ID.
// Transcripts the resolver does not know map to Unknown. Resolver errors are
// returned as-is.
func Symbols(ctx context.Context, r Resolver, transcriptIDs []string) (map[string]string, error) {
	stripped := make([]string, 0, len(transcriptIDs))
	seen := make(map[string]struct{})
	for _, id := range transcriptIDs {
		s := StripVersion(id)
		if _, exists := seen[s]; exists {
			continue
		}
		seen[s] = struct{}{}
		stripped = append(stripped, s)
	}

	found, err := r.Resolve(ctx, stripped)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(transcriptIDs))
	for _, id := range transcriptIDs {
		symbol, ok := found[StripVersion(id)]
		if !ok || symbol == "" {
			symbol = Unknown
		}
		out[id] = symbol
	}

	return out, nil
}

// Row is one line of a final result table.
type Row struct {
	Gene     string
	TargetID string
	Slope    float64

	// LogTPM is log(1+mean tpm) per stage, in stage order.
	LogTPM []float64
}

// Annotate attaches gene symbols to ranked trend rows, preserving their
// order. The resolver is called once for the whole set.
func Annotate(ctx context.Context, r Resolver, rows []trend.TrendRow) ([]Row, error) {
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.TargetID)
	}

	symbols, err := Symbols(ctx, r, ids)
	if err != nil {
		return nil, err
	}

	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, Row{
			Gene:     symbols[row.TargetID],
			TargetID: row.TargetID,
			Slope:    row.Slope,
			LogTPM:   row.LogTPM,
		})
	}

	return out, nil
}

// Offline never finds a symbol, so every transcript is reported as Unknown.
type Offline struct{}

func (Offline) Resolve(ctx context.Context, ids []string) (map[string]string, error) {
	return map[string]string{}, nil
}
