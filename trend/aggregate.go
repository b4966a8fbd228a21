// Package trend collapses replicate samples into per-stage means, fits a
// linear trend of log expression across the ordered stages for every
// transcript, and ranks transcripts by the slope of that trend.
package trend

import (
	"fmt"
	"sort"

	"github.com/carbocation/stagetrend/abundance"
	"gonum.org/v1/gonum/stat"
)

// StageMean is the replicate average of one transcript at one stage.
type StageMean struct {
	TargetID   string
	Stage      string
	EstCounts  float64
	TPM        float64
	Replicates int
}

type groupKey struct {
	TargetID string
	Stage    string
}

type groupValues struct {
	EstCounts []float64
	TPM       []float64
}

// Aggregate groups records by (transcript, stage) and averages est_counts and
// tpm over the replicates in each group. The output is ordered by transcript
// ID and then by stage order, and does not depend on the order of records.
func Aggregate(records []abundance.Record, stages []string) ([]StageMean, error) {
	stageOrder := make(map[string]int, len(stages))
	for i, s := range stages {
		stageOrder[s] = i
	}

	groups := make(map[groupKey]*groupValues)
	for _, rec := range records {
		if _, ok := stageOrder[rec.Stage]; !ok {
			return nil, fmt.Errorf("transcript %s has undeclared stage %q", rec.TargetID, rec.Stage)
		}

		key := groupKey{TargetID: rec.TargetID, Stage: rec.Stage}
		g, exists := groups[key]
		if !exists {
			g = &groupValues{}
			groups[key] = g
		}
		g.EstCounts = append(g.EstCounts, rec.EstCounts)
		g.TPM = append(g.TPM, rec.TPM)
	}

	out := make([]StageMean, 0, len(groups))
	for key, g := range groups {
		out = append(out, StageMean{
			TargetID:   key.TargetID,
			Stage:      key.Stage,
			EstCounts:  orderedMean(g.EstCounts),
			TPM:        orderedMean(g.TPM),
			Replicates: len(g.TPM),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TargetID != out[j].TargetID {
			return out[i].TargetID < out[j].TargetID
		}
		return stageOrder[out[i].Stage] < stageOrder[out[j].Stage]
	})

	return out, nil
}

// orderedMean sorts before summing so the floating point result is identical
// for any permutation of the input.
func orderedMean(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return stat.Mean(sorted, nil)
}
