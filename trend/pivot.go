package trend

import (
	"math"
	"sort"
)

const (
	MetricEstCounts = "est_counts"
	MetricTPM       = "tpm"
)

// WideRow holds every stage mean of one transcript. The slices are indexed by
// stage order; a stage without any observation is NaN and not Present.
type WideRow struct {
	TargetID  string
	EstCounts []float64
	TPM       []float64
	Present   []bool
}

// Complete reports whether the transcript was observed at every stage.
func (w WideRow) Complete() bool {
	for _, p := range w.Present {
		if !p {
			return false
		}
	}

	return true
}

// ColumnName joins a metric and a stage label, e.g. "tpm_Stage 1".
func ColumnName(metric, stage string) string {
	return metric + "_" + stage
}

// Columns lists the columns of the wide table: the transcript ID, one
// est_counts column per stage, then one tpm column per stage.
func Columns(stages []string) []string {
	out := make([]string, 0, 1+2*len(stages))
	out = append(out, "target_id")
	for _, metric := range []string{MetricEstCounts, MetricTPM} {
		for _, stage := range stages {
			out = append(out, ColumnName(metric, stage))
		}
	}

	return out
}

// Pivot reshapes stage means from long to wide form, producing one row per
// transcript ordered by transcript ID.
func Pivot(means []StageMean, stages []string) []WideRow {
	stageOrder := make(map[string]int, len(stages))
	for i, s := range stages {
		stageOrder[s] = i
	}

	byID := make(map[string]int)
	out := make([]WideRow, 0)

	for _, m := range means {
		idx, ok := stageOrder[m.Stage]
		if !ok {
			continue
		}

		rowIdx, exists := byID[m.TargetID]
		if !exists {
			row := WideRow{
				TargetID:  m.TargetID,
				EstCounts: make([]float64, len(stages)),
				TPM:       make([]float64, len(stages)),
				Present:   make([]bool, len(stages)),
			}
			for i := range stages {
				row.EstCounts[i] = math.NaN()
				row.TPM[i] = math.NaN()
			}
			out = append(out, row)
			rowIdx = len(out) - 1
			byID[m.TargetID] = rowIdx
		}

		out[rowIdx].EstCounts[idx] = m.EstCounts
		out[rowIdx].TPM[idx] = m.TPM
		out[rowIdx].Present[idx] = true
	}

	sort.Slice(out, func(i, j int) bool { return out[i].TargetID < out[j].TargetID })

	return out
}
