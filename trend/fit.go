package trend

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// TrendRow is the fitted trend of one transcript.
type TrendRow struct {
	TargetID string

	// LogTPM is log(1+tpm) for each stage, in stage order.
	LogTPM []float64

	Slope float64
}

type FitResult struct {
	Rows []TrendRow

	// Excluded lists transcripts that could not be ranked, either because
	// they were not observed at every stage or because their slope was not
	// a finite number.
	Excluded []string
}

// Log1p returns log(1+x) for each value.
func Log1p(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Log1p(v)
	}

	return out
}

// Slope is the ordinary least squares slope of ys against the ordinal
// positions 1..len(ys). Any NaN in ys yields NaN.
func Slope(ys []float64) float64 {
	if len(ys) < 2 {
		return math.NaN()
	}

	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = float64(i + 1)
	}

	_, beta := stat.LinearRegression(xs, ys, nil, false)
	return beta
}

// Fit log-transforms the TPM of every transcript and fits its slope across
// the ordered stages.
func Fit(rows []WideRow) FitResult {
	out := FitResult{
		Rows:     make([]TrendRow, 0, len(rows)),
		Excluded: make([]string, 0),
	}

	for _, row := range rows {
		if !row.Complete() {
			out.Excluded = append(out.Excluded, row.TargetID)
			continue
		}

		logTPM := Log1p(row.TPM)
		slope := Slope(logTPM)
		if math.IsNaN(slope) || math.IsInf(slope, 0) {
			out.Excluded = append(out.Excluded, row.TargetID)
			continue
		}

		out.Rows = append(out.Rows, TrendRow{
			TargetID: row.TargetID,
			LogTPM:   logTPM,
			Slope:    slope,
		})
	}

	return out
}
