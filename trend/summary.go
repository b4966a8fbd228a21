package trend

import (
	"fmt"
	"io"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/montanaflynn/stats"
)

// Summary describes the distribution of slopes within one condition.
type Summary struct {
	Count  int
	Min    float64
	P05    float64
	Median float64
	P95    float64
	Max    float64
}

func (s Summary) String() string {
	return fmt.Sprintf("n=%d min=%.4f p5=%.4f median=%.4f p95=%.4f max=%.4f", s.Count, s.Min, s.P05, s.Median, s.P95, s.Max)
}

func slopes(rows []TrendRow) stats.Float64Data {
	out := make(stats.Float64Data, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Slope)
	}

	return out
}

// Summarize computes order statistics of the slopes. Percentiles use the
// nearest-rank method so that any non-empty input has them. An empty input
// gives a zero Summary.
func Summarize(rows []TrendRow) (Summary, error) {
	data := slopes(rows)
	if data.Len() < 1 {
		return Summary{}, nil
	}

	var err error
	out := Summary{Count: data.Len()}

	if out.Min, err = data.Min(); err != nil {
		return Summary{}, err
	}
	if out.Max, err = data.Max(); err != nil {
		return Summary{}, err
	}
	if out.Median, err = data.Median(); err != nil {
		return Summary{}, err
	}
	if out.P05, err = data.PercentileNearestRank(5); err != nil {
		return Summary{}, err
	}
	if out.P95, err = data.PercentileNearestRank(95); err != nil {
		return Summary{}, err
	}

	return out, nil
}

// FprintHistogram draws a text histogram of the slopes to w.
func FprintHistogram(w io.Writer, rows []TrendRow, bins, width int) error {
	data := slopes(rows)
	if data.Len() < 1 {
		_, err := fmt.Fprintln(w, "(no slopes)")
		return err
	}

	lo, err := data.Min()
	if err != nil {
		return err
	}
	hi, err := data.Max()
	if err != nil {
		return err
	}
	if lo == hi {
		// Degenerate range, nothing to bin
		_, err := fmt.Fprintf(w, "all %d slopes are %.4f\n", data.Len(), lo)
		return err
	}

	hist := histogram.Hist(bins, data)
	return histogram.Fprint(w, hist, histogram.Linear(width))
}
