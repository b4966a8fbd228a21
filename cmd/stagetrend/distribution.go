package main

import (
	"fmt"
	"io"

	"github.com/carbocation/stagetrend/pipeline"
	"github.com/carbocation/stagetrend/trend"
)

const (
	histogramBins  = 25
	histogramWidth = 50
)

func printDistributions(w io.Writer, conditions []string, res pipeline.Result) error {
	for _, condition := range conditions {
		rows := res.Trends[condition]

		summary, err := trend.Summarize(rows)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w, "Slopes %s: %s (%d excluded)\n", condition, summary, len(res.Excluded[condition])); err != nil {
			return err
		}

		if err := trend.FprintHistogram(w, rows, histogramBins, histogramWidth); err != nil {
			return err
		}
	}

	return nil
}
