// Package pipeline runs a whole trend analysis: load, aggregate, pivot, fit,
// rank and annotate, for every condition of a sample sheet.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/storage"
	"github.com/carbocation/stagetrend/abundance"
	"github.com/carbocation/stagetrend/annotate"
	"github.com/carbocation/stagetrend/samplesheet"
	"github.com/carbocation/stagetrend/trend"
)

// ResultSet is one ranked, annotated table.
type ResultSet struct {
	Condition string
	Direction trend.Direction
	N         int
	Rows      []annotate.Row
}

func (r ResultSet) Title() string {
	return fmt.Sprintf("Top %d %s Trends %s", r.N, r.Direction, r.Condition)
}

type Result struct {
	// Sets are ordered by condition as in the sheet, increasing before
	// decreasing.
	Sets []ResultSet

	// Missing lists quantification files that were skipped.
	Missing []string

	// Trends holds every ranked transcript per condition.
	Trends map[string][]trend.TrendRow

	// Excluded holds, per condition, the transcripts that could not be fit.
	Excluded map[string][]string
}

// Run executes the analysis. Any failure, including one from the resolver,
// aborts the run and no partial result is returned.
func Run(ctx context.Context, sheet samplesheet.Sheet, resolver annotate.Resolver, client *storage.Client) (Result, error) {
	if err := sheet.Validate(); err != nil {
		return Result{}, err
	}

	coll, err := abundance.Load(ctx, sheet, client)
	if err != nil {
		return Result{}, err
	}
	log.Printf("Loaded %d of %d samples\n", len(coll.Loaded), len(sheet.Samples))

	out := Result{
		Sets:     make([]ResultSet, 0, 2*len(sheet.Conditions)),
		Missing:  coll.Missing,
		Trends:   make(map[string][]trend.TrendRow),
		Excluded: make(map[string][]string),
	}

	for _, condition := range sheet.Conditions {
		if len(coll.ByCondition[condition]) == 0 {
			log.Printf("Warning: no abundance rows were loaded for condition %s\n", condition)
		}

		fitted, err := FitCondition(coll.ByCondition[condition], sheet.Stages)
		if err != nil {
			return Result{}, fmt.Errorf("condition %s: %w", condition, err)
		}
		if x := len(fitted.Excluded); x > 0 {
			log.Printf("%s: %d transcripts were not observed at every stage (or had no finite slope) and are not ranked\n", condition, x)
		}

		out.Trends[condition] = fitted.Rows
		out.Excluded[condition] = fitted.Excluded

		for _, dir := range []trend.Direction{trend.Increasing, trend.Decreasing} {
			ranked := trend.Rank(fitted.Rows, dir, sheet.TopN)

			rows, err := annotate.Annotate(ctx, resolver, ranked)
			if err != nil {
				return Result{}, fmt.Errorf("annotating %s %s trends: %w", condition, dir, err)
			}

			out.Sets = append(out.Sets, ResultSet{
				Condition: condition,
				Direction: dir,
				N:         sheet.TopN,
				Rows:      rows,
			})
		}
	}

	return out, nil
}

// FitCondition takes the records of one condition through aggregation,
// pivoting and trend fitting.
func FitCondition(records []abundance.Record, stages []string) (trend.FitResult, error) {
	means, err := trend.Aggregate(records, stages)
	if err != nil {
		return trend.FitResult{}, err
	}

	wide := trend.Pivot(means, stages)

	return trend.Fit(wide), nil
}
