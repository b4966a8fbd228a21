package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/carbocation/stagetrend/annotate"
	"github.com/carbocation/stagetrend/samplesheet"
	"github.com/carbocation/stagetrend/trend"
)

type countingResolver struct {
	symbols map[string]string
	calls   int
	err     error
}

func (c *countingResolver) Resolve(ctx context.Context, ids []string) (map[string]string, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}

	out := make(map[string]string)
	for _, id := range ids {
		if v, ok := c.symbols[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

// writeExperiment lays out the default 16-sample sheet under a temporary
// directory. T1.1 rises 1, 2, 4, 8 TPM over the stages and T2.1 falls 8, 4,
// 2, 1. FLAT.1 does not change and GAP.1 is missing from Stage 2.
func writeExperiment(t *testing.T) samplesheet.Sheet {
	t.Helper()

	sheet := samplesheet.Default()
	sheet.BaseDir = t.TempDir()
	sheet.Annotation.Source = samplesheet.AnnotationNone

	rising := map[string]float64{"Stage 1": 1, "Stage 2": 2, "Stage 3": 4, "Stage 4": 8}
	falling := map[string]float64{"Stage 1": 8, "Stage 2": 4, "Stage 3": 2, "Stage 4": 1}

	for _, sample := range sheet.Samples {
		body := "target_id\tlength\teff_length\test_counts\ttpm\n"
		body += fmt.Sprintf("T1.1\t1000\t800\t%g\t%g\n", 10*rising[sample.Stage], rising[sample.Stage])
		body += fmt.Sprintf("T2.1\t1000\t800\t%g\t%g\n", 10*falling[sample.Stage], falling[sample.Stage])
		body += "FLAT.1\t1000\t800\t30\t3\n"
		if sample.Stage != "Stage 2" {
			body += "GAP.1\t1000\t800\t50\t5\n"
		}

		dir := filepath.Join(sheet.BaseDir, sample.ID)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, sheet.FileName), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}

	return sheet
}

func TestRunEndToEnd(t *testing.T) {
	sheet := writeExperiment(t)
	resolver := &countingResolver{symbols: map[string]string{"T1": "RISER"}}

	res, err := Run(context.Background(), sheet, resolver, nil)
	if err != nil {
		t.Fatal(err)
	}

	if x := len(res.Sets); x != 4 {
		t.Fatalf("expected 4 result sets, got %d", x)
	}
	if resolver.calls != 4 {
		t.Fatalf("expected one lookup per result set, got %d", resolver.calls)
	}
	if x := len(res.Missing); x != 0 {
		t.Fatalf("expected no missing files, got %v", res.Missing)
	}

	expectedTitles := []string{
		"Top 10 Increasing Trends V2",
		"Top 10 Decreasing Trends V2",
		"Top 10 Increasing Trends EC",
		"Top 10 Decreasing Trends EC",
	}
	for i, set := range res.Sets {
		if got := set.Title(); got != expectedTitles[i] {
			t.Fatalf("set %d: got title %q, expected %q", i, got, expectedTitles[i])
		}

		// GAP.1 is never ranked
		if x := len(set.Rows); x != 3 {
			t.Fatalf("%s: expected 3 rows, got %d", set.Title(), x)
		}

		first := set.Rows[0]
		switch set.Direction {
		case trend.Increasing:
			if first.TargetID != "T1.1" || first.Slope <= 0 || first.Gene != "RISER" {
				t.Fatalf("%s: unexpected leader %+v", set.Title(), first)
			}
		case trend.Decreasing:
			if first.TargetID != "T2.1" || first.Slope >= 0 || first.Gene != annotate.Unknown {
				t.Fatalf("%s: unexpected leader %+v", set.Title(), first)
			}
		}

		if x := len(first.LogTPM); x != 4 {
			t.Fatalf("%s: expected 4 stage values, got %d", set.Title(), x)
		}
	}

	for _, condition := range sheet.Conditions {
		if excluded := res.Excluded[condition]; len(excluded) != 1 || excluded[0] != "GAP.1" {
			t.Fatalf("%s: expected GAP.1 to be excluded, got %v", condition, excluded)
		}
	}
}

func TestRunToleratesMissingSample(t *testing.T) {
	sheet := writeExperiment(t)

	gone := sheet.Samples[0]
	if err := os.RemoveAll(filepath.Join(sheet.BaseDir, gone.ID)); err != nil {
		t.Fatal(err)
	}

	res, err := Run(context.Background(), sheet, annotate.Offline{}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if x := len(res.Missing); x != 1 || res.Missing[0] != sheet.Path(gone) {
		t.Fatalf("expected %s to be reported missing, got %v", sheet.Path(gone), res.Missing)
	}

	// The remaining replicate still carries the stage
	for _, set := range res.Sets {
		if set.Direction == trend.Increasing && set.Rows[0].TargetID != "T1.1" {
			t.Fatalf("%s: unexpected leader %+v", set.Title(), set.Rows[0])
		}
	}
}

func TestRunAbortsOnLookupFailure(t *testing.T) {
	sheet := writeExperiment(t)
	boom := errors.New("mygene.info: no such host")

	if _, err := Run(context.Background(), sheet, &countingResolver{err: boom}, nil); !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
}

func TestRunWithoutAnyFiles(t *testing.T) {
	sheet := samplesheet.Default()
	sheet.BaseDir = t.TempDir()

	res, err := Run(context.Background(), sheet, annotate.Offline{}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if x := len(res.Missing); x != len(sheet.Samples) {
		t.Fatalf("expected %d missing files, got %d", len(sheet.Samples), x)
	}
	for _, set := range res.Sets {
		if len(set.Rows) != 0 {
			t.Fatalf("%s: expected no rows", set.Title())
		}
	}
}
