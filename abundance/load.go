package abundance

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/storage"
	"github.com/carbocation/stagetrend"
	"github.com/carbocation/stagetrend/samplesheet"
)

// Collection holds every loaded record, partitioned by condition.
type Collection struct {
	ByCondition map[string][]Record

	// Loaded lists the sample IDs that contributed rows, in sheet order.
	Loaded []string

	// Missing lists the paths that did not exist and were skipped.
	Missing []string
}

// Load reads the quantification file of every sample in the sheet. Samples
// whose file does not exist are logged and skipped; any other failure,
// including a malformed file, is returned.
func Load(ctx context.Context, sheet samplesheet.Sheet, client *storage.Client) (Collection, error) {
	out := Collection{
		ByCondition: make(map[string][]Record),
		Loaded:      make([]string, 0, len(sheet.Samples)),
		Missing:     make([]string, 0),
	}

	for _, sample := range sheet.Samples {
		filePath := sheet.Path(sample)

		exists, err := stagetrend.Exists(ctx, filePath, client)
		if err != nil {
			return Collection{}, err
		}
		if !exists {
			log.Printf("File not found: %s\n", filePath)
			out.Missing = append(out.Missing, filePath)
			continue
		}

		rows, err := readSample(ctx, filePath, client)
		if err != nil {
			return Collection{}, fmt.Errorf("sample %s: %w", sample.ID, err)
		}

		records := out.ByCondition[sample.Condition]
		for _, row := range rows {
			records = append(records, Record{
				TargetID:  row.TargetID,
				EstCounts: row.EstCounts,
				TPM:       row.TPM,
				Condition: sample.Condition,
				Stage:     sample.Stage,
			})
		}
		out.ByCondition[sample.Condition] = records
		out.Loaded = append(out.Loaded, sample.ID)
	}

	return out, nil
}

func readSample(ctx context.Context, filePath string, client *storage.Client) ([]Row, error) {
	r, err := stagetrend.Open(ctx, filePath, client)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	rows, err := ReadFile(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}

	return rows, nil
}
