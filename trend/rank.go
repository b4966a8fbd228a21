package trend

import "sort"

type Direction int

const (
	Increasing Direction = iota
	Decreasing
)

func (d Direction) String() string {
	if d == Decreasing {
		return "Decreasing"
	}

	return "Increasing"
}

// Rank returns the n transcripts with the strongest trend in the given
// direction: largest slopes first for Increasing, smallest first for
// Decreasing. Equal slopes are ordered by transcript ID. rows is not
// modified.
func Rank(rows []TrendRow, dir Direction, n int) []TrendRow {
	sorted := append([]TrendRow(nil), rows...)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Slope != sorted[j].Slope {
			if dir == Decreasing {
				return sorted[i].Slope < sorted[j].Slope
			}
			return sorted[i].Slope > sorted[j].Slope
		}
		return sorted[i].TargetID < sorted[j].TargetID
	})

	if n < 0 {
		n = 0
	}
	if n > len(sorted) {
		n = len(sorted)
	}

	return sorted[:n]
}
