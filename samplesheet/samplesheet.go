// Package samplesheet describes which quantification files belong to which
// condition and stage, along with the other knobs of a trend run. The
// built-in sheet reproduces the kidney EC/V2 staging experiment.
package samplesheet

import (
	"fmt"

	"github.com/carbocation/stagetrend"
)

const (
	AnnotationMyGene  = "mygene"
	AnnotationBioMart = "biomart"
	AnnotationGTF     = "gtf"
	AnnotationNone    = "none"
)

// Sample ties one quantification directory to its condition and stage.
type Sample struct {
	ID        string `toml:"id"`
	Condition string `toml:"condition"`
	Stage     string `toml:"stage"`
}

// Annotation selects the source of transcript to gene symbol mappings.
type Annotation struct {
	Source         string `toml:"source"`
	URL            string `toml:"url"`
	Scopes         string `toml:"scopes"`
	Species        string `toml:"species"`
	BioMartFile    string `toml:"biomart_file"`
	GTFFile        string `toml:"gtf_file"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type Sheet struct {
	BaseDir  string `toml:"base_dir"`
	FileName string `toml:"file_name"`
	TopN     int    `toml:"top_n"`

	// Stages are ordinal; their position defines the x value of the fit.
	Stages []string `toml:"stages"`

	// Conditions are analyzed, and reported, in this order.
	Conditions []string `toml:"conditions"`

	Samples    []Sample   `toml:"samples"`
	Annotation Annotation `toml:"annotation"`
}

// Default returns the sheet of the original EC/V2 experiment.
func Default() Sheet {
	return Sheet{
		BaseDir:    "expression",
		FileName:   "abundance.tsv",
		TopN:       10,
		Stages:     []string{"Stage 1", "Stage 2", "Stage 3", "Stage 4"},
		Conditions: []string{"V2", "EC"},
		Samples: []Sample{
			{"SRR22924387", "EC", "Stage 3"},
			{"SRR22924389", "V2", "Stage 3"},
			{"SRR22924393", "V2", "Stage 1"},
			{"SRR22924395", "EC", "Stage 1"},
			{"SRR22924433", "EC", "Stage 4"},
			{"SRR22924461", "V2", "Stage 4"},
			{"SRR22924451", "V2", "Stage 1"},
			{"SRR22924452", "EC", "Stage 1"},
			{"SRR22924470", "V2", "Stage 3"},
			{"SRR22924471", "EC", "Stage 3"},
			{"SRR22924475", "EC", "Stage 4"},
			{"SRR22924476", "V2", "Stage 4"},
			{"SRR22924489", "V2", "Stage 2"},
			{"SRR22924490", "EC", "Stage 2"},
			{"SRR22924497", "EC", "Stage 2"},
			{"SRR22924507", "V2", "Stage 2"},
		},
		Annotation: Annotation{
			Source:  AnnotationMyGene,
			URL:     "https://mygene.info/v3",
			Scopes:  "ensembl.transcript",
			Species: "human",
		},
	}
}

// Path is the location of the quantification file for a sample.
func (s Sheet) Path(sample Sample) string {
	return stagetrend.JoinPath(s.BaseDir, sample.ID, s.FileName)
}

// StageIndex returns the 0-based ordinal position of stage, or -1.
func (s Sheet) StageIndex(stage string) int {
	for i, v := range s.Stages {
		if v == stage {
			return i
		}
	}

	return -1
}

// SamplesFor returns the samples of one condition, in sheet order.
func (s Sheet) SamplesFor(condition string) []Sample {
	out := make([]Sample, 0)
	for _, v := range s.Samples {
		if v.Condition == condition {
			out = append(out, v)
		}
	}

	return out
}

// Validate checks that the sheet is internally consistent.
func (s Sheet) Validate() error {
	if s.BaseDir == "" {
		return fmt.Errorf("base_dir must be set")
	}
	if s.FileName == "" {
		return fmt.Errorf("file_name must be set")
	}
	if s.TopN < 1 {
		return fmt.Errorf("top_n must be at least 1, got %d", s.TopN)
	}

	stages := make(map[string]struct{})
	for _, v := range s.Stages {
		if v == "" {
			return fmt.Errorf("stage names cannot be empty")
		}
		if _, exists := stages[v]; exists {
			return fmt.Errorf("stage %q is declared twice", v)
		}
		stages[v] = struct{}{}
	}
	if len(stages) < 2 {
		return fmt.Errorf("at least 2 stages are needed to fit a trend, got %d", len(stages))
	}

	conditions := make(map[string]struct{})
	for _, v := range s.Conditions {
		if v == "" {
			return fmt.Errorf("condition names cannot be empty")
		}
		if _, exists := conditions[v]; exists {
			return fmt.Errorf("condition %q is declared twice", v)
		}
		conditions[v] = struct{}{}
	}
	if len(conditions) < 1 {
		return fmt.Errorf("at least 1 condition must be declared")
	}

	seen := make(map[string]struct{})
	for i, v := range s.Samples {
		if v.ID == "" {
			return fmt.Errorf("sample %d has no id", i)
		}
		if _, exists := seen[v.ID]; exists {
			return fmt.Errorf("sample %s is listed twice", v.ID)
		}
		seen[v.ID] = struct{}{}

		if _, exists := stages[v.Stage]; !exists {
			return fmt.Errorf("sample %s has undeclared stage %q", v.ID, v.Stage)
		}
		if _, exists := conditions[v.Condition]; !exists {
			return fmt.Errorf("sample %s has undeclared condition %q", v.ID, v.Condition)
		}
	}

	switch s.Annotation.Source {
	case AnnotationMyGene:
		if s.Annotation.URL == "" {
			return fmt.Errorf("annotation url must be set for %s", AnnotationMyGene)
		}
	case AnnotationBioMart:
		if s.Annotation.BioMartFile == "" {
			return fmt.Errorf("annotation biomart_file must be set for %s", AnnotationBioMart)
		}
	case AnnotationGTF:
		if s.Annotation.GTFFile == "" {
			return fmt.Errorf("annotation gtf_file must be set for %s", AnnotationGTF)
		}
	case AnnotationNone:
	default:
		return fmt.Errorf("unknown annotation source %q (options: %s, %s, %s, %s)", s.Annotation.Source, AnnotationMyGene, AnnotationBioMart, AnnotationGTF, AnnotationNone)
	}

	if s.Annotation.TimeoutSeconds < 0 {
		return fmt.Errorf("annotation timeout_seconds cannot be negative")
	}

	return nil
}
