package main

import (
	"fmt"

	"github.com/carbocation/stagetrend/samplesheet"
)

// overrides are the command-line settings that take precedence over the run
// file. Zero values leave the run file untouched.
type overrides struct {
	BaseDir string
	TopN    int
	Source  string
	BioMart string
	GTF     string
}

func applyOverrides(sheet *samplesheet.Sheet, o overrides) error {
	if o.BioMart != "" && o.GTF != "" {
		return fmt.Errorf("--biomart and --gtf are mutually exclusive")
	}

	if o.BaseDir != "" {
		sheet.BaseDir = o.BaseDir
	}
	if o.TopN != 0 {
		sheet.TopN = o.TopN
	}
	if o.BioMart != "" {
		sheet.Annotation.Source = samplesheet.AnnotationBioMart
		sheet.Annotation.BioMartFile = o.BioMart
	}
	if o.GTF != "" {
		sheet.Annotation.Source = samplesheet.AnnotationGTF
		sheet.Annotation.GTFFile = o.GTF
	}
	if o.Source != "" {
		sheet.Annotation.Source = o.Source
	}

	return nil
}
