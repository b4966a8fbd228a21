package main

import (
	"testing"

	"github.com/carbocation/stagetrend/samplesheet"
)

func TestApplyOverridesRejectsTwoTables(t *testing.T) {
	sheet := samplesheet.Default()
	before := sheet.Annotation

	err := applyOverrides(&sheet, overrides{BioMart: "mart.tsv", GTF: "gencode.gtf.gz"})
	if err == nil {
		t.Fatal("expected --biomart with --gtf to be rejected")
	}
	if sheet.Annotation != before {
		t.Fatalf("annotation changed on error: %+v", sheet.Annotation)
	}
}

func TestApplyOverrides(t *testing.T) {
	cases := []struct {
		name   string
		in     overrides
		source string
		file   func(samplesheet.Annotation) string
		want   string
	}{
		{"biomart", overrides{BioMart: "mart.tsv"}, samplesheet.AnnotationBioMart, func(a samplesheet.Annotation) string { return a.BioMartFile }, "mart.tsv"},
		{"gtf", overrides{GTF: "gencode.gtf.gz"}, samplesheet.AnnotationGTF, func(a samplesheet.Annotation) string { return a.GTFFile }, "gencode.gtf.gz"},
		{"explicit source wins", overrides{GTF: "gencode.gtf.gz", Source: samplesheet.AnnotationNone}, samplesheet.AnnotationNone, func(a samplesheet.Annotation) string { return a.GTFFile }, "gencode.gtf.gz"},
	}

	for _, c := range cases {
		sheet := samplesheet.Default()
		if err := applyOverrides(&sheet, c.in); err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if sheet.Annotation.Source != c.source {
			t.Errorf("%s: expected source %q, got %q", c.name, c.source, sheet.Annotation.Source)
		}
		if got := c.file(sheet.Annotation); got != c.want {
			t.Errorf("%s: expected file %q, got %q", c.name, c.want, got)
		}
	}

	sheet := samplesheet.Default()
	if err := applyOverrides(&sheet, overrides{BaseDir: "gs://bucket/expression", TopN: 5}); err != nil {
		t.Fatal(err)
	}
	if sheet.BaseDir != "gs://bucket/expression" || sheet.TopN != 5 {
		t.Fatalf("unexpected sheet %+v", sheet)
	}
}
