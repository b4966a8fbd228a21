package annotate

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carbocation/stagetrend/samplesheet"
	"github.com/google/go-cmp/cmp"
)

func TestParseBioMart(t *testing.T) {
	table := "Gene stable ID\tTranscript stable ID\tGene name\n" +
		"ENSG00000141510\tENST00000269305\tTP53\n" +
		"ENSG00000141510\tENST00000413465\tTP53\n" +
		"ENSG00000075624\tENST00000646664\tACTB\n" +
		"ENSG00000000000\tENST00000000001\t\n"

	b, err := ParseBioMart(strings.NewReader(table))
	if err != nil {
		t.Fatal(err)
	}
	if x := b.Len(); x != 3 {
		t.Fatalf("expected 3 transcripts, got %d", x)
	}

	got, err := Symbols(context.Background(), b, []string{"ENST00000269305.8", "ENST00000646664.1", "ENST00000000001.1"})
	if err != nil {
		t.Fatal(err)
	}

	expected := map[string]string{
		"ENST00000269305.8": "TP53",
		"ENST00000646664.1": "ACTB",
		"ENST00000000001.1": Unknown,
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatalf("symbols mismatch (-expected +got):\n%s", diff)
	}
}

func TestParseBioMartFlattenedGTF(t *testing.T) {
	table := "seqname\tsource\tfeature\tgene_id\ttranscript_id\tgene_name\n" +
		"chr17\tHAVANA\ttranscript\tENSG00000141510.18\tENST00000269305.9\tTP53\n"

	b, err := ParseBioMart(strings.NewReader(table))
	if err != nil {
		t.Fatal(err)
	}

	got, _ := b.Resolve(context.Background(), []string{"ENST00000269305"})
	if got["ENST00000269305"] != "TP53" {
		t.Fatalf("expected TP53, got %v", got)
	}
}

func TestParseBioMartMissingColumns(t *testing.T) {
	if _, err := ParseBioMart(strings.NewReader("Gene stable ID\tGene name\nENSG1\tX\n")); err == nil {
		t.Fatal("expected an error")
	}
}

const gencodeExcerpt = `##description: evidence-based annotation of the human genome (GRCh38), version 44
##format: gtf
chr17	HAVANA	gene	7661779	7687538	.	-	.	gene_id "ENSG00000141510.18"; gene_type "protein_coding"; gene_name "TP53"; level 2;
chr17	HAVANA	transcript	7661779	7687538	.	-	.	gene_id "ENSG00000141510.18"; transcript_id "ENST00000269305.9"; gene_type "protein_coding"; gene_name "TP53"; level 2;
chr17	HAVANA	exon	7687377	7687538	.	-	.	gene_id "ENSG00000141510.18"; transcript_id "ENST00000269305.9"; gene_name "TP53"; exon_number 1;
chr7	HAVANA	transcript	5527148	5530601	.	-	.	gene_id "ENSG00000075624.17"; transcript_id "ENST00000646664.1"; gene_name "ACTB"; level 2;
chr1	ENSEMBL	transcript	1	10	.	+	.	gene_id "ENSG00000000001.1"; transcript_id "ENST00000000009.1";`

func TestParseGTF(t *testing.T) {
	b, err := ParseGTF(strings.NewReader(gencodeExcerpt))
	if err != nil {
		t.Fatal(err)
	}

	if x := b.Len(); x != 2 {
		t.Fatalf("expected 2 transcripts, got %d", x)
	}

	got, err := Symbols(context.Background(), b, []string{"ENST00000269305.9", "ENST00000646664.1", "ENST00000000009.1"})
	if err != nil {
		t.Fatal(err)
	}

	expected := map[string]string{
		"ENST00000269305.9": "TP53",
		"ENST00000646664.1": "ACTB",
		"ENST00000000009.1": Unknown,
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatalf("symbols mismatch (-expected +got):\n%s", diff)
	}
}

func TestParseGTFShortRow(t *testing.T) {
	if _, err := ParseGTF(strings.NewReader("chr1\tHAVANA\tgene\n")); err == nil {
		t.Fatal("expected an error")
	}
}

func TestParseAttributes(t *testing.T) {
	got, err := ParseAttributes(`gene_id "ENSG1.1"; transcript_id "ENST1.2"; level 2;`)
	if err != nil {
		t.Fatal(err)
	}

	expected := []KeyValue{
		{Key: "gene_id", Value: "ENSG1.1"},
		{Key: "transcript_id", Value: "ENST1.2"},
		{Key: "level", Value: "2"},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatalf("attributes mismatch (-expected +got):\n%s", diff)
	}
}

func TestNewLoadsCompressedGTF(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	gz.Write([]byte(gencodeExcerpt))
	gz.Close()

	p := filepath.Join(t.TempDir(), "gencode.v44.annotation.gtf.gz")
	if err := os.WriteFile(p, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	a := samplesheet.Default().Annotation
	a.Source = samplesheet.AnnotationGTF
	a.GTFFile = p

	r, err := New(context.Background(), a, nil)
	if err != nil {
		t.Fatal(err)
	}

	got, err := Symbols(context.Background(), r, []string{"ENST00000646664.1"})
	if err != nil {
		t.Fatal(err)
	}
	if got["ENST00000646664.1"] != "ACTB" {
		t.Fatalf("expected ACTB, got %v", got)
	}
}

func TestNewRejectsUnknownSource(t *testing.T) {
	a := samplesheet.Default().Annotation
	a.Source = "ncbi"

	if _, err := New(context.Background(), a, nil); err == nil {
		t.Fatal("expected an error")
	}
}
