// stagetrend averages kallisto abundance estimates over replicate samples,
// fits a linear trend of log(1+TPM) across ordered disease stages for every
// transcript, and prints the transcripts with the steepest increasing and
// decreasing trends in each condition, annotated with gene symbols.
//
// With no flags it analyzes ./expression/<sample>/abundance.tsv for the
// built-in EC/V2 sample sheet and annotates through mygene.info.
package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"

	"cloud.google.com/go/storage"
	"github.com/carbocation/stagetrend"
	"github.com/carbocation/stagetrend/annotate"
	_ "github.com/carbocation/stagetrend/compileinfoprint"
	"github.com/carbocation/stagetrend/pipeline"
	"github.com/carbocation/stagetrend/report"
	"github.com/carbocation/stagetrend/samplesheet"
)

var (
	STDOUT = bufio.NewWriterSize(os.Stdout, 4096)
)

func main() {
	defer STDOUT.Flush()

	var (
		configPath string
		baseDir    string
		topN       int
		source     string
		bioMart    string
		gtf        string
		format     string
		showHist   bool
	)

	flag.StringVar(&configPath, "config", "", "(Optional) TOML run file with the sample sheet and settings. If empty, the built-in EC/V2 sheet is used. May be a gs:// path.")
	flag.StringVar(&baseDir, "base", "", "(Optional) Directory holding one folder per sample, each with an abundance.tsv. Overrides the run file. May be a gs:// path.")
	flag.IntVar(&topN, "top", 0, "(Optional) Number of transcripts to report per condition and direction. Overrides the run file.")
	flag.StringVar(&source, "annotation", "", "(Optional) Gene symbol source: mygene, biomart, gtf or none. Overrides the run file.")
	flag.StringVar(&bioMart, "biomart", "", "(Optional) BioMart export with 'Transcript stable ID' and 'Gene name' columns. Implies --annotation=biomart. May be a gs:// path.")
	flag.StringVar(&gtf, "gtf", "", "(Optional) GENCODE or Ensembl GTF whose transcript_id and gene_name attributes provide gene symbols. Implies --annotation=gtf. May be a gs:// path.")
	flag.StringVar(&format, "format", report.FormatTable, "Output format: table or tsv.")
	flag.BoolVar(&showHist, "histogram", false, "Print the slope distribution of every condition to stderr.")
	flag.Parse()

	ctx := context.Background()

	var client *storage.Client
	if stagetrend.IsGoogleStorage(configPath) || stagetrend.IsGoogleStorage(baseDir) || stagetrend.IsGoogleStorage(bioMart) || stagetrend.IsGoogleStorage(gtf) {
		var err error
		client, err = storage.NewClient(ctx)
		if err != nil {
			log.Fatalln(err)
		}
		defer client.Close()
	}

	sheet := samplesheet.Default()
	if configPath != "" {
		var err error
		sheet, err = samplesheet.Load(ctx, configPath, client)
		if err != nil {
			log.Fatalln(err)
		}
		log.Println("Using run file", configPath)
	}

	if err := applyOverrides(&sheet, overrides{
		BaseDir: baseDir,
		TopN:    topN,
		Source:  source,
		BioMart: bioMart,
		GTF:     gtf,
	}); err != nil {
		flag.Usage()
		log.Fatalln(err)
	}

	if err := sheet.Validate(); err != nil {
		flag.Usage()
		log.Fatalln(err)
	}

	if format != report.FormatTable && format != report.FormatTSV {
		flag.Usage()
		log.Fatalf("Unknown --format %q\n", format)
	}

	// The run file itself may have pointed at google storage
	if client == nil && (stagetrend.IsGoogleStorage(sheet.BaseDir) || stagetrend.IsGoogleStorage(sheet.Annotation.BioMartFile) || stagetrend.IsGoogleStorage(sheet.Annotation.GTFFile)) {
		var err error
		client, err = storage.NewClient(ctx)
		if err != nil {
			log.Fatalln(err)
		}
		defer client.Close()
	}

	log.Printf("Analyzing %d samples under %s across %d stages\n", len(sheet.Samples), sheet.BaseDir, len(sheet.Stages))

	resolver, err := annotate.New(ctx, sheet.Annotation, client)
	if err != nil {
		log.Fatalln(err)
	}

	res, err := pipeline.Run(ctx, sheet, resolver, client)
	if err != nil {
		log.Fatalln(err)
	}

	if showHist {
		if err := printDistributions(os.Stderr, sheet.Conditions, res); err != nil {
			log.Fatalln(err)
		}
	}

	if err := report.Write(STDOUT, format, res.Sets, sheet.Stages); err != nil {
		log.Fatalln(err)
	}
}
