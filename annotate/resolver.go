package annotate

import (
	"context"
	"fmt"
	"io"
	"log"

	"cloud.google.com/go/storage"
	"github.com/carbocation/stagetrend/samplesheet"
)

// New builds the resolver selected by the annotation settings.
func New(ctx context.Context, a samplesheet.Annotation, client *storage.Client) (Resolver, error) {
	var (
		path  string
		parse func(io.Reader) (*Table, error)
	)

	switch a.Source {
	case samplesheet.AnnotationMyGene:
		log.Printf("Annotating transcripts via %s (scopes=%s, species=%s)\n", a.URL, a.Scopes, a.Species)
		return NewMyGene(a), nil
	case samplesheet.AnnotationNone:
		log.Println("Transcript annotation disabled; all genes will be reported as", Unknown)
		return Offline{}, nil
	case samplesheet.AnnotationBioMart:
		path, parse = a.BioMartFile, ParseBioMart
	case samplesheet.AnnotationGTF:
		path, parse = a.GTFFile, ParseGTF
	default:
		return nil, fmt.Errorf("unknown annotation source %q", a.Source)
	}

	table, err := LoadTable(ctx, path, client, parse)
	if err != nil {
		return nil, err
	}
	log.Printf("Loaded %d transcript symbols from %s\n", table.Len(), path)

	return table, nil
}
