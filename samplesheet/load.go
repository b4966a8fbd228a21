package samplesheet

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/carbocation/stagetrend"
	"github.com/pelletier/go-toml/v2"
)

// fileSheet mirrors Sheet with every field optional, so that only keys
// present in the file override the defaults.
type fileSheet struct {
	BaseDir    *string  `toml:"base_dir"`
	FileName   *string  `toml:"file_name"`
	TopN       *int     `toml:"top_n"`
	Stages     []string `toml:"stages"`
	Conditions []string `toml:"conditions"`
	Samples    []Sample `toml:"samples"`
	Annotation struct {
		Source         *string `toml:"source"`
		URL            *string `toml:"url"`
		Scopes         *string `toml:"scopes"`
		Species        *string `toml:"species"`
		BioMartFile    *string `toml:"biomart_file"`
		GTFFile        *string `toml:"gtf_file"`
		TimeoutSeconds *int    `toml:"timeout_seconds"`
	} `toml:"annotation"`
}

// Load reads a TOML run file, which may be local or on google storage, on top
// of Default(). A non-empty samples array replaces the built-in mapping
// entirely. The result is validated.
func Load(ctx context.Context, path string, client *storage.Client) (Sheet, error) {
	r, err := stagetrend.Open(ctx, path, client)
	if err != nil {
		return Sheet{}, err
	}
	defer r.Close()

	return Parse(r)
}

// Parse is Load without the file handling.
func Parse(r io.Reader) (Sheet, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return Sheet{}, pfx.Err(err)
	}

	var fs fileSheet
	dec := toml.NewDecoder(&buf)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fs); err != nil {
		return Sheet{}, fmt.Errorf("parsing sample sheet: %w", err)
	}

	s := Default()
	setString(&s.BaseDir, fs.BaseDir)
	setString(&s.FileName, fs.FileName)
	if fs.TopN != nil {
		s.TopN = *fs.TopN
	}
	if len(fs.Stages) > 0 {
		s.Stages = fs.Stages
	}
	if len(fs.Conditions) > 0 {
		s.Conditions = fs.Conditions
	}
	if len(fs.Samples) > 0 {
		s.Samples = fs.Samples
	}

	setString(&s.Annotation.Source, fs.Annotation.Source)
	setString(&s.Annotation.URL, fs.Annotation.URL)
	setString(&s.Annotation.Scopes, fs.Annotation.Scopes)
	setString(&s.Annotation.Species, fs.Annotation.Species)
	setString(&s.Annotation.BioMartFile, fs.Annotation.BioMartFile)
	setString(&s.Annotation.GTFFile, fs.Annotation.GTFFile)
	if fs.Annotation.TimeoutSeconds != nil {
		s.Annotation.TimeoutSeconds = *fs.Annotation.TimeoutSeconds
	}

	if err := s.Validate(); err != nil {
		return Sheet{}, err
	}

	return s, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
