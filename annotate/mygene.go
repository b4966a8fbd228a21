package annotate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/carbocation/pfx"
	"github.com/carbocation/stagetrend/samplesheet"
)

// MyGeneBatchSize is the most IDs that mygene.info accepts per query.
const MyGeneBatchSize = 1000

// MyGene queries the mygene.info batch endpoint. There is no retry: any
// transport error or non-200 response is returned to the caller.
type MyGene struct {
	BaseURL string
	Scopes  string
	Species string
	Client  *http.Client
}

func NewMyGene(a samplesheet.Annotation) *MyGene {
	client := &http.Client{}
	if a.TimeoutSeconds > 0 {
		client.Timeout = time.Duration(a.TimeoutSeconds) * time.Second
	}

	return &MyGene{
		BaseURL: strings.TrimSuffix(a.URL, "/"),
		Scopes:  a.Scopes,
		Species: a.Species,
		Client:  client,
	}
}

type myGeneHit struct {
	Query    string  `json:"query"`
	Symbol   *string `json:"symbol"`
	NotFound bool    `json:"notfound"`
}

func (m *MyGene) Resolve(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))

	for start := 0; start < len(ids); start += MyGeneBatchSize {
		end := start + MyGeneBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		hits, err := m.query(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}

		// The first hit for a query decides, even if it carries no symbol.
		decided := make(map[string]struct{})
		for _, hit := range hits {
			if _, exists := decided[hit.Query]; exists {
				continue
			}
			decided[hit.Query] = struct{}{}

			if hit.NotFound || hit.Symbol == nil {
				continue
			}
			out[hit.Query] = *hit.Symbol
		}
	}

	return out, nil
}

func (m *MyGene) query(ctx context.Context, ids []string) ([]myGeneHit, error) {
	form := url.Values{}
	form.Set("q", strings.Join(ids, ","))
	form.Set("scopes", m.Scopes)
	form.Set("fields", "symbol")
	form.Set("species", m.Species)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.BaseURL+"/query", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, pfx.Err(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := m.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pfx.Err(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mygene query returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	hits := make([]myGeneHit, 0, len(ids))
	if err := json.Unmarshal(body, &hits); err != nil {
		return nil, pfx.Err(fmt.Errorf("decoding mygene response: %w", err))
	}

	return hits, nil
}
