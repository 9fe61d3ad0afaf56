// Package fetcher retrieves the job list from the listings endpoint.
package fetcher

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/xeipuuv/gojsonschema"

	"github.com/fr4nk3nst1ner/jobboard/internal/client"
	"github.com/fr4nk3nst1ner/jobboard/internal/logging"
	"github.com/fr4nk3nst1ner/jobboard/internal/models"
)

// DefaultURL is the public listings endpoint
const DefaultURL = "http://api-endpoint.ru.swtest.ru/api/job-listings"

//go:embed schema.json
var listSchema string

var compiledSchema = mustSchema(listSchema)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("job list schema: %v", err))
	}
	return s
}

// Fetcher issues one GET per FetchAll call. Calls are neither deduplicated
// nor retried.
type Fetcher struct {
	url      string
	client   *http.Client
	progress io.Writer
	logger   *pterm.Logger
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithHTTPClient replaces the default client
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithProgress draws a download progress bar on w while the body streams
func WithProgress(w io.Writer) Option {
	return func(f *Fetcher) { f.progress = w }
}

// WithLogger sets the diagnostic logger
func WithLogger(l *pterm.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// New returns a Fetcher for url
func New(url string, opts ...Option) *Fetcher {
	f := &Fetcher{
		url:    url,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = &http.Client{Timeout: client.DefaultTimeout}
	}
	return f
}

// FetchAll retrieves every job record from the endpoint
func (f *Fetcher) FetchAll(ctx context.Context) ([]models.JobRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header = client.JSONHeaders()

	f.logger.Debug("fetching jobs", f.logger.Args("url", f.url))

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Err: fmt.Errorf("http GET: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Kind: KindStatus, StatusCode: resp.StatusCode}
	}

	if f.progress != nil {
		total := resp.ContentLength
		if total < 0 {
			total = 0
		}
		bar := pb.New64(total).SetTemplate(pb.Full).SetWriter(f.progress).Set(pb.Bytes, true).Start()
		resp.Body = bar.NewProxyReader(resp.Body)
		defer bar.Finish()
	}

	body, err := client.ReadResponseBody(resp)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Err: fmt.Errorf("read body: %w", err)}
	}

	jobs, err := parseJobs(body)
	if err != nil {
		return nil, &FetchError{Kind: KindParse, Err: err}
	}

	f.logger.Debug("fetched jobs", f.logger.Args("count", len(jobs), "size", humanize.Bytes(uint64(len(body)))))
	return jobs, nil
}

func parseJobs(body []byte) ([]models.JobRecord, error) {
	result, err := compiledSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("unexpected schema: %s", strings.Join(msgs, "; "))
	}

	var jobs []models.JobRecord
	if err := json.Unmarshal(body, &jobs); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return jobs, nil
}
