package tle

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultSourceURL = "https://celestrak.org/NORAD/elements/gp.php?GROUP=amateur&FORMAT=tle"

// maxFetchBytes bounds how much of a response body is read. Element
// files are a few hundred KB; anything larger is a misbehaving server.
const maxFetchBytes = 50 << 20

// Fetcher retrieves raw element sets over HTTP. Extra URLs let a
// station merge several element groups into one dataset.
type Fetcher struct {
	sourceURL string
	extraURLs []string
	logger    *slog.Logger
	client    *http.Client
}

// NewFetcher creates a Fetcher for the given source URL. An empty URL
// selects the amateur radio group.
func NewFetcher(sourceURL string, logger *slog.Logger, extraURLs ...string) *Fetcher {
	if sourceURL == "" {
		sourceURL = defaultSourceURL
	}
	return &Fetcher{
		sourceURL: sourceURL,
		extraURLs: extraURLs,
		logger:    logger,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SourceURL returns the configured primary source URL.
func (f *Fetcher) SourceURL() string {
	return f.sourceURL
}

// Fetch retrieves the primary source and any extra sources and returns
// their bodies concatenated. A failing extra source is logged and
// skipped; a failing primary source is an error.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	body, err := f.fetchOne(ctx, f.sourceURL)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(body)
	for _, url := range f.extraURLs {
		extra, err := f.fetchOne(ctx, url)
		if err != nil {
			f.logger.Warn("skipping extra element source",
				slog.String("url", url),
				slog.String("error", err.Error()),
			)
			continue
		}
		if buf.Len() > 0 && buf.Bytes()[buf.Len()-1] != '\n' {
			buf.WriteByte('\n')
		}
		buf.Write(extra)
	}
	return buf.Bytes(), nil
}

// FetchDataset fetches all sources and parses them into a Dataset.
func (f *Fetcher) FetchDataset(ctx context.Context) (*Dataset, error) {
	raw, err := f.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	sets, err := Parse(bytes.NewReader(raw), f.logger)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", f.sourceURL, err)
	}
	return &Dataset{
		Source:   f.sourceURL,
		LoadedAt: time.Now(),
		Sets:     sets,
	}, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching elements: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if len(body) > maxFetchBytes {
		return nil, fmt.Errorf("response from %s exceeds %d byte limit", url, maxFetchBytes)
	}
	return body, nil
}
