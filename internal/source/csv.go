package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/always1st-js/KPC-ai-survey-dashboard/internal/survey"
)

// FetchError reports a non-success response from the spreadsheet export.
type FetchError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *FetchError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("fetch %s: unexpected status %d: %s", e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

type httpReader struct {
	client *http.Client
}

func (httpReader) CanRead(src string) bool {
	s := strings.ToLower(src)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func (r httpReader) Read(ctx context.Context, src string) (*survey.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return nil, &FetchError{URL: src, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return ParseCSV(resp.Body, ',')
}

type csvFileReader struct{}

func (csvFileReader) CanRead(src string) bool {
	name := strings.ToLower(src)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

func (csvFileReader) Read(_ context.Context, src string) (*survey.Table, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	delim := ','
	if strings.HasSuffix(strings.ToLower(src), ".tsv") {
		delim = '\t'
	}
	return ParseCSV(f, delim)
}

// ParseCSV reads CSV text whose first record is the header.
func ParseCSV(r io.Reader, delim rune) (*survey.Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &survey.Table{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	var records [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
	return survey.NewTable(header, records), nil
}
