package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/always1st-js/KPC-ai-survey-dashboard/internal/survey"
)

// Reader loads a survey table from one kind of location.
type Reader interface {
	CanRead(src string) bool
	Read(ctx context.Context, src string) (*survey.Table, error)
}

// Loader picks the first registered Reader that accepts a source.
type Loader struct {
	readers []Reader
	logger  *log.Logger
}

// Options configures a Loader.
type Options struct {
	HTTPClient *http.Client
	SheetName  string
	Logger     *log.Logger
}

// NewLoader returns a Loader with the HTTP export, XLSX and CSV readers.
func NewLoader(opt Options) *Loader {
	hc := opt.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	logger := opt.Logger
	if logger == nil {
		logger = log.Default()
	}
	l := &Loader{logger: logger}
	l.Register(httpReader{client: hc})
	l.Register(xlsxReader{sheet: opt.SheetName})
	l.Register(csvFileReader{})
	return l
}

// Register appends a reader; earlier readers take precedence.
func (l *Loader) Register(r Reader) {
	l.readers = append(l.readers, r)
}

// Load reads src with the first matching reader.
func (l *Loader) Load(ctx context.Context, src string) (*survey.Table, error) {
	if src == "" {
		return nil, ErrNoSource
	}
	for _, r := range l.readers {
		if !r.CanRead(src) {
			continue
		}
		start := time.Now()
		t, err := r.Read(ctx, src)
		if err != nil {
			l.logger.Warn("survey load failed", "source", src, "err", err)
			return nil, err
		}
		l.logger.Debug("survey loaded", "source", src, "rows", t.Len(), "columns", len(t.Columns), "elapsed", time.Since(start))
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, src)
}

// SheetExportURL is the public CSV export URL of a Google Sheets document.
func SheetExportURL(sheetID string) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv", sheetID)
}

var (
	// ErrNoSource indicates no URL, path or sheet id was configured.
	ErrNoSource = errors.New("no survey source configured")
	// ErrUnsupported indicates a source no reader accepts.
	ErrUnsupported = errors.New("unsupported survey source")
)
