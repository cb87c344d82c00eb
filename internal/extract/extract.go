package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ledongthuc/pdf"
)

// State is the lifecycle of the PDF parsing capability.
type State int32

const (
	// StateUninitialized means Init has not been called yet.
	StateUninitialized State = iota
	// StateLoading means the self-test is running.
	StateLoading
	// StateReady means ExtractText may be called.
	StateReady
	// StateFailed means the self-test failed; it stays failed for the process lifetime.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

var (
	// ErrNotReady is returned when extraction is attempted outside the ready state.
	ErrNotReady = errors.New("PDF library is not ready")
	// ErrInitFailed reports that the PDF library failed its startup self-test.
	ErrInitFailed = errors.New("failed to load the PDF processing library")
	// ErrEmptyDocument is returned for zero-length input.
	ErrEmptyDocument = errors.New("empty pdf data")
)

const selfTestText = "pdf-selftest-ok"

// Extractor pulls plain text out of PDF documents using github.com/ledongthuc/pdf.
// Init must succeed once before ExtractText is usable.
type Extractor struct {
	once    sync.Once
	state   atomic.Int32
	initErr error
	check   func(context.Context) error
}

// New constructs an uninitialized Extractor.
func New() *Extractor {
	e := &Extractor{}
	e.check = e.selfTest
	return e
}

// State reports the current lifecycle state.
func (e *Extractor) State() State {
	return State(e.state.Load())
}

// Ready reports whether ExtractText may be called.
func (e *Extractor) Ready() bool {
	return e.State() == StateReady
}

// Init runs the one-time initialization. Later calls return the first outcome.
func (e *Extractor) Init(ctx context.Context) error {
	e.once.Do(func() {
		e.state.Store(int32(StateLoading))
		if err := e.check(ctx); err != nil {
			e.initErr = fmt.Errorf("%w: %v", ErrInitFailed, err)
			e.state.Store(int32(StateFailed))
			return
		}
		e.state.Store(int32(StateReady))
	})
	return e.initErr
}

// ExtractText returns the text of every page in ascending page order. Within a
// page, text items are joined by a single space; pages are joined by a newline.
// Pages without text items contribute an empty line.
func (e *Extractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	if state := e.State(); state != StateReady {
		return "", fmt.Errorf("%w (state=%s)", ErrNotReady, state)
	}
	return extractPages(ctx, data)
}

func (e *Extractor) selfTest(ctx context.Context) error {
	text, err := extractPages(ctx, buildPDF([][]string{{selfTestText}}))
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) != selfTestText {
		return fmt.Errorf("self-test extracted %q", text)
	}
	return nil
}

func extractPages(ctx context.Context, data []byte) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrEmptyDocument
	}

	// The parser panics on some malformed documents.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("parse pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		items, err := pageItems(reader.Page(i))
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, strings.Join(items, " "))
	}
	return strings.Join(pages, "\n"), nil
}

func pageItems(page pdf.Page) ([]string, error) {
	if page.V.IsNull() {
		return nil, nil
	}
	rows, err := page.GetTextByRow()
	if err != nil {
		return nil, err
	}
	var items []string
	for _, row := range rows {
		for _, t := range row.Content {
			if t.S == "" {
				continue
			}
			items = append(items, t.S)
		}
	}
	return items, nil
}
