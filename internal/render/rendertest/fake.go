// Package rendertest provides an in-memory render.Engine for tests. It records
// the markup and page options it is given and counts acquisitions and
// releases, so tests can check that every session is closed exactly once.
//
// Usage:
//
//	engine := rendertest.NewEngine(rendertest.PDF(t, 1))
//	renderer := render.NewRenderer(engine)
//
//	// Engine fault
//	engine := &rendertest.Engine{PrintErr: errors.New("target crashed")}
package rendertest

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jung-kurt/gofpdf"

	"github.com/rezonia/comprobante-printer/internal/render"
)

// Engine is a thread-safe fake rendering engine
type Engine struct {
	mu sync.Mutex

	Content    []byte // Returned by PrintPDF
	AcquireErr error  // Returned by Acquire
	PrintErr   error  // Returned by PrintPDF (takes precedence over Content)
	CloseErr   error  // Returned by Close

	acquired int
	released int
	markup   []string
	options  []render.PageOptions
}

// NewEngine returns an engine that prints content
func NewEngine(content []byte) *Engine {
	return &Engine{Content: content}
}

// Acquire implements render.Engine
func (e *Engine) Acquire(_ context.Context) (render.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.AcquireErr != nil {
		return nil, e.AcquireErr
	}
	e.acquired++
	return &session{engine: e}, nil
}

// Acquired returns how many sessions were handed out
func (e *Engine) Acquired() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.acquired
}

// Released returns how many Close calls sessions received
func (e *Engine) Released() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.released
}

// Markup returns every markup string printed so far
func (e *Engine) Markup() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.markup...)
}

// Options returns every page setup requested so far
func (e *Engine) Options() []render.PageOptions {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]render.PageOptions(nil), e.options...)
}

type session struct {
	engine *Engine
}

func (s *session) PrintPDF(_ context.Context, markup string, opts render.PageOptions) ([]byte, error) {
	e := s.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	e.markup = append(e.markup, markup)
	e.options = append(e.options, opts)

	if e.PrintErr != nil {
		return nil, e.PrintErr
	}
	return e.Content, nil
}

func (s *session) Close() error {
	e := s.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	e.released++
	return e.CloseErr
}

// PDF returns a valid A4 PDF with the given number of pages
func PDF(t testing.TB, pages int) []byte {
	t.Helper()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	for i := 1; i <= pages; i++ {
		pdf.AddPage()
		pdf.Cell(40, 10, fmt.Sprintf("page %d", i))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("building fixture pdf: %v", err)
	}
	return buf.Bytes()
}
