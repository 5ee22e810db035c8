// Package chrome prints comprobantes with headless Chrome over the DevTools
// protocol.
package chrome

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"golang.org/x/sync/semaphore"

	"github.com/rezonia/comprobante-printer/internal/render"
)

const (
	DefaultTimeout        = 60 * time.Second
	DefaultMaxConcurrency = 4

	// CSS reference pixel
	pixelsPerInch = 96.0
)

// Paper sizes in inches
var paperSizes = map[string][2]float64{
	"A4":     {8.27, 11.69},
	"Letter": {8.5, 11},
}

// waitForImages resolves once every <img> has loaded or failed, so the QR
// bitmap from the image service is on the page before printing.
const waitForImages = `Promise.all(Array.from(document.images).map(img =>
	img.complete ? true : new Promise(resolve => { img.onload = img.onerror = () => resolve(true); })
))`

// Engine launches one Chrome process per session
type Engine struct {
	execPath string
	timeout  time.Duration
	slots    *semaphore.Weighted
	logger   *slog.Logger
}

// Option configures the engine
type Option func(*Engine)

// WithExecPath sets the Chrome binary; empty means look it up on PATH
func WithExecPath(path string) Option {
	return func(e *Engine) {
		e.execPath = path
	}
}

// WithTimeout bounds one conversion
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithMaxConcurrency bounds how many browsers run at once
func WithMaxConcurrency(n int64) Option {
	return func(e *Engine) {
		if n > 0 {
			e.slots = semaphore.NewWeighted(n)
		}
	}
}

// NewEngine creates a Chrome engine
func NewEngine(logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		timeout: DefaultTimeout,
		slots:   semaphore.NewWeighted(DefaultMaxConcurrency),
		logger:  logger,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Acquire waits for a free slot and starts a browser
func (e *Engine) Acquire(ctx context.Context) (render.Session, error) {
	if err := e.slots.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for a browser slot: %w", err)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)
	if e.execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(e.execPath))
	}

	// Bounded by the engine timeout only; request cancellation does not
	// abort a print.
	base, cancelTimeout := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(base, allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	s := &session{
		ctx: browserCtx,
		release: func() {
			cancelBrowser()
			cancelAlloc()
			cancelTimeout()
			e.slots.Release(1)
		},
	}

	// First Run starts the browser process
	if err := chromedp.Run(browserCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("starting chrome: %w", err)
	}

	e.logger.Debug("chrome session started")
	return s, nil
}

type session struct {
	ctx     context.Context
	release func()
	once    sync.Once
}

// PrintPDF loads markup into a blank page and prints it. The request context
// is not consulted once printing starts; the engine timeout bounds it.
func (s *session) PrintPDF(_ context.Context, markup string, opts render.PageOptions) ([]byte, error) {
	var (
		pdf    []byte
		images []bool
	)
	err := chromedp.Run(s.ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, markup).Do(ctx)
		}),
		chromedp.Evaluate(waitForImages, &images, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			params, err := printParams(opts)
			if err != nil {
				return err
			}
			pdf, _, err = params.Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdf, nil
}

// Close stops the browser; further calls do nothing
func (s *session) Close() error {
	s.once.Do(s.release)
	return nil
}

func printParams(opts render.PageOptions) (*page.PrintToPDFParams, error) {
	size, ok := paperSizes[opts.Format]
	if !ok {
		return nil, fmt.Errorf("unsupported page format %q", opts.Format)
	}

	return page.PrintToPDF().
		WithPaperWidth(size[0]).
		WithPaperHeight(size[1]).
		WithPrintBackground(opts.PrintBackground).
		WithDisplayHeaderFooter(opts.HeaderTemplate != "" || opts.FooterTemplate != "").
		WithHeaderTemplate(opts.HeaderTemplate).
		WithFooterTemplate(opts.FooterTemplate).
		WithMarginTop(inches(opts.Margins.Top)).
		WithMarginRight(inches(opts.Margins.Right)).
		WithMarginBottom(inches(opts.Margins.Bottom)).
		WithMarginLeft(inches(opts.Margins.Left)), nil
}

func inches(px int) float64 {
	return float64(px) / pixelsPerInch
}
