// Package render composes the printed layout of a comprobante and has a
// rendering engine turn it into a PDF.
package render

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"
	"log/slog"

	dec "github.com/shopspring/decimal"

	"github.com/rezonia/comprobante-printer/internal/decimal"
	"github.com/rezonia/comprobante-printer/internal/model"
	"github.com/rezonia/comprobante-printer/internal/render/pdfcheck"
	"github.com/rezonia/comprobante-printer/internal/words"
)

//go:embed templates/comprobante.html
var templateFS embed.FS

var layout = template.Must(template.ParseFS(templateFS, "templates/comprobante.html"))

// ContentTypePDF is the media type of rendered output
const ContentTypePDF = "application/pdf"

// Output is a rendered, verified document
type Output struct {
	Filename    string
	ContentType string
	Content     []byte
	Pages       int
}

// Inspector verifies engine output before it leaves the renderer
type Inspector interface {
	Inspect(content []byte, properties map[string]string) (*pdfcheck.Report, error)
}

// Renderer composes markup and drives an Engine
type Renderer struct {
	engine       Engine
	inspector    Inspector
	page         PageOptions
	qrServiceURL string
	logoURL      string
	bankAccounts []string
	logger       *slog.Logger
}

// Option configures the renderer
type Option func(*Renderer)

// WithQRServiceURL sets the QR image service base URL
func WithQRServiceURL(u string) Option {
	return func(r *Renderer) {
		r.qrServiceURL = u
	}
}

// WithLogoURL sets the logo shown in the header
func WithLogoURL(u string) Option {
	return func(r *Renderer) {
		r.logoURL = u
	}
}

// WithBankAccounts sets the bank account lines of the footer
func WithBankAccounts(accounts []string) Option {
	return func(r *Renderer) {
		r.bankAccounts = accounts
	}
}

// WithPageOptions overrides DefaultPageOptions
func WithPageOptions(p PageOptions) Option {
	return func(r *Renderer) {
		r.page = p
	}
}

// WithInspector replaces the pdfcpu inspector
func WithInspector(i Inspector) Option {
	return func(r *Renderer) {
		r.inspector = i
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = l
	}
}

// NewRenderer creates a renderer on top of engine
func NewRenderer(engine Engine, opts ...Option) *Renderer {
	r := &Renderer{
		engine:       engine,
		inspector:    pdfcheck.NewInspector(),
		page:         DefaultPageOptions(),
		qrServiceURL: DefaultQRServiceURL,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

type itemView struct {
	Description string
	Quantity    string
	UnitPrice   string
	Total       string
}

type layoutView struct {
	TypeLabel     string
	Notice        string
	Reference     string
	LogoURL       string
	Issuer        model.Party
	Recipient     model.Party
	IssueDate     string
	Items         []itemView
	Subtotal      string
	Tax           string
	Total         string
	AmountInWords string
	BankAccounts  []string
	QRImageURL    string
}

// Compose returns the full markup of doc
func (r *Renderer) Compose(doc *model.Document) (string, error) {
	qrURL, err := QRImageURL(r.qrServiceURL, QRPayload(doc))
	if err != nil {
		return "", model.NewRenderError(model.StageCompose, "building QR image URL", err)
	}

	label := TypeLabel(doc.Type)
	view := layoutView{
		TypeLabel:     label,
		Notice:        PrintedNotice(doc.Type),
		Reference:     doc.Reference(),
		LogoURL:       r.logoURL,
		Issuer:        doc.Issuer,
		Recipient:     doc.Recipient,
		IssueDate:     doc.IssueDate.Format(model.DateLayout),
		Items:         make([]itemView, 0, len(doc.Items)),
		Subtotal:      money(doc.Subtotal),
		Tax:           money(doc.Tax),
		Total:         money(doc.Total),
		AmountInWords: words.Format(doc.Total),
		BankAccounts:  r.bankAccounts,
		QRImageURL:    qrURL,
	}

	for _, item := range doc.Items {
		view.Items = append(view.Items, itemView{
			Description: item.Description,
			Quantity:    decimal.Fixed2(item.Quantity),
			UnitPrice:   money(item.UnitPrice),
			Total:       money(item.Total),
		})
	}

	var buf bytes.Buffer
	if err := layout.Execute(&buf, view); err != nil {
		return "", model.NewRenderError(model.StageCompose, "executing layout", err)
	}
	return buf.String(), nil
}

// Render composes doc, prints it on one engine session and verifies the
// result. The session is closed on every path; on error no content is
// returned.
func (r *Renderer) Render(ctx context.Context, doc *model.Document) (*Output, error) {
	markup, err := r.Compose(doc)
	if err != nil {
		return nil, err
	}

	session, err := r.engine.Acquire(ctx)
	if err != nil {
		return nil, model.NewRenderError(model.StageAcquire, "starting rendering engine", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			r.logger.Warn("closing rendering engine", slog.String("error", cerr.Error()))
		}
	}()

	raw, err := session.PrintPDF(ctx, markup, r.page)
	if err != nil {
		return nil, model.NewRenderError(model.StagePrint, "printing "+doc.Reference(), err)
	}

	report, err := r.inspector.Inspect(raw, map[string]string{
		"Comprobante": doc.Reference(),
		"Tipo":        TypeLabel(doc.Type),
		"EmisorRUC":   doc.Issuer.TaxID,
	})
	if err != nil {
		return nil, model.NewRenderError(model.StageVerify, "engine produced an unusable document", err)
	}

	r.logger.Debug("rendered comprobante",
		slog.String("reference", doc.Reference()),
		slog.Int("pages", report.Pages),
		slog.Int("bytes", len(report.Content)),
	)

	return &Output{
		Filename:    doc.Filename(),
		ContentType: ContentTypePDF,
		Content:     report.Content,
		Pages:       report.Pages,
	}, nil
}

func money(d dec.Decimal) string {
	return "S/ " + decimal.Fixed2(d)
}
