package render_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/rezonia/comprobante-printer/internal/model"
	"github.com/rezonia/comprobante-printer/internal/render"
	"github.com/rezonia/comprobante-printer/internal/render/rendertest"
)

func sampleDocument() *model.Document {
	return &model.Document{
		Type:   model.DocumentTypeFactura,
		Series: "F001",
		Number: "00000123",
		Issuer: model.Party{
			TaxID:   "20486293692",
			Name:    "COMERCIAL SPLANA E.I.R.L.",
			Address: "Calle Real 261, Junín, Perú",
			Phone:   "(064) 216665",
		},
		Recipient: model.Party{
			TaxID:   "20123456789",
			Name:    "FERRETERÍA <EL PROGRESO> SAC",
			Address: "Av. Huancavelica 120",
		},
		IssueDate: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Currency:  "PEN",
		Subtotal:  decimal.RequireFromString("100"),
		Tax:       decimal.RequireFromString("18"),
		Total:     decimal.RequireFromString("118"),
		Items: []model.LineItem{
			{
				Description: "CEMENTO SOL 42.5KG",
				Quantity:    decimal.RequireFromString("2"),
				UnitPrice:   decimal.RequireFromString("29.5"),
				Total:       decimal.RequireFromString("59"),
			},
			{
				Description: "FIERRO CORRUGADO 1/2",
				Quantity:    decimal.RequireFromString("1.5"),
				UnitPrice:   decimal.RequireFromString("39.333"),
				Total:       decimal.RequireFromString("59"),
			},
		},
	}
}

func TestTypeLabel(t *testing.T) {
	tests := []struct {
		code     model.DocumentType
		expected string
	}{
		{"01", "Factura Electrónica"},
		{"03", "Boleta de Venta Electrónica"},
		{"07", "Nota de Crédito Electrónica"},
		{"08", "Nota de Débito Electrónica"},
		{"99", "Comprobante Electrónico"},
		{"", "Comprobante Electrónico"},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, render.TypeLabel(tt.code))
		})
	}
}

func TestPrintedNotice(t *testing.T) {
	tests := []struct {
		code     model.DocumentType
		expected string
	}{
		{"01", "Representación impresa de la FACTURA ELECTRÓNICA."},
		{"03", "Representación impresa de la BOLETA DE VENTA ELECTRÓNICA."},
		{"07", "Representación impresa de la NOTA DE CRÉDITO ELECTRÓNICA."},
		{"42", "Representación impresa del COMPROBANTE ELECTRÓNICO."},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, render.PrintedNotice(tt.code))
		})
	}
}

func TestQRPayload(t *testing.T) {
	doc := sampleDocument()

	payload := render.QRPayload(doc)

	assert.Equal(t, "20486293692|01|F001|00000123|118.00|18.00|2025-03-14|6|20486293692", payload)
}

func TestQRPayload_FixedShape(t *testing.T) {
	amounts := []struct{ total, tax string }{
		{"0", "0"},
		{"1", "0.18"},
		{"1234567.891", "188324.17"},
		{"59.5", "9.076"},
	}

	for _, a := range amounts {
		doc := sampleDocument()
		doc.Total = decimal.RequireFromString(a.total)
		doc.Tax = decimal.RequireFromString(a.tax)
		doc.Type = "99"

		fields := strings.Split(render.QRPayload(doc), "|")
		require.Len(t, fields, 9)

		assert.Equal(t, doc.Issuer.TaxID, fields[0])
		assert.Equal(t, "01", fields[1])
		assert.Equal(t, "F001", fields[2])
		assert.Equal(t, "00000123", fields[3])
		assert.Regexp(t, `^\d+\.\d{2}$`, fields[4])
		assert.Regexp(t, `^\d+\.\d{2}$`, fields[5])
		assert.Equal(t, "2025-03-14", fields[6])
		assert.Equal(t, "6", fields[7])
		assert.Equal(t, doc.Issuer.TaxID, fields[8])
	}
}

func TestQRImageURL(t *testing.T) {
	payload := "20486293692|01|F001|1|118.00|18.00|2025-03-14|6|20486293692"

	got, err := render.QRImageURL(render.DefaultQRServiceURL, payload)
	require.NoError(t, err)

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "api.qrserver.com", u.Host)
	assert.Equal(t, "120x120", u.Query().Get("size"))
	assert.Equal(t, payload, u.Query().Get("data"))

	_, err = render.QRImageURL("not a url", payload)
	require.Error(t, err)
}

func TestDefaultPageOptions(t *testing.T) {
	opts := render.DefaultPageOptions()

	assert.Equal(t, "A4", opts.Format)
	assert.True(t, opts.PrintBackground)
	assert.Contains(t, opts.FooterTemplate, "pageNumber")
	assert.Contains(t, opts.FooterTemplate, "totalPages")
	assert.Greater(t, opts.Margins.Bottom, opts.Margins.Top)
	assert.Greater(t, opts.Margins.Bottom, opts.Margins.Left)
	assert.Greater(t, opts.Margins.Bottom, opts.Margins.Right)
}

func TestCompose(t *testing.T) {
	r := render.NewRenderer(rendertest.NewEngine(nil),
		render.WithLogoURL("http://localhost:3000/public/logo.png"),
		render.WithBankAccounts([]string{"Banco BBVA: 0011-0307-02-00002023 (Soles)"}),
	)

	markup, err := r.Compose(sampleDocument())
	require.NoError(t, err)

	root, err := html.Parse(strings.NewReader(markup))
	require.NoError(t, err)

	header := byID(root, "header")
	require.NotNil(t, header)
	assert.Contains(t, text(header), "Factura Electrónica")
	assert.Contains(t, text(header), "F001-00000123")
	assert.Contains(t, text(header), "20486293692")

	recipient := byID(root, "recipient")
	require.NotNil(t, recipient)
	assert.Contains(t, text(recipient), "FERRETERÍA <EL PROGRESO> SAC")
	assert.Contains(t, text(recipient), "2025-03-14")

	items := byID(root, "items")
	require.NotNil(t, items)
	rows := all(items, "tr")
	require.Len(t, rows, 3) // header + two items

	cells := all(rows[2], "td")
	require.Len(t, cells, 4)
	assert.Equal(t, "FIERRO CORRUGADO 1/2", text(cells[0]))
	assert.Equal(t, "1.50", text(cells[1]))
	assert.Equal(t, "S/ 39.33", text(cells[2]))
	assert.Equal(t, "S/ 59.00", text(cells[3]))

	summary := text(byID(root, "summary"))
	assert.Contains(t, summary, "S/ 100.00")
	assert.Contains(t, summary, "S/ 18.00")
	assert.Contains(t, summary, "S/ 118.00")

	assert.Contains(t, text(byID(root, "amount-in-words")), "CIENTO DIECIOCHO CON 00/100 SOLES")
	assert.Contains(t, text(byID(root, "bank-accounts")), "0011-0307-02-00002023")
	assert.Contains(t, markup, "Representación impresa de la FACTURA ELECTRÓNICA")

	imgs := all(byID(root, "qr"), "img")
	require.Len(t, imgs, 1)
	src, err := url.Parse(attr(imgs[0], "src"))
	require.NoError(t, err)
	assert.Equal(t, render.QRPayload(sampleDocument()), src.Query().Get("data"))
}

func TestCompose_UnknownTypeFallsBack(t *testing.T) {
	doc := sampleDocument()
	doc.Type = "42"

	markup, err := render.NewRenderer(rendertest.NewEngine(nil)).Compose(doc)
	require.NoError(t, err)

	root, err := html.Parse(strings.NewReader(markup))
	require.NoError(t, err)
	assert.Contains(t, text(byID(root, "header")), "Comprobante Electrónico")
	assert.Contains(t, markup, "Representación impresa del COMPROBANTE ELECTRÓNICO.")
	assert.NotContains(t, markup, "de la COMPROBANTE")
	assert.Nil(t, byID(root, "bank-accounts"))
}

func TestCompose_BadQRServiceURL(t *testing.T) {
	r := render.NewRenderer(rendertest.NewEngine(nil), render.WithQRServiceURL("::"))

	_, err := r.Compose(sampleDocument())

	var renderErr *model.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, model.StageCompose, renderErr.Stage)
}

func TestRender(t *testing.T) {
	engine := rendertest.NewEngine(rendertest.PDF(t, 2))
	r := render.NewRenderer(engine)

	out, err := r.Render(context.Background(), sampleDocument())
	require.NoError(t, err)

	assert.Equal(t, "comprobante-F001-00000123.pdf", out.Filename)
	assert.Equal(t, render.ContentTypePDF, out.ContentType)
	assert.Equal(t, 2, out.Pages)
	assert.True(t, strings.HasPrefix(string(out.Content), "%PDF"))

	assert.Equal(t, 1, engine.Acquired())
	assert.Equal(t, 1, engine.Released())

	expected, err := r.Compose(sampleDocument())
	require.NoError(t, err)
	require.Len(t, engine.Markup(), 1)
	assert.Equal(t, expected, engine.Markup()[0])
	assert.Equal(t, []render.PageOptions{render.DefaultPageOptions()}, engine.Options())
}

func TestRender_EngineFaultStillReleases(t *testing.T) {
	engine := &rendertest.Engine{PrintErr: errors.New("target crashed")}
	r := render.NewRenderer(engine)

	out, err := r.Render(context.Background(), sampleDocument())
	require.Error(t, err)
	assert.Nil(t, out)

	var renderErr *model.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, model.StagePrint, renderErr.Stage)
	assert.Equal(t, 1, engine.Acquired())
	assert.Equal(t, 1, engine.Released())
}

func TestRender_AcquireFailure(t *testing.T) {
	engine := &rendertest.Engine{AcquireErr: errors.New("chrome not found")}

	_, err := render.NewRenderer(engine).Render(context.Background(), sampleDocument())

	var renderErr *model.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, model.StageAcquire, renderErr.Stage)
	assert.Equal(t, 0, engine.Released())
}

func TestRender_CorruptOutputIsRejected(t *testing.T) {
	engine := rendertest.NewEngine([]byte("%PDF-1.7 truncated"))

	out, err := render.NewRenderer(engine).Render(context.Background(), sampleDocument())
	assert.Nil(t, out)

	var renderErr *model.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, model.StageVerify, renderErr.Stage)
	assert.Equal(t, 1, engine.Released())
}

func TestRender_CloseErrorDoesNotFailRender(t *testing.T) {
	engine := rendertest.NewEngine(rendertest.PDF(t, 1))
	engine.CloseErr = errors.New("browser already gone")

	out, err := render.NewRenderer(engine).Render(context.Background(), sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, 1, out.Pages)
	assert.Equal(t, 1, engine.Released())
}

func TestRender_ConcurrentOnOneRenderer(t *testing.T) {
	engine := rendertest.NewEngine(rendertest.PDF(t, 1))
	r := render.NewRenderer(engine)

	const requests = 6
	var wg sync.WaitGroup
	errs := make(chan error, requests)

	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Render(context.Background(), sampleDocument()); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, requests, engine.Acquired())
	assert.Equal(t, requests, engine.Released())
}

// HTML helpers

func byID(n *html.Node, id string) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && attr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := byID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func all(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if n != nil {
		walk(n)
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
