package render

import "context"

// Engine turns markup into a fixed-layout PDF. Each Acquire hands out one
// engine instance (for Chrome, one browser process); the caller must Close
// the session on every path.
type Engine interface {
	Acquire(ctx context.Context) (Session, error)
}

// Session is one acquired engine instance
type Session interface {
	PrintPDF(ctx context.Context, markup string, opts PageOptions) ([]byte, error)
	Close() error
}

// PageOptions is the page setup requested from the engine
type PageOptions struct {
	Format          string
	PrintBackground bool
	HeaderTemplate  string
	FooterTemplate  string
	Margins         Margins
}

// Margins are CSS lengths in pixels
type Margins struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// Page footer with the current and total page count. The engine fills the
// pageNumber and totalPages classes.
const footerTemplate = `<div style="font-size:10px; width:100%; text-align:center; color:#666; padding:10px 0;">` +
	`Página <span class="pageNumber"></span> de <span class="totalPages"></span></div>`

// DefaultPageOptions is A4 with backgrounds and a page-count footer. The
// bottom margin leaves room for the footer.
func DefaultPageOptions() PageOptions {
	return PageOptions{
		Format:          "A4",
		PrintBackground: true,
		HeaderTemplate:  "<span></span>",
		FooterTemplate:  footerTemplate,
		Margins: Margins{
			Top:    20,
			Right:  20,
			Bottom: 60,
			Left:   20,
		},
	}
}
