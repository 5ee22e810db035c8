// Package pdfcheck validates PDFs produced by the rendering engine before they
// are handed to a caller, and stamps document metadata into them.
package pdfcheck

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// keep pdfcpu from creating a config dir under $HOME
	model.ConfigPath = "disable"
}

// Report describes a verified PDF
type Report struct {
	Pages   int
	Content []byte
}

// Inspector validates and stamps PDFs. It is safe for concurrent use.
type Inspector struct{}

// NewInspector creates an inspector with relaxed validation, which is what
// Chrome output needs.
func NewInspector() *Inspector {
	return &Inspector{}
}

// newConf returns a configuration for one Inspect call. pdfcpu writes to the
// configuration it is handed, so it is never shared between calls.
func newConf() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Inspect validates content, counts its pages and writes properties into the
// document info dictionary. The returned content is the stamped PDF.
func (i *Inspector) Inspect(content []byte, properties map[string]string) (*Report, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	if err := api.Validate(bytes.NewReader(content), newConf()); err != nil {
		return nil, fmt.Errorf("invalid pdf: %w", err)
	}

	pages, err := api.PageCount(bytes.NewReader(content), newConf())
	if err != nil {
		return nil, fmt.Errorf("counting pages: %w", err)
	}
	if pages == 0 {
		return nil, fmt.Errorf("document has no pages")
	}

	out := content
	if len(properties) > 0 {
		var buf bytes.Buffer
		if err := api.AddProperties(bytes.NewReader(content), &buf, properties, newConf()); err != nil {
			return nil, fmt.Errorf("adding properties: %w", err)
		}
		out = buf.Bytes()
	}

	return &Report{Pages: pages, Content: out}, nil
}
