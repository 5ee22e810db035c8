package chrome

import (
	"context"
	"io"
	"log/slog"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/comprobante-printer/internal/render"
	"github.com/rezonia/comprobante-printer/internal/render/pdfcheck"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPrintParams(t *testing.T) {
	params, err := printParams(render.DefaultPageOptions())
	require.NoError(t, err)

	assert.InDelta(t, 8.27, params.PaperWidth, 0.001)
	assert.InDelta(t, 11.69, params.PaperHeight, 0.001)
	assert.True(t, params.PrintBackground)
	assert.True(t, params.DisplayHeaderFooter)
	assert.Contains(t, params.FooterTemplate, "totalPages")
	assert.InDelta(t, 0.625, params.MarginBottom, 0.0001)
	assert.InDelta(t, 20.0/96, params.MarginTop, 0.0001)
}

func TestPrintParams_NoHeaderFooter(t *testing.T) {
	opts := render.DefaultPageOptions()
	opts.HeaderTemplate = ""
	opts.FooterTemplate = ""

	params, err := printParams(opts)
	require.NoError(t, err)
	assert.False(t, params.DisplayHeaderFooter)
}

func TestPrintParams_UnknownFormat(t *testing.T) {
	opts := render.DefaultPageOptions()
	opts.Format = "A7"

	_, err := printParams(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "A7")
}

func TestNewEngine_Defaults(t *testing.T) {
	e := NewEngine(discard(), WithTimeout(0), WithMaxConcurrency(-1))

	assert.Equal(t, DefaultTimeout, e.timeout)
	assert.NotNil(t, e.slots)
}

func TestAcquire_FailureReleasesSlot(t *testing.T) {
	e := NewEngine(discard(),
		WithExecPath("/nonexistent/chrome"),
		WithMaxConcurrency(1),
		WithTimeout(5*time.Second),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for i := 0; i < 2; i++ {
		session, err := e.Acquire(ctx)
		require.Error(t, err)
		assert.Nil(t, session)
	}

	// the only slot is free again
	require.True(t, e.slots.TryAcquire(1))
	e.slots.Release(1)
}

func TestAcquire_CancelledWhileWaiting(t *testing.T) {
	e := NewEngine(discard(), WithMaxConcurrency(1))
	require.True(t, e.slots.TryAcquire(1))
	defer e.slots.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := e.Acquire(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	calls := 0
	s := &session{ctx: context.Background(), release: func() { calls++ }}

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, calls)
}

func TestEngine_PrintsRealPDF(t *testing.T) {
	path, err := exec.LookPath("google-chrome")
	if err != nil {
		path, err = exec.LookPath("chromium")
	}
	if err != nil {
		t.Skip("no chrome binary on PATH")
	}

	e := NewEngine(discard(), WithExecPath(path), WithTimeout(30*time.Second))

	session, err := e.Acquire(context.Background())
	require.NoError(t, err)
	defer session.Close()

	content, err := session.PrintPDF(context.Background(),
		"<html><body><h1>F001-00000001</h1></body></html>",
		render.DefaultPageOptions())
	require.NoError(t, err)

	report, err := pdfcheck.NewInspector().Inspect(content, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Pages)
}
