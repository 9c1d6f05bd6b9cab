package convert

import (
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/cmwatch/internal/logging"
)

type fakeProvider struct {
	name  string
	err   error
	calls int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Convert(ctx context.Context, req Request) error {
	p.calls++
	return p.err
}

func validRequest() Request {
	return Request{Input: "in.svg", Output: "out.png", Width: 64, Height: 64}
}

func TestChain_FirstSuccessWins(t *testing.T) {
	a := &fakeProvider{name: "a", err: ErrUnavailable}
	b := &fakeProvider{name: "b"}
	c := &fakeProvider{name: "c"}

	chain := &Chain{Providers: []Provider{a, b, c}, Logger: logging.Discard()}
	used, err := chain.Convert(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, "b", used)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
	assert.Zero(t, c.calls, "providers after a success are not tried")
}

func TestChain_AllFailReturnsAggregate(t *testing.T) {
	parseErr := errors.New("bad svg")
	a := &fakeProvider{name: "a", err: ErrUnavailable}
	b := &fakeProvider{name: "b", err: parseErr}

	chain := &Chain{Providers: []Provider{a, b}, Logger: logging.Discard()}
	used, err := chain.Convert(context.Background(), validRequest())

	require.Error(t, err)
	assert.Empty(t, used)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, parseErr)
	assert.Contains(t, err.Error(), "all providers failed")
	assert.Contains(t, err.Error(), "a: provider unavailable")
	assert.Contains(t, err.Error(), "b: bad svg")

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "a", pe.Provider)
}

func TestChain_NoProviders(t *testing.T) {
	_, err := (&Chain{}).Convert(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrNoProviders)
}

func TestChain_InvalidRequest(t *testing.T) {
	p := &fakeProvider{name: "a"}
	chain := &Chain{Providers: []Provider{p}, Logger: logging.Discard()}

	tests := []struct {
		name string
		req  Request
	}{
		{"no input", Request{Output: "o.png", Width: 1, Height: 1}},
		{"no output", Request{Input: "i.svg", Width: 1, Height: 1}},
		{"zero size", Request{Input: "i.svg", Output: "o.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := chain.Convert(context.Background(), tt.req)
			assert.Error(t, err)
		})
	}
	assert.Zero(t, p.calls)
}

func TestChain_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &fakeProvider{name: "a"}
	_, err := (&Chain{Providers: []Provider{p}, Logger: logging.Discard()}).Convert(ctx, validRequest())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, p.calls)
}

func TestExecProvider_MissingBinaryIsUnavailable(t *testing.T) {
	p := RsvgConvert()
	p.lookPath = func(string) (string, error) { return "", errors.New("not found") }

	err := p.Convert(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "rsvg-convert not found in PATH")
}

func TestExecProvider_Args(t *testing.T) {
	req := Request{Input: "logo.svg", Output: "icon.png", Width: 1024, Height: 512}

	assert.Equal(t,
		[]string{"-w", "1024", "-h", "512", "-f", "png", "-o", "icon.png", "logo.svg"},
		RsvgConvert().args(req))
	assert.Equal(t,
		[]string{"logo.svg", "--export-type=png", "--export-filename=icon.png", "--export-width=1024", "--export-height=512"},
		Inkscape().args(req))
}

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10" width="10" height="10">
  <rect x="0" y="0" width="10" height="10" fill="#ff0000"/>
</svg>`

func TestOksvg_Convert(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "logo.svg")
	out := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(in, []byte(testSVG), 0o644))

	err := Oksvg{}.Convert(context.Background(), Request{Input: in, Output: out, Width: 32, Height: 32})
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())

	r, g, b, a := img.At(16, 16).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Zero(t, g)
	assert.Zero(t, b)
	assert.Equal(t, uint32(0xffff), a)

	leftovers, err := filepath.Glob(filepath.Join(dir, ".svg2png-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestOksvg_MissingInput(t *testing.T) {
	dir := t.TempDir()
	err := Oksvg{}.Convert(context.Background(), Request{
		Input:  filepath.Join(dir, "missing.svg"),
		Output: filepath.Join(dir, "out.png"),
		Width:  8,
		Height: 8,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open input")
}

func TestDefaultProviders(t *testing.T) {
	assert.Equal(t, []string{"rsvg-convert", "inkscape", "oksvg"}, ProviderNames(DefaultProviders()))
}
