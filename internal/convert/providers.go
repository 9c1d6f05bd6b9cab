package convert

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// ExecProvider converts by running an external command.
type ExecProvider struct {
	name   string
	binary string
	args   func(req Request) []string
	// lookPath is swapped out in tests.
	lookPath func(file string) (string, error)
}

// Name returns the provider name.
func (p *ExecProvider) Name() string {
	return p.name
}

// Convert runs the command. A missing binary reports ErrUnavailable.
func (p *ExecProvider) Convert(ctx context.Context, req Request) error {
	path, err := p.lookPath(p.binary)
	if err != nil {
		return fmt.Errorf("%w: %s not found in PATH", ErrUnavailable, p.binary)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, p.args(req)...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("%s failed: %w", p.binary, err)
		}
		return fmt.Errorf("%s failed: %w: %s", p.binary, err, msg)
	}
	return nil
}

// RsvgConvert uses librsvg's rsvg-convert.
func RsvgConvert() *ExecProvider {
	return &ExecProvider{
		name:   "rsvg-convert",
		binary: "rsvg-convert",
		args: func(req Request) []string {
			return []string{
				"-w", strconv.Itoa(req.Width),
				"-h", strconv.Itoa(req.Height),
				"-f", "png",
				"-o", req.Output,
				req.Input,
			}
		},
		lookPath: exec.LookPath,
	}
}

// Inkscape uses the inkscape 1.x command line.
func Inkscape() *ExecProvider {
	return &ExecProvider{
		name:   "inkscape",
		binary: "inkscape",
		args: func(req Request) []string {
			return []string{
				req.Input,
				"--export-type=png",
				"--export-filename=" + req.Output,
				"--export-width=" + strconv.Itoa(req.Width),
				"--export-height=" + strconv.Itoa(req.Height),
			}
		},
		lookPath: exec.LookPath,
	}
}

// Oksvg rasterizes in-process. It covers paths, shapes and gradients but
// not text or filters.
type Oksvg struct{}

// Name returns the provider name.
func (Oksvg) Name() string {
	return "oksvg"
}

// Convert renders req.Input scaled to the requested size.
func (Oksvg) Convert(ctx context.Context, req Request) error {
	in, err := os.Open(req.Input)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer in.Close()

	icon, err := oksvg.ReadIconStream(in)
	if err != nil {
		return fmt.Errorf("failed to parse svg: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	w, h := req.Width, req.Height
	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)

	return writePNG(req.Output, img)
}

// writePNG encodes img to a temporary file beside path and renames it into
// place so a failed encode never leaves a truncated output.
func writePNG(path string, img image.Image) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".svg2png-*.png")
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// DefaultProviders returns the providers in priority order.
func DefaultProviders() []Provider {
	return []Provider{RsvgConvert(), Inkscape(), Oksvg{}}
}

// ProviderNames returns the names of providers, in order.
func ProviderNames(providers []Provider) []string {
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.Name()
	}
	return names
}
