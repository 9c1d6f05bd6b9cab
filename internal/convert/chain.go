// Package convert rasterizes SVG images to PNG by trying a prioritized list
// of providers until one succeeds.
package convert

import (
	"context"
	"errors"
	"fmt"

	"github.com/thruflo/cmwatch/internal/logging"
)

// ErrNoProviders is returned when a chain has nothing to try.
var ErrNoProviders = errors.New("no conversion providers configured")

// ErrUnavailable marks a provider that cannot run on this machine, such as
// an external tool that is not installed.
var ErrUnavailable = errors.New("provider unavailable")

// Request describes one conversion.
type Request struct {
	Input  string
	Output string
	Width  int
	Height int
}

// Validate checks that the request is complete.
func (r Request) Validate() error {
	if r.Input == "" {
		return errors.New("input path is required")
	}
	if r.Output == "" {
		return errors.New("output path is required")
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("invalid output size %dx%d", r.Width, r.Height)
	}
	return nil
}

// Provider converts an SVG file to a PNG file.
type Provider interface {
	Name() string
	Convert(ctx context.Context, req Request) error
}

// ProviderError records why one provider failed.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Chain tries providers in order.
type Chain struct {
	Providers []Provider
	Logger    *logging.Logger
}

// Convert runs each provider in order and returns the name of the first one
// that succeeds. If all fail, the joined ProviderErrors are returned.
func (c *Chain) Convert(ctx context.Context, req Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	if len(c.Providers) == 0 {
		return "", ErrNoProviders
	}

	logger := c.Logger
	if logger == nil {
		logger = logging.Default()
	}

	var errs []error
	for _, p := range c.Providers {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		logger.Debug("Trying provider", "provider", p.Name(), "input", req.Input)
		err := p.Convert(ctx, req)
		if err == nil {
			return p.Name(), nil
		}

		if errors.Is(err, ErrUnavailable) {
			logger.Info("Provider not available, trying next", "provider", p.Name())
		} else {
			logger.Warn("Provider failed, trying next", "provider", p.Name(), "error", err)
		}
		errs = append(errs, &ProviderError{Provider: p.Name(), Err: err})
	}

	return "", fmt.Errorf("all providers failed: %w", errors.Join(errs...))
}
