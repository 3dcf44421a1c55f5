// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"

	"github.com/modboot/modboot/pkg/modinit"
)

// Provider loads configuration from explicit options.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (modinit.Config, string, error)
}

type fileProvider struct{}

// NewProvider creates a Provider reading configuration files with Load.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (modinit.Config, string, error) {
	return Load(ctx, opts)
}
