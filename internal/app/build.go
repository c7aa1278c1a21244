package app

import (
	"context"

	"github.com/shandysiswandi/securelogin/internal/pkg/precompress"
)

// Precompress builds a servable copy of src in dst.
func (a *App) Precompress(ctx context.Context, src, dst string) (precompress.Report, error) {
	return precompress.New(a.config.GetInt("build.compress_threshold")).Build(ctx, src, dst)
}

// CleanPrecompressed removes a tree written by Precompress.
func (a *App) CleanPrecompressed(dst string) error {
	return precompress.Clean(dst)
}
