// Package precompress prepares static web assets for serving: it minifies
// text assets and writes gzip, brotli and zstd siblings next to them.
package precompress

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"
)

// DefaultThreshold is the minimum minified size worth compressing.
const DefaultThreshold = 1000

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

var (
	// ErrSameDir is returned when source and destination resolve to the same directory.
	ErrSameDir = errors.New("precompress: source and destination must differ")

	distExtensions     = []string{".js", ".ico", ".svg", ".html", ".css"}
	compressExtensions = []string{".js", ".svg", ".html", ".css"}
)

// Report summarizes a Build run.
type Report struct {
	Copied     int
	Minified   int
	Compressed int
}

// Builder turns a source tree into a servable dist tree.
type Builder struct {
	minifier  *minify.M
	threshold int
}

// New returns a Builder; threshold <= 0 selects DefaultThreshold.
func New(threshold int) *Builder {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	m := minify.New()
	m.AddFunc(".js", js.Minify)
	m.AddFunc(".svg", svg.Minify)
	m.AddFunc(".html", html.Minify)
	m.AddFunc(".css", css.Minify)

	return &Builder{minifier: m, threshold: threshold}
}

// Build replaces dst with the processed contents of src.
func (b *Builder) Build(ctx context.Context, src, dst string) (Report, error) {
	var report Report

	srcAbs, err := filepath.Abs(src)
	if err != nil {
		return report, err
	}
	dstAbs, err := filepath.Abs(dst)
	if err != nil {
		return report, err
	}
	if srcAbs == dstAbs {
		return report, ErrSameDir
	}

	if err := os.RemoveAll(dst); err != nil {
		return report, fmt.Errorf("precompress: clear %s: %w", dst, err)
	}

	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !slices.Contains(distExtensions, filepath.Ext(path)) {
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		return b.processFile(path, filepath.Join(dst, rel), &report)
	})
	if err != nil {
		return report, err
	}

	slog.InfoContext(ctx, "precompress finished",
		"src", src,
		"dst", dst,
		"copied", report.Copied,
		"minified", report.Minified,
		"compressed", report.Compressed,
	)

	return report, nil
}

func (b *Builder) processFile(srcPath, dstPath string, report *Report) error {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}

	ext := filepath.Ext(srcPath)
	compressible := slices.Contains(compressExtensions, ext)

	if compressible && !strings.Contains(filepath.Base(srcPath), ".min.") {
		data, err = b.minifier.Bytes(ext, data)
		if err != nil {
			return fmt.Errorf("precompress: minify %s: %w", srcPath, err)
		}
		report.Minified++
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), dirPerm); err != nil {
		return err
	}
	if err := os.WriteFile(dstPath, data, filePerm); err != nil {
		return err
	}
	report.Copied++

	if !compressible || len(data) < b.threshold {
		return nil
	}

	for _, enc := range encoders {
		out, err := compress(data, enc.newWriter)
		if err != nil {
			return fmt.Errorf("precompress: %s %s: %w", enc.suffix, srcPath, err)
		}
		if err := os.WriteFile(dstPath+enc.suffix, out, filePerm); err != nil {
			return err
		}
	}
	report.Compressed++

	slog.Debug("precompress: compressed asset", "file", dstPath, "size", len(data))

	return nil
}

type encoder struct {
	suffix    string
	newWriter func(io.Writer) (io.WriteCloser, error)
}

var encoders = []encoder{
	{suffix: ".gz", newWriter: func(w io.Writer) (io.WriteCloser, error) {
		return gzip.NewWriterLevel(w, gzip.BestCompression)
	}},
	{suffix: ".br", newWriter: func(w io.Writer) (io.WriteCloser, error) {
		return brotli.NewWriterLevel(w, brotli.BestCompression), nil
	}},
	{suffix: ".zst", newWriter: func(w io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	}},
}

func compress(data []byte, newWriter func(io.Writer) (io.WriteCloser, error)) ([]byte, error) {
	var buf bytes.Buffer

	w, err := newWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Clean removes a previously built dist tree. A missing tree is not an error.
func Clean(dst string) error {
	if err := os.RemoveAll(dst); err != nil {
		return fmt.Errorf("precompress: clean %s: %w", dst, err)
	}
	return nil
}
