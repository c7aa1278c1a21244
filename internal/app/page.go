package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shandysiswandi/securelogin/internal/page"
	"github.com/shandysiswandi/securelogin/internal/page/entity"
)

const outputSelector = "code"

type pageDocument struct {
	name string
	doc  *entity.Document
	out  entity.Element
}

// RunPage loads the index and register pages against page.base_url and
// writes their output elements (or the whole rendered pages) to w. The load
// error, if any, is returned after the pages are written.
func (a *App) RunPage(ctx context.Context, w io.Writer, render bool) error {
	fetchPage, err := a.openPage("index.html")
	if err != nil {
		return err
	}
	hashPage, err := a.openPage("register.html")
	if err != nil {
		return err
	}

	if timeout := a.config.GetSecond("page.timeout_seconds"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	p, err := page.New(page.Dependency{
		HTTPClient:  &http.Client{},
		Goroutine:   a.goroutine,
		Hasher:      a.argon2,
		Config:      a.config,
		Instrument:  a.ins,
		Clock:       a.clock,
		Validator:   a.validator,
		FetchOutput: fetchPage.out,
		HashOutput:  hashPage.out,
	})
	if err != nil {
		return fmt.Errorf("init module page: %w", err)
	}

	loadErr := p.Load(ctx)

	for _, pd := range []pageDocument{fetchPage, hashPage} {
		if err := writePage(w, pd, render); err != nil {
			return errors.Join(loadErr, err)
		}
	}

	return loadErr
}

func (a *App) openPage(name string) (pageDocument, error) {
	f, err := a.static.Open(name)
	if err != nil {
		return pageDocument{}, fmt.Errorf("open page %s: %w", name, err)
	}
	defer f.Close()

	doc, err := entity.ParseDocument(f)
	if err != nil {
		return pageDocument{}, fmt.Errorf("open page %s: %w", name, err)
	}

	out, err := page.Bind(doc, outputSelector)
	if err != nil {
		return pageDocument{}, fmt.Errorf("open page %s: %w", name, err)
	}

	return pageDocument{name: name, doc: doc, out: out}, nil
}

func writePage(w io.Writer, pd pageDocument, render bool) error {
	if render {
		if _, err := fmt.Fprintf(w, "<!-- %s -->\n", pd.name); err != nil {
			return err
		}
		if err := pd.doc.Render(w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}

	_, err := fmt.Fprintf(w, "== %s ==\n%s\n", pd.name, pd.out.Text())
	return err
}
