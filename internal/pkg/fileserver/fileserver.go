package fileserver

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/samber/lo"
	"github.com/vearutop/statigz"
	"github.com/vearutop/statigz/brotli"
)

const indexFile = "index.html"

// ErrNotReadDirFS is returned by New for trees that cannot be listed.
var ErrNotReadDirFS = errors.New("fileserver: file system does not implement fs.ReadDirFS")

// Encoding pairs a Content-Encoding token with the file suffix that holds it.
type Encoding struct {
	Token  string
	Suffix string
}

// Encodings lists the supported encodings in order of preference.
var Encodings = []Encoding{
	{Token: "zstd", Suffix: ".zst"},
	{Token: "br", Suffix: ".br"},
	{Token: "gzip", Suffix: ".gz"},
}

// Server is an http.Handler for a read-only file tree.
type Server struct {
	fsys   fs.FS
	static *statigz.Server
}

// New indexes fsys and returns a Server for it.
func New(fsys fs.FS) (*Server, error) {
	rd, ok := fsys.(fs.ReadDirFS)
	if !ok {
		return nil, ErrNotReadDirFS
	}

	return &Server{
		fsys:   fsys,
		static: statigz.FileServer(rd, brotli.AddEncoding, addZstdEncoding),
	}, nil
}

func addZstdEncoding(s *statigz.Server) {
	s.Encodings = append(s.Encodings, statigz.Encoding{
		FileExt:         ".zst",
		ContentEncoding: "zstd",
		Decoder: func(r io.Reader) (io.Reader, error) {
			dec, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}
			defer dec.Close()

			data, err := io.ReadAll(dec)
			if err != nil {
				return nil, err
			}
			return bytes.NewReader(data), nil
		},
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "405 method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name, err := s.resolve(r.URL.Path)
	if err != nil {
		s.fail(w, r, name, err)
		return
	}

	w.Header().Add("Vary", "Accept-Encoding")
	if contentType := mime.TypeByExtension(path.Ext(name)); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	req := r.Clone(r.Context())
	req.URL.Path = "/" + name
	req.URL.RawPath = ""
	req.Header.Del("Accept-Encoding")
	if enc, ok := s.pick(name, acceptedEncodings(r.Header.Get("Accept-Encoding"))); ok {
		req.Header.Set("Accept-Encoding", enc.Token)
	}

	s.static.ServeHTTP(w, req)
}

// resolve maps a URL path onto a file name inside fsys, descending into
// index.html for "/" and for directories.
func (s *Server) resolve(urlPath string) (string, error) {
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		return indexFile, nil
	}
	if strings.HasSuffix(urlPath, "/") {
		name = path.Join(name, indexFile)
	}

	info, err := fs.Stat(s.fsys, name)
	if err != nil {
		return name, err
	}
	if info.IsDir() {
		name = path.Join(name, indexFile)
		if _, err := fs.Stat(s.fsys, name); err != nil {
			return name, err
		}
	}

	return name, nil
}

// pick returns the first precompressed sibling of name the client accepts.
func (s *Server) pick(name string, accepted map[string]struct{}) (Encoding, bool) {
	return lo.Find(Encodings, func(enc Encoding) bool {
		if _, ok := accepted[enc.Token]; !ok {
			return false
		}
		_, err := fs.Stat(s.fsys, name+enc.Suffix)
		return err == nil
	})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, name string, err error) {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
		http.Error(w, "404 page not found", http.StatusNotFound)
		return
	}

	slog.ErrorContext(r.Context(), "fileserver: failed to read file", "file", name, "error", err)
	http.Error(w, "500 internal server error", http.StatusInternalServerError)
}

// acceptedEncodings parses an Accept-Encoding header, skipping entries with q=0.
func acceptedEncodings(header string) map[string]struct{} {
	entries := lo.FilterMap(strings.Split(header, ","), func(entry string, _ int) (string, bool) {
		token, params, _ := strings.Cut(entry, ";")
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			return "", false
		}

		for param := range strings.SplitSeq(params, ";") {
			key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
			if !ok || strings.TrimSpace(key) != "q" {
				continue
			}
			if q, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil && q <= 0 {
				return "", false
			}
		}

		return token, true
	})

	return lo.SliceToMap(entries, func(token string) (string, struct{}) {
		return token, struct{}{}
	})
}
