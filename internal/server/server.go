// Package server hosts the browser frontend and relays search requests to
// the configured backend.
package server

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/shurcooL/httpgzip"
	"golang.org/x/net/context/ctxhttp"

	"searchbar/internal/search"
)

//go:generate env GOOS=js GOARCH=wasm go build -o assets/main.wasm ../../cmd/searchbar-wasm

//go:embed assets
var embedded embed.FS

// Files the page needs to start the widget
var wasmFiles = []string{"/wasm_exec.js", "/main.wasm"}

// Assets returns the embedded frontend. When dir is not empty, its files are
// served in preference to the embedded ones.
func Assets(dir string) http.FileSystem {
	sub, err := fs.Sub(embedded, "assets")
	if err != nil {
		panic(err) // embedded path is fixed at build time
	}
	if dir == "" {
		return http.FS(sub)
	}
	return overlay{http.Dir(dir), http.FS(sub)}
}

// overlay opens a name from the first file system that has it
type overlay []http.FileSystem

func (o overlay) Open(name string) (http.File, error) {
	var err error
	for _, fsys := range o {
		var f http.File
		f, err = fsys.Open(name)
		if err == nil || !os.IsNotExist(err) {
			return f, err
		}
	}
	return nil, err
}

// CheckAssets reports an error when assets lack a file the page loads
func CheckAssets(assets http.FileSystem) error {
	for _, name := range append([]string{"/index.html"}, wasmFiles...) {
		f, err := assets.Open(name)
		if err != nil {
			return fmt.Errorf("frontend asset %s: %w", name, err)
		}
		f.Close()
	}
	return nil
}

// Server serves static assets and relays POST /api/search
type Server struct {
	files    http.Handler
	upstream *url.URL
	client   *http.Client
}

// New creates a server. upstream is the base URL of the search backend;
// "api/search" is resolved against it.
func New(assets http.FileSystem, upstream string, client *http.Client) (*Server, error) {
	u, err := url.Parse(upstream)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream %q: %w", upstream, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid upstream %q: scheme must be http or https", upstream)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Server{
		files: httpgzip.FileServer(assets, httpgzip.FileServerOptions{
			IndexHTML:  true,
			ServeError: serveError,
		}),
		upstream: u.ResolveReference(&url.URL{Path: search.Path}),
		client:   client,
	}, nil
}

func serveError(w http.ResponseWriter, req *http.Request, err error) {
	if os.IsNotExist(err) {
		http.Error(w, fmt.Sprintf("Error 404 %s not found", req.URL.Path), http.StatusNotFound)
		return
	}
	httpgzip.NonSpecific(w, req, err)
}

// ServeHTTP routes a request
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	switch {
	case req.Method == http.MethodPost && req.URL.Path == "/"+search.Path:
		s.relay(w, req)
	case req.Method == http.MethodGet:
		s.files.ServeHTTP(w, req)
	case req.Method == http.MethodHead || req.Method == http.MethodPost:
		// Other POST paths are answered like a GET of the same file.
		get := req.Clone(req.Context())
		get.Method = http.MethodGet
		s.files.ServeHTTP(w, get)
	default:
		http.Error(w, fmt.Sprintf("Unsupported Method %s", req.Method), http.StatusMethodNotAllowed)
	}
}

// relay forwards the raw query to the upstream and copies its answer back
// unchanged, status included
func (s *Server) relay(w http.ResponseWriter, req *http.Request) {
	query, err := io.ReadAll(req.Body)
	if err != nil {
		log.Printf("Failed to read search request: %v", err)
		http.Error(w, "Error 500 internal error", http.StatusInternalServerError)
		return
	}

	out, err := http.NewRequest(http.MethodPost, s.upstream.String(), bytes.NewReader(query))
	if err != nil {
		http.Error(w, "Error 500 internal error", http.StatusInternalServerError)
		return
	}

	resp, err := ctxhttp.Do(req.Context(), s.client, out)
	if err != nil {
		log.Printf("Upstream search failed: %v", err)
		http.Error(w, "Error 502 upstream unavailable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		log.Printf("Failed to copy upstream response: %v", err)
	}
}

// ListenAndServe runs the server on addr until ctx is done
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	log.Printf("Server started on %s", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
