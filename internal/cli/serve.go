package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/caksoylar/keymap/pkg/pipeline"
)

// serveCommand creates the serve command for live-previewing a keymap in the
// browser. The document is re-read on every request, so edits show up on
// refresh.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [keymap.toml]",
		Short: "Serve a live preview of the keymap over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, input, addr string) error {
	runner := c.newRunner(true) // serve always renders fresh
	defer runner.Close()

	s := &previewServer{runner: runner, input: input, cli: c}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Get("/keymap.svg", s.handleArtifact(pipeline.FormatSVG, "image/svg+xml"))
	r.Get("/keymap.png", s.handleArtifact(pipeline.FormatPNG, "image/png"))
	r.Get("/keymap.pdf", s.handleArtifact(pipeline.FormatPDF, "application/pdf"))

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	printInfo("Serving %s on http://%s", input, addr)
	printNextStep("Open", "http://"+addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// previewServer renders the watched document on demand.
type previewServer struct {
	runner *pipeline.Runner
	input  string
	cli    *CLI
}

// handleArtifact returns a handler that renders the document in the given
// format. Query parameters: layer restricts to a single layer, scale sets
// the PNG scale factor.
func (s *previewServer) handleArtifact(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := pipeline.Options{
			Input:   s.input,
			Formats: []string{format},
			Layer:   r.URL.Query().Get("layer"),
			Logger:  s.cli.Logger,
		}
		if v := r.URL.Query().Get("scale"); v != "" {
			scale, err := strconv.ParseFloat(v, 64)
			if err != nil {
				http.Error(w, "invalid scale", http.StatusBadRequest)
				return
			}
			opts.Scale = scale
		}

		result, err := s.runner.Execute(r.Context(), opts)
		if err != nil {
			s.cli.Logger.Errorf("Render failed: %v", err)
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(result.Artifacts[format])
	}
}

func (s *previewServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, indexPage, s.input)
}

const indexPage = `<!DOCTYPE html>
<html>
<head>
  <title>keymap preview</title>
  <style>
    body { margin: 2em; font-family: monospace; background: #fff; }
    img { max-width: 100%%; }
  </style>
</head>
<body>
  <p>%s &mdash; refresh to pick up edits</p>
  <img src="/keymap.svg" alt="keymap">
</body>
</html>
`
