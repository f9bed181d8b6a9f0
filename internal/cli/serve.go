package cli

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/styx-api/styxgraph/pkg/buildinfo"
	"github.com/styx-api/styxgraph/pkg/cache"
	"github.com/styx-api/styxgraph/pkg/errors"
	"github.com/styx-api/styxgraph/pkg/graph"
	"github.com/styx-api/styxgraph/pkg/pipeline"
)

const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command, which records a pipeline once and
// serves its diagram over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		opts runnerOptions
		addr string
	)

	cmd := &cobra.Command{
		Use:   "serve <pipeline.toml>",
		Short: "Serve the dependency diagram of a pipeline over HTTP",
		Long: `Serve records a pipeline once (dry by default) and serves the result:

  /diagram.mmd   Mermaid source
  /graph.dot     Graphviz DOT
  /graph.svg     rendered SVG
  /graph.json    node-link JSON
  /healthz       liveness check`,
		Example: `  styxgraph serve pipeline.toml
  styxgraph serve pipeline.toml --addr :9000 -s LR`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pipeline.Load(args[0])
			if err != nil {
				return err
			}
			r, err := c.newRunner(opts)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if _, err := pipeline.Run(ctx, r, p, c.Logger); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				printWarning("Pipeline failed, serving partial graph: %s", errors.UserMessage(err))
			}

			rc := c.newCache(ctx, opts.cacheOptions)
			defer rc.Close()

			srv := &http.Server{
				Addr:              addr,
				Handler:           newRouter(r, rc, c.Logger),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return serve(ctx, srv, c.Logger)
		},
	}

	opts.addFlags(cmd, true)
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")

	return cmd
}

// serve runs srv until ctx is canceled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, logger *log.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		printKeyValue("Listening", "http://"+srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

// routes maps each served path to its render format.
var routes = map[string]string{
	"/diagram.mmd": pipeline.FormatMermaid,
	"/graph.dot":   pipeline.FormatDOT,
	"/graph.svg":   pipeline.FormatSVG,
	"/graph.json":  pipeline.FormatJSON,
}

// newRouter serves the diagram of r in every format.
func newRouter(r *graph.Runner, rc cache.Cache, logger *log.Logger) http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)
	mux.Use(requestLogger(logger))
	mux.Use(middleware.SetHeader("Server", buildinfo.UserAgent()))

	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/diagram.mmd", http.StatusFound)
	})
	for path, format := range routes {
		mux.Get(path, renderHandler(r, rc, format, logger))
	}

	return mux
}

func renderHandler(src pipeline.Source, rc cache.Cache, format string, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		data, err := pipeline.RenderCached(req.Context(), rc, src, format)
		if err != nil {
			requestLog(req.Context(), logger).Error("render failed", "format", format, "err", err)
			http.Error(w, errors.UserMessage(err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", pipeline.ContentTypes[format])
		_, _ = w.Write(data)
	}
}

// requestLogger attaches a request-scoped logger and logs each request at debug level.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			l := logger.With("request_id", middleware.GetReqID(req.Context()))
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, req.WithContext(contextWithLogger(req.Context(), l)))

			l.Debug("request", "method", req.Method, "path", req.URL.Path,
				"status", ww.Status(), "duration", time.Since(start).Round(time.Microsecond))
		})
	}
}
