package server

import (
	"context"
	"io/fs"
	"net/http"
	"regexp"

	"github.com/soar/ps3arcade/internal/hub"
	"github.com/soar/ps3arcade/internal/logger"
	"github.com/soar/ps3arcade/internal/metrics"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"
)

type Options struct {
	Addr        string
	Hub         *hub.Hub
	Broadcaster *hub.Broadcaster
	State       StateSource
	Identity    hub.Identity
	FrontendFS  fs.FS
	// Metrics is served on /metrics when set.
	Metrics *metrics.Panel
	Log     *logger.Logger
}

type Server struct {
	opts       Options
	log        *logger.Logger
	httpServer *http.Server
}

func New(opts Options) *Server {
	s := &Server{
		opts: opts,
		log:  opts.Log.Component("http"),
	}
	s.httpServer = &http.Server{
		Addr:    opts.Addr,
		Handler: s.Handler(),
	}
	return s
}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)
	m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
	return m
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", handleWebSocket(s.opts.Hub, s.opts.Broadcaster, s.log))
	mux.HandleFunc("/api/state", handleState(s.opts.State, s.opts.Identity, s.log))

	if s.opts.Metrics != nil {
		mux.Handle("/metrics", s.opts.Metrics.Handler())
	}

	// Static files (frontend), minified on the way out
	if s.opts.FrontendFS != nil {
		fileServer := http.FileServer(http.FS(s.opts.FrontendFS))
		mux.Handle("/", newMinifier().Middleware(fileServer))
	}

	return mux
}

func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.opts.Addr).Bool("metrics", s.opts.Metrics != nil).Msg("HTTP server listening")
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
