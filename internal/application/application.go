package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/eugenenazirov/navigator-gateway/internal/api"
	"github.com/eugenenazirov/navigator-gateway/internal/config"
	"github.com/eugenenazirov/navigator-gateway/internal/metrics"
	"github.com/eugenenazirov/navigator-gateway/internal/redirects"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	table   *redirects.Table
	metrics *metrics.Metrics
	handler *api.Handler
	router  http.Handler
	logger  *zap.Logger
	server  *http.Server
}

// New initializes the application with all dependencies from the provided
// configuration. A redirect resource that cannot be loaded is returned as a
// *redirects.ConfigurationError and the application must not start.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	table, err := redirects.Build(cfg.Theme, cfg.RedirectFile, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build redirect table: %w", err)
	}

	m := metrics.New()
	m.SetRules(table.Len())

	origin, err := newOriginHandler(cfg.StaticDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open static directory: %w", err)
	}

	handler := api.NewHandler(table)
	rootHandler := BuildRootHandler(RootOptions{
		API:             api.NewRouter(handler),
		Metrics:         m,
		Origin:          origin,
		PrefixRedirects: cfg.PrefixRedirects,
		Logger:          logger,
	})

	gateway := api.NewGateway(table, rootHandler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		api.WithMetrics(m),
	)

	return &App{
		table:   table,
		metrics: m,
		handler: handler,
		router:  gateway,
		logger:  logger,
		server:  NewServer(cfg, gateway),
	}, nil
}

// RootOptions lists the handlers mounted on the root router.
type RootOptions struct {
	API             http.Handler
	Metrics         *metrics.Metrics
	Origin          http.Handler
	PrefixRedirects []redirects.Rule
	Logger          *zap.Logger
}

// BuildRootHandler constructs the root router: prefix redirects first, then
// the API and metrics endpoints, with everything else sent to the origin.
func BuildRootHandler(opts RootOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := mux.NewRouter()

	for _, rule := range opts.PrefixRedirects {
		logger.Info("adding prefix redirect",
			zap.String("prefix", rule.Source),
			zap.String("destination", rule.Destination),
		)
		r.PathPrefix(rule.Source).Handler(prefixRedirectHandler(rule, opts.Metrics, logger))
	}

	if opts.API != nil {
		r.PathPrefix("/api/").Handler(opts.API)
	}
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler()).Methods(http.MethodGet)
	}

	origin := opts.Origin
	if origin == nil {
		origin = http.NotFoundHandler()
	}
	r.PathPrefix("/").Handler(origin)

	return r
}

func prefixRedirectHandler(rule redirects.Rule, m *metrics.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		logger.Info("prefix redirect matched",
			zap.String("path", req.URL.Path),
			zap.String("prefix", rule.Source),
			zap.String("destination", rule.Destination),
		)
		m.ObservePrefixRedirect(rule.Source)
		http.Redirect(w, req, rule.Destination, rule.StatusCode())
	}
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening",
			zap.String("addr", a.server.Addr),
			zap.String("theme", string(a.table.Theme())),
			zap.Int("redirect_rules", a.table.Len()),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Handler returns the fully wrapped root handler.
func (a *App) Handler() http.Handler {
	return a.router
}
