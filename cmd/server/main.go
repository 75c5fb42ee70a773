package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Kamrul101/donate-red-server/internal/http/health"
	"github.com/Kamrul101/donate-red-server/internal/http/v1/routes"
	"github.com/Kamrul101/donate-red-server/internal/platform/badgerdb"
	"github.com/Kamrul101/donate-red-server/internal/platform/config"
	"github.com/Kamrul101/donate-red-server/internal/platform/firebase"
	applog "github.com/Kamrul101/donate-red-server/internal/platform/logging"
	appmiddleware "github.com/Kamrul101/donate-red-server/internal/platform/middleware"
	"github.com/Kamrul101/donate-red-server/internal/platform/respond"
	donorsvc "github.com/Kamrul101/donate-red-server/internal/service/donor"
	notifysvc "github.com/Kamrul101/donate-red-server/internal/service/notify"
	requestsvc "github.com/Kamrul101/donate-red-server/internal/service/request"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

const (
	docsPath        = "/api-docs"
	shutdownTimeout = 10 * time.Second
)

func main() {
	ctx := context.Background()
	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(ctx, "logger sync error", err)
		}
	}()
	if err := applog.Err(); err != nil {
		applog.LogError(ctx, "logger init error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		applog.LogFatal(ctx, "load config", err)
	}
	if !applog.SetLevel(cfg.Log.Level) {
		applog.LogWarn(ctx, "unknown log level, keeping default", zap.String("level", cfg.Log.Level))
	}

	b, err := openBackend(ctx, cfg)
	if err != nil {
		applog.LogFatal(ctx, "open store", err, zap.String("backend", cfg.Store.Backend))
	}

	srv := newServer(cfg.Server.Addr(), newRouter(b.services, cfg.Server.Origins()))
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		applog.LogError(ctx, "listen failed", err, zap.String("addr", srv.Addr))
		_ = b.close()
		os.Exit(1)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	runErr := serve(srv, ln, stop)
	if runErr != nil {
		applog.LogError(ctx, "server error", runErr)
	}

	if b.announcer != nil {
		b.announcer.Wait()
	}
	if err := b.close(); err != nil {
		applog.LogError(ctx, "store close error", err)
	}
	applog.LogInfo(ctx, "server exited")
	if runErr != nil {
		os.Exit(1)
	}
}

// backend is the wired store for one configured backend.
type backend struct {
	services  routes.Services
	announcer *notifysvc.RequestAnnouncer
	close     func() error
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	var (
		services routes.Services
		sender   notifysvc.Sender
		closeFn  func() error
	)

	switch cfg.Store.Backend {
	case config.BackendBadger:
		db, err := badgerdb.Open(badgerdb.Options{
			Path:     cfg.Store.BadgerPath,
			InMemory: cfg.Store.BadgerPath == "",
		})
		if err != nil {
			return nil, fmt.Errorf("open badger: %w", err)
		}
		services.Donors = donorsvc.NewBadgerStore(db)
		services.Requests = requestsvc.NewBadgerStore(db)
		services.Subscriptions = notifysvc.NewBadgerStore(db)
		sender = notifysvc.LogSender{}
		closeFn = db.Close
	case config.BackendFirestore:
		clients, err := firebase.InitializeClients(ctx, firebase.Config{
			ProjectID:                    cfg.Firebase.ProjectID,
			GoogleApplicationCredentials: cfg.Firebase.Credentials,
		})
		if err != nil {
			return nil, err
		}
		services.Donors = donorsvc.NewFirestoreStore(clients.Firestore)
		services.Requests = requestsvc.NewFirestoreStore(clients.Firestore)
		services.Subscriptions = notifysvc.NewFirestoreStore(clients.Firestore)
		sender = notifysvc.NewFCMSender(clients.Messaging)
		closeFn = clients.Close
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	services.Dispatcher = notifysvc.NewDispatcher(services.Subscriptions, sender)
	b := &backend{services: services, close: closeFn}
	if cfg.Notify.OnRequest {
		b.announcer = notifysvc.NewRequestAnnouncer(services.Dispatcher)
		b.services.Announcer = b.announcer
	}
	return b, nil
}

func newRouter(services routes.Services, origins []string) http.Handler {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	router.Use(
		appmiddleware.Security(docsPath),
		appmiddleware.Vary(),
		appmiddleware.CORS(origins...),
		appmiddleware.RequestID(),
		// Trust X-Forwarded-For only behind a proxy that sets it.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20), // 1 MB
		applog.RequestLogger(),
		applog.AccessLogger(),
		respond.Recoverer(),
	)

	router.Get("/", health.Liveness)
	router.Get("/health", health.Handler)

	cfg := huma.DefaultConfig("Donate Red API", Version)
	cfg.DocsPath = docsPath
	api := humachi.New(router, cfg)
	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation, addCBORContent)

	routes.Register(api, services)
	return router
}

// addCBORContent advertises application/cbor wherever JSON is accepted or
// returned.
func addCBORContent(_ *huma.OpenAPI, op *huma.Operation) {
	if op.RequestBody != nil && op.RequestBody.Content != nil {
		if jsonContent, ok := op.RequestBody.Content["application/json"]; ok {
			op.RequestBody.Content["application/cbor"] = jsonContent
		}
	}
	for _, resp := range op.Responses {
		if resp.Content == nil {
			continue
		}
		if jsonContent, ok := resp.Content["application/json"]; ok {
			resp.Content["application/cbor"] = jsonContent
		}
	}
}

func newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10, // 64 KB
	}
}

// serve runs srv on ln until stop fires or the listener fails, then shuts
// the server down gracefully.
func serve(srv *http.Server, ln net.Listener, stop <-chan os.Signal) error {
	ctx := context.Background()
	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(ctx, "server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("serve: %w", err)
	case <-stop:
		applog.LogInfo(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
