package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/urfave/cli/v2"

	"github.com/greengauge/greengauge-go/analysis"
	"github.com/greengauge/greengauge-go/apperror"
	"github.com/greengauge/greengauge-go/auth"
	"github.com/greengauge/greengauge-go/background"
	"github.com/greengauge/greengauge-go/comments"
	"github.com/greengauge/greengauge-go/config"
	"github.com/greengauge/greengauge-go/db"
	_ "github.com/greengauge/greengauge-go/docs"
	"github.com/greengauge/greengauge-go/events"
	"github.com/greengauge/greengauge-go/leaderboard"
	"github.com/greengauge/greengauge-go/ledger"
	"github.com/greengauge/greengauge-go/logging"
	"github.com/greengauge/greengauge-go/media"
	"github.com/greengauge/greengauge-go/places"
	"github.com/greengauge/greengauge-go/posts"
	"github.com/greengauge/greengauge-go/users"
)

const (
	requestTimeout  = 60 * time.Second
	shutdownTimeout = 30 * time.Second
)

// routes are the handler sets mounted by newRouter.
type routes struct {
	auth        *auth.Handlers
	users       *users.UserHandlers
	ledger      *ledger.Handlers
	leaderboard *leaderboard.Handlers
	analysis    *analysis.Handlers
	places      *places.Handlers
	posts       *posts.PostHandlers
	comments    *comments.CommentHandler
	events      *events.Handler
}

// jsonRecoverer turns a handler panic into a JSON 500.
func jsonRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				auth.WriteError(w, r, apperror.NewInternalError("internal server error", fmt.Errorf("panic: %v", rvr)))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func newRouter(cfg *config.AppConfig, h routes) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(jsonRecoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Streams and model calls run longer than the request timeout.
	r.Get("/events", h.events.HandleStream())
	h.analysis.RegisterRoutes(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))

		h.auth.RegisterRoutes(r)
		h.ledger.RegisterRoutes(r)
		h.leaderboard.RegisterRoutes(r)
		h.places.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(auth.JWTMiddleware(cfg.Auth))
			h.users.RegisterRoutes(r)
		})

		r.Route("/api/posts", func(r chi.Router) {
			h.posts.RegisterRoutes(r)
			r.Group(func(r chi.Router) {
				r.Use(auth.JWTMiddleware(cfg.Auth))
				h.posts.RegisterProtectedRoutes(r)
				h.comments.RegisterRoutes(r)
			})
		})
	})

	return r
}

// newHTTPServer leaves WriteTimeout above requestTimeout so a slow handler
// still gets the router's 504 written before the connection is cut.
func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: requestTimeout + 5*time.Second,
		IdleTimeout:  90 * time.Second,
	}
}

func runServe(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.Server.RunMigrations {
		if err := db.RunMigrations(cfg.DB, cfg.Server.MigrationsPath); err != nil {
			return err
		}
	}

	st, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	broadcaster := events.NewBroadcaster()
	defer broadcaster.Close()

	mediaStore, err := media.NewStore(c.Context, cfg.Media)
	if err != nil {
		return err
	}
	if mediaStore == nil {
		logging.Warnf("MEDIA_BACKEND is not set; post image uploads are disabled")
	}
	placesService, err := places.NewService(cfg.Places)
	if err != nil {
		return err
	}

	userService := users.NewUserService(st.pool)
	ledgerStore := ledger.NewSQLStore(st.sql)
	ledgerService := ledger.NewService(ledgerStore, broadcaster)
	aggregator := leaderboard.NewAggregator(userService, ledgerStore)
	snapshots := leaderboard.NewSnapshotRepository(st.gorm)
	commentService := comments.NewCommentService(st.pool)

	job := background.NewSnapshotJob(aggregator, snapshots, broadcaster,
		cfg.Leaderboard.Size, cfg.Leaderboard.SnapshotKeep)
	scheduler, err := background.StartScheduler(job, cfg.Leaderboard.SnapshotInterval)
	if err != nil {
		return err
	}

	analyzer, err := analysis.NewGeminiClient(c.Context, cfg.AI)
	if err != nil {
		return err
	}
	if cfg.AI.APIKey == "" {
		logging.Warnf("GEMINI_API_KEY is not set; product analysis is disabled")
	}

	handler := newRouter(cfg, routes{
		auth:        auth.NewHandlers(auth.NewAuthService(st.pool, *cfg.Auth)),
		users:       users.NewUserHandlers(userService),
		ledger:      ledger.NewHandlers(ledgerService),
		leaderboard: leaderboard.NewHandlers(aggregator, snapshots, cfg.Leaderboard.Size),
		analysis:    analysis.NewHandlers(analyzer, cfg.Server.UploadMaxBytes, cfg.AI.Timeout+15*time.Second),
		places:      places.NewHandlers(placesService),
		posts:       posts.NewPostHandlers(posts.NewPostService(st.pool, commentService, mediaStore), cfg.Server.UploadMaxBytes),
		comments:    comments.NewCommentHandler(commentService),
		events:      events.NewHandler(broadcaster),
	})

	addr := ":" + cfg.Server.Port
	srv := newHTTPServer(addr, handler)

	serveErr := make(chan error, 1)
	go func() {
		logging.Infof("server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		_ = scheduler.Shutdown()
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logging.Infof("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := scheduler.Shutdown(); err != nil {
		logging.Warnf("scheduler shutdown: %v", err)
	}
	// Closing the broadcaster ends open event streams so Shutdown can finish.
	broadcaster.Close()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logging.Infof("server stopped gracefully")
	return nil
}
