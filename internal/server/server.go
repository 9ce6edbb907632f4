// Package server wires the stores, services and handlers into a gin engine
// and runs it.
package server

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"goalgrid/internal/auth"
	"goalgrid/internal/config"
	"goalgrid/internal/handlers"
	"goalgrid/internal/middleware"
	"goalgrid/internal/store"
	"goalgrid/internal/suggest"
	"goalgrid/internal/tasks"
	"goalgrid/internal/web"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

type Options struct {
	SessionKey string
	SessionTTL time.Duration
	CookieName string
	Secure     bool
	BcryptCost int
	Logger     *log.Logger
	// Now and Random default to the wall clock and a random seed.
	Now    func() time.Time
	Random rand.Source
}

func OptionsFrom(cfg *config.Config, logger *log.Logger) Options {
	return Options{
		SessionKey: cfg.SessionKey,
		SessionTTL: cfg.SessionTTL,
		CookieName: cfg.SessionCookie,
		Secure:     cfg.CookieSecure,
		BcryptCost: cfg.BcryptCost,
		Logger:     logger,
	}
}

// New builds the router on top of an open store.
func New(st *store.Store, opts Options) (*gin.Engine, error) {
	if opts.SessionKey == "" {
		return nil, errors.New("session key is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CookieName == "" {
		opts.CookieName = "goalgrid_session"
	}

	users := store.NewUserStore(st, opts.BcryptCost)
	sessions := auth.NewSessions(users, opts.SessionKey, opts.SessionTTL).WithClock(opts.Now)
	taskService := tasks.NewService(store.NewTaskStore(st, opts.Now), suggest.New(opts.Random))
	cookie := middleware.SessionCookie{Name: opts.CookieName, Secure: opts.Secure, MaxAge: sessions.TTL()}

	h := handlers.New(users, sessions, taskService, cookie, opts.Logger).WithClock(opts.Now)

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(opts.Logger), gin.Recovery())
	router.SetHTMLTemplate(tmpl)

	router.GET("/status", h.Status)
	router.GET("/login", h.LoginPage)
	router.POST("/login", h.Login)
	router.GET("/signup", h.SignupPage)
	router.POST("/signup", h.Signup)
	router.GET("/forgot-password", h.ForgotPasswordPage)
	router.POST("/forgot-password", h.ForgotPassword)

	protected := router.Group("")
	protected.Use(middleware.Auth(sessions, cookie, opts.Logger))
	protected.GET("/", h.Board)
	protected.POST("/", h.CreateTask)
	protected.POST("/toggle/:id", h.ToggleTask)
	protected.GET("/delete/:id", h.DeleteTask)
	protected.GET("/profile", h.Profile)
	protected.POST("/profile", h.UpdateProfile)
	protected.GET("/logout", h.Logout)

	return router, nil
}

// Run opens the database named by cfg and serves until ctx is cancelled,
// then drains in-flight requests.
func Run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	st, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer st.Close()

	router, err := New(st, OptionsFrom(cfg, logger))
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "driver", st.Driver())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
