// Package pubhouse is a multi-author blogging platform built with Go, Echo,
// and templ. Users sign up, publish posts with tags and categories, and
// interact through likes and comments; authors get a dashboard.
//
// Sites provide their own templ templates via the ViewFuncs struct, and
// pubhouse handles all the handler logic, middleware, and database
// operations. The views package ships a default set.
package pubhouse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/eringen/pubhouse/blog"
	"github.com/eringen/pubhouse/content"
)

// ViewFuncs holds the templ components the app calls when rendering pages.
// Sites own and customize every template through it.
type ViewFuncs struct {
	Home          func(p HomePage) templ.Component
	Explore       func(p ExplorePage) templ.Component
	Post          func(p PostPage) templ.Component
	PostForm      func(p PostFormPage) templ.Component
	DeleteConfirm func(p DeletePage) templ.Component
	Dashboard     func(p DashboardPage) templ.Component
	SignUp        func(p Page) templ.Component
	Login         func(p Page) templ.Component
	Profile       func(p ProfilePage) templ.Component
	Terms         func(p Page) templ.Component
	Privacy       func(p Page) templ.Component
	NotFound      func(p Page) templ.Component
	ServerError   func(p Page) templ.Component
}

// App is the central pubhouse application. It wires together the store,
// workflows, cache, handlers, middleware, and user-provided templates.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Store    *content.Store
	Blog     *blog.Service
	Cache    *PostCache
	Views    ViewFuncs
	Logger   *slog.Logger
	Registry *prometheus.Registry

	loginLimiter *LoginLimiter
	media        blog.MediaStore
	redis        *redis.Client
	customRoutes []func(*App)
	initialized  bool
}

// New creates a new pubhouse App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	a := &App{
		Config: cfg,
		Echo:   e,
		Views:  views,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.Logger == nil {
		a.Logger = NewLogger(a.Config)
	}
	return a
}

// Init opens the database and wires the workflows, cache, middleware and
// routes. Start calls it when it has not run yet.
func (a *App) Init() error {
	if a.initialized {
		return nil
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("pubhouse: SessionSecret is required")
	}

	store, err := content.Open(a.Config.DatabasePath, a.Logger)
	if err != nil {
		return fmt.Errorf("pubhouse: init store: %w", err)
	}
	a.Store = store

	if a.Config.RedisURL != "" {
		opts, err := redis.ParseURL(a.Config.RedisURL)
		if err != nil {
			return fmt.Errorf("pubhouse: parse redis url: %w", err)
		}
		a.redis = redis.NewClient(opts)
	}

	if a.media == nil {
		a.media = NewDiskMedia(a.Config.MediaDir, "/media")
	}

	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a.Blog = blog.New(store,
		blog.WithMediaStore(a.media),
		blog.WithMetrics(blog.NewMetrics(a.Registry)),
		blog.WithLogger(a.Logger),
	)
	a.Cache = NewPostCache(a.Blog.Explore, a.Config.PostCacheTTL, a.redis, a.Logger)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.initialized = true
	return nil
}

// Start initializes the app if needed and starts the server.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	a.Logger.Info("pubhouse listening", "addr", a.Config.Addr)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.Config.StaticDir)
	e.Static("/media", a.Config.MediaDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: a.Registry}))

	// Public pages
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/explore/", a.handleExplore)
	e.GET("/post/:slug/", a.handlePost)
	e.GET("/terms/", a.handleTerms)
	e.GET("/privacypolicy/", a.handlePrivacy)

	// Accounts
	e.GET("/signup/", a.handleSignUpForm)
	e.POST("/signup/", a.handleSignUp)
	e.GET("/login/", a.handleLoginForm)
	e.POST("/login/", a.handleLogin)
	e.POST("/logout/", a.handleLogout)

	// Logged-in users
	auth := a.requireLogin
	e.GET("/", a.handleHome, auth)
	e.GET("/dashboard/", a.handleDashboard, auth)
	e.GET("/add_post/", a.handleAddPostForm, auth)
	e.POST("/add_post/", a.handleAddPost, auth)
	e.GET("/edit_post/:id/", a.handleEditPostForm, auth)
	e.POST("/edit_post/:id/", a.handleEditPost, auth)
	e.GET("/delete_post/:id/", a.handleDeletePostForm, auth)
	e.POST("/delete_post/:id/", a.handleDeletePost, auth)
	e.POST("/post/:id/like/", a.handleLike, auth)
	e.POST("/post/:id/comment/", a.handleComment, auth)
	e.GET("/edit_profile/", a.handleProfileForm, auth)
	e.POST("/edit_profile/", a.handleProfile, auth)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	var errs []error
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	return errors.Join(errs...)
}
