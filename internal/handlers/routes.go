package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
)

// Routes is every handler the dashboard serves
type Routes struct {
	Health   *HealthHandler
	Pages    *PageHandler
	Feeds    *FeedHandler
	Shell    *ShellHandler
	Sessions *Sessions
	Metrics  http.Handler
}

// Register mounts the routes on app
func (r *Routes) Register(app *fiber.App) {
	app.Use("/static", filesystem.New(filesystem.Config{
		Root:   http.FS(StaticFS()),
		MaxAge: 3600,
	}))

	app.Get("/health", r.Health.Health)
	app.Get("/health/ready", r.Health.Ready)
	if r.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(r.Metrics))
	}

	session := r.Sessions.Middleware()

	// Server-rendered pages and their form actions
	app.Get("/", session, r.Pages.Render)
	web := app.Group("/pages", session)
	web.Get("/:page", r.Pages.Render)
	web.Post("/picks", r.Pages.Picks)
	web.Post("/optimal", r.Pages.Optimal)
	web.Post("/transfers/squad", r.Pages.LoadSquad)
	web.Post("/transfers/settings", r.Pages.TransferSettings)
	web.Post("/transfers/lock/:id", r.Pages.ToggleLock)
	web.Post("/transfers/optimize", r.Pages.OptimizeTransfers)
	web.Post("/:page/retry", r.Pages.Retry)

	// API v1 routes
	v1 := app.Group("/api/v1")
	v1.Get("/feeds/news", r.Feeds.News)
	v1.Get("/feeds/fixtures", r.Feeds.Fixtures)
	v1.Get("/feeds/table", r.Feeds.Table)
	v1.Get("/pages/:page", session, r.Pages.View)
	v1.Get("/shell", session, r.Shell.Get)
	v1.Post("/shell", session, r.Shell.Update)
}
