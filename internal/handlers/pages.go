package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"fpl-go-dashboard/internal/layout"
	"fpl-go-dashboard/internal/logging"
	"fpl-go-dashboard/internal/models"
	"fpl-go-dashboard/internal/pages"
)

type PageHandler struct {
	composer *layout.Composer
	renderer *Renderer
	timeout  time.Duration
	log      *logrus.Entry
}

func NewPageHandler(composer *layout.Composer, renderer *Renderer, timeout time.Duration) *PageHandler {
	return &PageHandler{
		composer: composer,
		renderer: renderer,
		timeout:  timeout,
		log:      logging.WithComponent("pages"),
	}
}

// pageResponse is the JSON form of a page
type pageResponse struct {
	Page    layout.Page   `json:"page"`
	Variant pages.Variant `json:"variant"`
	View    any           `json:"view"`
}

func (h *PageHandler) context(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Context())
	}
	return context.WithTimeout(c.Context(), h.timeout)
}

func pageParam(c *fiber.Ctx) (layout.Page, error) {
	raw := c.Params("page")
	if raw == "" {
		return layout.PageHome, nil
	}
	page, err := layout.ParsePage(raw)
	if err != nil {
		return "", fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return page, nil
}

func wantsJSON(c *fiber.Ctx) bool {
	return c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON
}

// respond answers an action with the page's JSON view, or redirects a form
// post back to the page
func (h *PageHandler) respond(c *fiber.Ctx, ws *pages.Workspace, page layout.Page) error {
	ws.Shell.Navigate(page)
	if wantsJSON(c) {
		return c.JSON(pageResponse{Page: page, Variant: ws.Variant, View: ws.View(page)})
	}
	return c.Redirect("/pages/"+string(page), fiber.StatusSeeOther)
}

// reject answers an invalid action. API clients get a JSON error; browsers
// get the page back with the message shown above it.
func (h *PageHandler) reject(c *fiber.Ctx, page layout.Page, status int, title string, cause error) error {
	if wantsJSON(c) {
		return errorJSON(c, status, title, cause)
	}
	ws := workspace(c)
	ws.Shell.Navigate(page)

	ctx, cancel := h.context(c)
	defer cancel()
	frame := h.composer.Frame(ctx, ws.Shell.State())

	html, err := h.renderer.Page(page, ws.Variant, frame, ws.View(page), title+": "+cause.Error())
	if err != nil {
		h.log.WithError(err).WithField("page", page).Error("Failed to render page")
		return errorJSON(c, status, title, cause)
	}
	c.Status(status).Type("html", "utf-8")
	return c.Send(html)
}

// refuse rejects a page action with the status its error maps to
func (h *PageHandler) refuse(c *fiber.Ctx, page layout.Page, err error) error {
	status, title := actionStatus(err)
	return h.reject(c, page, status, title, err)
}

// Render handles GET / and GET /pages/:page
func (h *PageHandler) Render(c *fiber.Ctx) error {
	page, err := pageParam(c)
	if err != nil {
		return err
	}
	ws := workspace(c)

	ctx, cancel := h.context(c)
	defer cancel()

	view := ws.Open(ctx, page)
	frame := h.composer.Frame(ctx, ws.Shell.State())

	html, err := h.renderer.Page(page, ws.Variant, frame, view, "")
	if err != nil {
		h.log.WithError(err).WithField("page", page).Error("Failed to render page")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render page")
	}
	c.Type("html", "utf-8")
	return c.Send(html)
}

// View handles GET /api/v1/pages/:page
func (h *PageHandler) View(c *fiber.Ctx) error {
	page, err := pageParam(c)
	if err != nil {
		return err
	}
	ws := workspace(c)

	ctx, cancel := h.context(c)
	defer cancel()

	return c.JSON(pageResponse{Page: page, Variant: ws.Variant, View: ws.Open(ctx, page)})
}

// Picks handles POST /pages/picks. Nothing is applied unless every field is
// valid, and only a change of filters refetches.
func (h *PageHandler) Picks(c *fiber.Ctx) error {
	in, err := readFields(c)
	if err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	ws := workspace(c)
	reject := func(title string, err error) error {
		return h.reject(c, layout.PagePicks, fiber.StatusBadRequest, title, err)
	}

	var sortKey pages.SortKey
	s, sortSet := in.text("sort")
	if sortSet {
		if sortKey, err = pages.ParseSortKey(s); err != nil {
			return reject("Invalid sort", err)
		}
	}

	filters := ws.Picks.Filters()
	if s, ok := in.text("position"); ok {
		if filters.Position, err = models.ParsePosition(s); err != nil {
			return reject("Invalid filters", err)
		}
	}
	if v, ok, err := in.float("max_price"); err != nil {
		return reject("Invalid filters", err)
	} else if ok {
		filters.MaxPrice = v
	}
	if v, ok, err := in.flag("only_available"); err != nil {
		return reject("Invalid filters", err)
	} else if ok {
		filters.OnlyAvailable = v
	}
	if v, ok, err := in.integer("limit"); err != nil {
		return reject("Invalid filters", err)
	} else if ok {
		filters.Limit = v
	}
	if err := filters.Validate(); err != nil {
		return reject("Invalid filters", err)
	}

	if sortSet {
		ws.Picks.SetSort(sortKey)
	}
	if filters != ws.Picks.Filters() || !ws.Picks.Started() {
		ctx, cancel := h.context(c)
		defer cancel()
		if err := ws.Picks.Load(ctx, filters); err != nil {
			return reject("Invalid filters", err)
		}
	}
	return h.respond(c, ws, layout.PagePicks)
}

// Optimal handles POST /pages/optimal
func (h *PageHandler) Optimal(c *fiber.Ctx) error {
	in, err := readFields(c)
	if err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	budget, ok, err := in.float("budget")
	if err != nil {
		return h.reject(c, layout.PageOptimal, fiber.StatusBadRequest, "Invalid budget", err)
	}
	if !ok {
		budget = pages.DefaultBudget.InexactFloat64()
	}
	ws := workspace(c)

	ctx, cancel := h.context(c)
	defer cancel()
	if err := ws.Optimal.Generate(ctx, budget); err != nil {
		return h.reject(c, layout.PageOptimal, fiber.StatusBadRequest, "Invalid budget", err)
	}
	return h.respond(c, ws, layout.PageOptimal)
}

// LoadSquad handles POST /pages/transfers/squad
func (h *PageHandler) LoadSquad(c *fiber.Ctx) error {
	in, err := readFields(c)
	if err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	teamID, _ := in.text("team_id")
	ws := workspace(c)

	ctx, cancel := h.context(c)
	defer cancel()
	if err := ws.Transfers.LoadSquad(ctx, teamID); err != nil {
		return h.reject(c, layout.PageTransfers, fiber.StatusBadRequest, "Invalid team ID", err)
	}
	return h.respond(c, ws, layout.PageTransfers)
}

// TransferSettings handles POST /pages/transfers/settings
func (h *PageHandler) TransferSettings(c *fiber.Ctx) error {
	in, err := readFields(c)
	if err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	ws := workspace(c)

	settings := ws.Transfers.Settings()
	if v, ok, err := in.integer("free_transfers"); err != nil {
		return h.reject(c, layout.PageTransfers, fiber.StatusBadRequest, "Invalid settings", err)
	} else if ok {
		settings.FreeTransfers = v
	}
	if v, ok, err := in.integer("hit_cost"); err != nil {
		return h.reject(c, layout.PageTransfers, fiber.StatusBadRequest, "Invalid settings", err)
	} else if ok {
		settings.HitCost = v
	}
	if err := ws.Transfers.SetSettings(settings); err != nil {
		return h.reject(c, layout.PageTransfers, fiber.StatusBadRequest, "Invalid settings", err)
	}
	return h.respond(c, ws, layout.PageTransfers)
}

// ToggleLock handles POST /pages/transfers/lock/:id
func (h *PageHandler) ToggleLock(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "player id must be a number")
	}
	ws := workspace(c)
	if _, err := ws.Transfers.ToggleLock(id); err != nil {
		return h.refuse(c, layout.PageTransfers, err)
	}
	return h.respond(c, ws, layout.PageTransfers)
}

// OptimizeTransfers handles POST /pages/transfers/optimize
func (h *PageHandler) OptimizeTransfers(c *fiber.Ctx) error {
	ws := workspace(c)

	ctx, cancel := h.context(c)
	defer cancel()
	if err := ws.Transfers.Optimize(ctx); err != nil {
		return h.refuse(c, layout.PageTransfers, err)
	}
	return h.respond(c, ws, layout.PageTransfers)
}

// Retry handles POST /pages/:page/retry by repeating the page's last load
func (h *PageHandler) Retry(c *fiber.Ctx) error {
	page, err := pageParam(c)
	if err != nil {
		return err
	}
	ws := workspace(c)

	ctx, cancel := h.context(c)
	defer cancel()

	switch page {
	case layout.PageHome:
		ws.Hub.Retry(ctx)
	case layout.PagePicks:
		ws.Picks.Retry(ctx)
	case layout.PageOptimal:
		ws.Optimal.Retry(ctx)
	case layout.PageInsights:
		ws.Insights.Retry(ctx)
	case layout.PageTransfers:
		if err := ws.Transfers.Retry(ctx); err != nil {
			return h.refuse(c, page, err)
		}
	}
	return h.respond(c, ws, page)
}
