package handlers

import (
	"github.com/gofiber/fiber/v2"

	"fpl-go-dashboard/internal/layout"
)

// ShellHandler reads and changes the layout state of a session
type ShellHandler struct {
	composer *layout.Composer
}

func NewShellHandler(composer *layout.Composer) *ShellHandler {
	return &ShellHandler{composer: composer}
}

// Get handles GET /api/v1/shell and returns the whole frame
func (h *ShellHandler) Get(c *fiber.Ctx) error {
	ws := workspace(c)
	return c.JSON(h.composer.Frame(c.Context(), ws.Shell.State()))
}

// Update handles POST /api/v1/shell. "page" navigates; "club" selects a club
// or, sent again, clears it.
func (h *ShellHandler) Update(c *fiber.Ctx) error {
	in, err := readFields(c)
	if err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	ws := workspace(c)

	if s, ok := in.text("page"); ok && s != "" {
		page, err := layout.ParsePage(s)
		if err != nil {
			return badRequest(c, "Invalid page", err)
		}
		ws.Shell.Navigate(page)
	}
	if s, ok := in.text("club"); ok {
		ws.Shell.SelectClub(s)
	}

	state := ws.Shell.State()
	if wantsJSON(c) {
		return c.JSON(state)
	}
	return c.Redirect("/pages/"+string(state.Active), fiber.StatusSeeOther)
}
