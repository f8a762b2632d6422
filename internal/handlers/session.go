package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"

	"fpl-go-dashboard/internal/pages"
)

const (
	sessionCookie = "fpl_session"
	workspaceKey  = "workspace"
)

// Sessions maps browser sessions to dashboard workspaces
type Sessions struct {
	store    *session.Store
	registry *pages.Registry
}

func NewSessions(registry *pages.Registry, ttl time.Duration, secure bool) *Sessions {
	store := session.New(session.Config{
		Expiration:     ttl,
		KeyLookup:      "cookie:" + sessionCookie,
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: "Lax",
		KeyGenerator:   uuid.NewString,
	})
	return &Sessions{store: store, registry: registry}
}

// Middleware resolves the session's workspace and stores it in Locals. The
// session is saved on every request, so cookie, session and workspace all
// expire after the same idle time.
func (s *Sessions) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := s.store.Get(c)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "session unavailable: "+err.Error())
		}
		// Save hands the session back to its pool, so read the ID first
		id := sess.ID()
		if sess.Fresh() {
			sess.Set("created", time.Now().Unix())
		}
		sess.Set("seen", time.Now().Unix())
		if err := sess.Save(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "session unavailable: "+err.Error())
		}
		c.Locals(workspaceKey, s.registry.Get(id))
		return c.Next()
	}
}

// workspace returns the workspace set by Sessions.Middleware
func workspace(c *fiber.Ctx) *pages.Workspace {
	ws, _ := c.Locals(workspaceKey).(*pages.Workspace)
	return ws
}
