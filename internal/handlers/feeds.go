package handlers

import (
	"github.com/gofiber/fiber/v2"

	"fpl-go-dashboard/internal/services"
)

// FeedHandler exposes the sidebar feeds with their provenance
type FeedHandler struct {
	feeds *services.FeedService
}

func NewFeedHandler(feeds *services.FeedService) *FeedHandler {
	return &FeedHandler{feeds: feeds}
}

// News handles GET /api/v1/feeds/news
func (h *FeedHandler) News(c *fiber.Ctx) error {
	return c.JSON(h.feeds.News(c.Context()))
}

// Fixtures handles GET /api/v1/feeds/fixtures
func (h *FeedHandler) Fixtures(c *fiber.Ctx) error {
	return c.JSON(h.feeds.Fixtures(c.Context()))
}

// Table handles GET /api/v1/feeds/table
func (h *FeedHandler) Table(c *fiber.Ctx) error {
	return c.JSON(h.feeds.Table(c.Context()))
}
