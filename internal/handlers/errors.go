package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"fpl-go-dashboard/internal/models"
	"fpl-go-dashboard/internal/pages"
)

// CustomErrorHandler handles Fiber errors
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Error:   "Request failed",
		Message: err.Error(),
		Code:    code,
	})
}

// badRequest answers a rejected API body
func badRequest(c *fiber.Ctx, title string, err error) error {
	return errorJSON(c, fiber.StatusBadRequest, title, err)
}

func errorJSON(c *fiber.Ctx, status int, title string, err error) error {
	return c.Status(status).JSON(models.ErrorResponse{
		Error:   title,
		Message: err.Error(),
		Code:    status,
	})
}

// actionStatus maps a refused page action to a status code and title
func actionStatus(err error) (int, string) {
	if errors.Is(err, pages.ErrNoSquad) || errors.Is(err, pages.ErrSquadLoading) {
		return fiber.StatusConflict, "Squad not loaded"
	}
	return fiber.StatusBadRequest, "Invalid input"
}
