package handler

import "github.com/gofiber/fiber/v2"

// Health handles GET /health.
func Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}
