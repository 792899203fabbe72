package controllers

import (
	"errors"

	"homestock-backend/services"

	"github.com/gofiber/fiber/v2"
)

// respondAccessError преобразует ошибки медиатора доступа в HTTP ответ.
// Отказ в доступе всегда возвращается как 403, а не скрывается.
func respondAccessError(c *fiber.Ctx, err error, forbiddenMessage string) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(403).JSON(fiber.Map{
			"status":  "error",
			"message": forbiddenMessage,
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(404).JSON(fiber.Map{
			"status":  "error",
			"message": "Ресурс не найден",
		})
	default:
		return c.Status(500).JSON(fiber.Map{
			"status":  "error",
			"message": "Внутренняя ошибка сервера",
		})
	}
}
