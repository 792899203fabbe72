package routes

import (
	"homestock-backend/controllers"
	"homestock-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes настраивает маршруты для аутентификации
func SetupAuthRoutes(app *fiber.App, authController *controllers.AuthController) {
	// Группа маршрутов для аутентификации
	auth := app.Group("/auth")

	// POST /auth/register - регистрация пользователя
	auth.Post("/register", authController.Register)

	// POST /auth/login - вход пользователя
	auth.Post("/login", authController.Login)

	// GET /auth/me - информация о текущем пользователе
	auth.Get("/me", utils.AuthMiddleware, authController.Me)
}
