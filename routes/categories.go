package routes

import (
	"homestock-backend/controllers"
	"homestock-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupCategoryRoutes настраивает маршруты для работы с категориями
func SetupCategoryRoutes(app *fiber.App, categoryController *controllers.CategoryController) {
	// Все маршруты категорий требуют авторизации
	categories := app.Group("/categories", utils.AuthMiddleware)

	// POST /categories - создать категорию
	categories.Post("/", categoryController.CreateCategory)

	// GET /categories/warehouse/:warehouse_id - категории склада
	categories.Get("/warehouse/:warehouse_id", categoryController.GetCategories)

	// DELETE /categories/:id - удалить категорию (только владелец)
	categories.Delete("/:id", categoryController.DeleteCategory)
}
