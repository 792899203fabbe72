package routes

import (
	"homestock-backend/controllers"
	"homestock-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupItemRoutes настраивает маршруты для работы с предметами
func SetupItemRoutes(app *fiber.App, itemController *controllers.ItemController) {
	// Все маршруты предметов требуют авторизации
	items := app.Group("/items", utils.AuthMiddleware)

	// POST /items - создать предмет
	items.Post("/", itemController.CreateItem)

	// GET /items/search - поиск по всем доступным складам
	items.Get("/search", itemController.SearchItems)

	// GET /items/warehouse/:warehouse_id - активные предметы склада
	items.Get("/warehouse/:warehouse_id", itemController.GetItemsByWarehouse)

	// GET /items/warehouse/:warehouse_id/deleted - удаленные предметы склада
	items.Get("/warehouse/:warehouse_id/deleted", itemController.GetDeletedItemsByWarehouse)

	// POST /items/restore/:id - восстановить предмет (только владелец)
	items.Post("/restore/:id", itemController.RestoreItem)

	// GET /items/:id - получить предмет (?include_deleted=true для удаленных)
	items.Get("/:id", itemController.GetItem)

	// PUT /items/:id - обновить предмет
	items.Put("/:id", itemController.UpdateItem)

	// DELETE /items/:id - мягко удалить предмет (только владелец)
	items.Delete("/:id", itemController.DeleteItem)
}
