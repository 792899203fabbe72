package routes

import (
	"homestock-backend/controllers"
	"homestock-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupWarehouseRoutes настраивает маршруты для работы со складами
func SetupWarehouseRoutes(app *fiber.App, warehouseController *controllers.WarehouseController) {
	// Все маршруты складов требуют авторизации
	warehouses := app.Group("/warehouses", utils.AuthMiddleware)

	// POST /warehouses - создать склад
	warehouses.Post("/", warehouseController.CreateWarehouse)

	// GET /warehouses - склады текущего пользователя с ролями
	warehouses.Get("/", warehouseController.GetWarehouses)

	// GET /warehouses/:id - получить склад
	warehouses.Get("/:id", warehouseController.GetWarehouse)

	// GET /warehouses/:id/members - участники склада
	warehouses.Get("/:id/members", warehouseController.GetMembers)

	// POST /warehouses/:id/invite - пригласить пользователя по email
	warehouses.Post("/:id/invite", warehouseController.InviteUser)
}
