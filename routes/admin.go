package routes

import (
	"homestock-backend/controllers"
	"homestock-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes настраивает административные маршруты.
// Авторизация проверяется middleware, флаг администратора — контроллером.
func SetupAdminRoutes(app *fiber.App, adminController *controllers.AdminController) {
	admin := app.Group("/admin", utils.AuthMiddleware)

	// GET /admin/users - все пользователи
	admin.Get("/users", adminController.GetAllUsers)

	// GET /admin/warehouses - все склады
	admin.Get("/warehouses", adminController.GetAllWarehouses)

	// GET /admin/users/:id/warehouses - склады пользователя с ролями
	admin.Get("/users/:id/warehouses", adminController.GetUserWarehouses)

	// POST /admin/assign_warehouse - назначить или обновить роль
	admin.Post("/assign_warehouse", adminController.AssignWarehouse)

	// DELETE /admin/remove_warehouse_assignment - удалить членство
	admin.Delete("/remove_warehouse_assignment", adminController.RemoveAssignment)

	// PUT /admin/users/:id/reset-password - сбросить пароль пользователя
	admin.Put("/users/:id/reset-password", adminController.ResetPassword)
}
