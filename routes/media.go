package routes

import (
	"homestock-backend/controllers"
	"homestock-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupMediaRoutes настраивает маршруты для работы с медиафайлами
func SetupMediaRoutes(app *fiber.App, mediaController *controllers.MediaController) {
	// Все маршруты медиа требуют авторизации
	media := app.Group("/media", utils.AuthMiddleware)

	// POST /media/upload/:item_id - загрузить медиафайл предмета
	media.Post("/upload/:item_id", mediaController.UploadMedia)

	// GET /media/item/:item_id - медиафайлы предмета
	media.Get("/item/:item_id", mediaController.GetItemMedia)

	// DELETE /media/:id - удалить медиафайл (только владелец)
	media.Delete("/:id", mediaController.DeleteMedia)
}
