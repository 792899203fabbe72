package main

import (
	"log"
	"os"
	"time"

	"homestock-backend/controllers"
	"homestock-backend/models"
	"homestock-backend/routes"
	"homestock-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
)

func main() {
	// Загружаем .env, если он есть. Все настройки читаются один раз
	// при старте процесса
	godotenv.Load()

	// Инициализация базы данных
	db, err := models.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Автомиграция
	db.AutoMigrate(&models.User{}, &models.Warehouse{}, &models.UserWarehouse{}, &models.Category{}, &models.Item{}, &models.ItemMedia{})

	// Каталог загрузок
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		log.Fatal("Failed to create upload directory:", err)
	}

	// Создание Fiber приложения
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New())

	// CORS настройки
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000,http://127.0.0.1:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Раздача загруженных медиафайлов
	app.Static("/uploads", uploadDir)

	// Инициализация сервисов и контроллеров
	mediaService := services.NewMediaService(uploadDir)

	authController := controllers.NewAuthController(db)
	warehouseController := controllers.NewWarehouseController(db)
	categoryController := controllers.NewCategoryController(db)
	itemController := controllers.NewItemController(db)
	mediaController := controllers.NewMediaController(db, mediaService)
	adminController := controllers.NewAdminController(db)

	// Настройка маршрутов
	routes.SetupAuthRoutes(app, authController)
	routes.SetupWarehouseRoutes(app, warehouseController)
	routes.SetupCategoryRoutes(app, categoryController)
	routes.SetupItemRoutes(app, itemController)
	routes.SetupMediaRoutes(app, mediaController)
	routes.SetupAdminRoutes(app, adminController)

	// Общий health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"message":   "HomeStock Backend is running",
			"timestamp": time.Now().Unix(),
		})
	})

	// Запуск сервера
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	log.Fatal(app.Listen(":" + port))
}
