package main

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"

	"homestock-backend/controllers"
	"homestock-backend/models"
	"homestock-backend/routes"
	"homestock-backend/services"
	"homestock-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB создает тестовую базу данных в памяти
func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("Failed to connect to test database")
	}
	db.AutoMigrate(&models.User{}, &models.Warehouse{}, &models.UserWarehouse{}, &models.Category{}, &models.Item{}, &models.ItemMedia{})
	return db
}

// setupTestApp создает тестовое приложение со всеми маршрутами
func setupTestApp(db *gorm.DB, uploadDir string) *fiber.App {
	app := fiber.New()

	mediaService := services.NewMediaService(uploadDir)

	routes.SetupAuthRoutes(app, controllers.NewAuthController(db))
	routes.SetupWarehouseRoutes(app, controllers.NewWarehouseController(db))
	routes.SetupCategoryRoutes(app, controllers.NewCategoryController(db))
	routes.SetupItemRoutes(app, controllers.NewItemController(db))
	routes.SetupMediaRoutes(app, controllers.NewMediaController(db, mediaService))
	routes.SetupAdminRoutes(app, controllers.NewAdminController(db))

	return app
}

// createTestUser создает пользователя и возвращает его вместе с токеном
func createTestUser(db *gorm.DB, username, email string, isAdmin bool) (*models.User, string) {
	hash, _ := utils.HashPassword("password123")
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	}
	db.Create(&user)

	token, _ := utils.GenerateJWT(user.ID, user.Username)
	return &user, token
}

// createTestWarehouse создает склад и роль владельца для создателя
func createTestWarehouse(db *gorm.DB, creatorID uint, name string) *models.Warehouse {
	warehouse := models.Warehouse{
		Name:      name,
		CreatorID: creatorID,
	}
	db.Create(&warehouse)

	membership := models.UserWarehouse{
		UserID:      creatorID,
		WarehouseID: warehouse.ID,
		Role:        models.RoleOwner,
	}
	db.Create(&membership)

	return &warehouse
}

// addTestMember добавляет пользователя в склад с указанной ролью
func addTestMember(db *gorm.DB, userID, warehouseID uint, role string) {
	db.Create(&models.UserWarehouse{
		UserID:      userID,
		WarehouseID: warehouseID,
		Role:        role,
	})
}

// jsonRequest создает JSON запрос с авторизацией
func jsonRequest(method, target, token string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// multipartRequest создает multipart запрос с одним файлом.
// MIME тип файла задается явно, как его объявил бы клиент.
func multipartRequest(target, token, fieldName, fileName, mimeType string, content []byte) *http.Request {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="`+fileName+`"`)
	header.Set("Content-Type", mimeType)
	part, _ := writer.CreatePart(header)
	part.Write(content)
	writer.Close()

	req := httptest.NewRequest("POST", target, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// itoa преобразует ID в строку для подстановки в URL
func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// decodeBody разбирает JSON тело ответа в map
func decodeBody(resp *http.Response) map[string]interface{} {
	var body map[string]interface{}
	data, _ := io.ReadAll(resp.Body)
	json.Unmarshal(data, &body)
	return body
}
