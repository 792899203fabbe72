package controllers

import (
	"errors"
	"strconv"
	"strings"

	"homestock-backend/models"
	"homestock-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CategoryController контроллер для работы с категориями
type CategoryController struct {
	DB     *gorm.DB
	Access *services.AccessService
}

// NewCategoryController создает новый экземпляр CategoryController
func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{DB: db, Access: services.NewAccessService(db)}
}

// CreateCategoryRequest структура запроса создания категории
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	WarehouseID uint   `json:"warehouse_id" validate:"required"`
}

// CategoryResponse структура ответа с категорией
type CategoryResponse struct {
	Status  string           `json:"status"`
	Message string           `json:"message"`
	Data    *models.Category `json:"data,omitempty"`
}

// CategoriesResponse структура ответа со списком категорий
type CategoriesResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    []models.Category `json:"data"`
}

// CreateCategory создает категорию в складе.
// Имя категории уникально в пределах склада, сравнение с учетом регистра.
func (cc *CategoryController) CreateCategory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var req CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(CategoryResponse{
			Status:  "error",
			Message: "Неверный формат данных",
		})
	}

	// Валидация
	name := strings.TrimSpace(req.Name)
	if name == "" || req.WarehouseID == 0 {
		return c.Status(400).JSON(CategoryResponse{
			Status:  "error",
			Message: "Название категории и ID склада обязательны",
		})
	}

	// Создавать категории могут участники и владельцы
	if _, err := cc.Access.RequireMembership(userID, req.WarehouseID); err != nil {
		return respondAccessError(c, err, "Нет доступа к этому складу")
	}

	// Проверяем уникальность имени внутри склада
	var existing models.Category
	err := cc.DB.Where("name = ? AND warehouse_id = ?", name, req.WarehouseID).
		First(&existing).Error
	if err == nil {
		return c.Status(409).JSON(CategoryResponse{
			Status:  "error",
			Message: "Категория с таким именем уже существует в этом складе",
		})
	}

	category := models.Category{
		Name:        name,
		WarehouseID: req.WarehouseID,
	}
	if err := cc.DB.Create(&category).Error; err != nil {
		return c.Status(500).JSON(CategoryResponse{
			Status:  "error",
			Message: "Ошибка при создании категории",
		})
	}

	return c.Status(201).JSON(CategoryResponse{
		Status:  "success",
		Message: "Категория успешно создана",
		Data:    &category,
	})
}

// GetCategories возвращает категории склада
func (cc *CategoryController) GetCategories(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	id, err := strconv.ParseUint(c.Params("warehouse_id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(CategoriesResponse{
			Status:  "error",
			Message: "Неверный ID склада",
		})
	}

	// Проверяем членство
	if _, err := cc.Access.RequireMembership(userID, uint(id)); err != nil {
		return respondAccessError(c, err, "Нет доступа к этому складу")
	}

	var categories []models.Category
	err = cc.DB.Where("warehouse_id = ?", uint(id)).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return c.Status(500).JSON(CategoriesResponse{
			Status:  "error",
			Message: "Ошибка при получении категорий",
		})
	}

	return c.JSON(CategoriesResponse{
		Status:  "success",
		Message: "Категории получены",
		Data:    categories,
	})
}

// DeleteCategory удаляет категорию. Удалять могут только владельцы,
// категория с активными предметами не удаляется.
func (cc *CategoryController) DeleteCategory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(CategoryResponse{
			Status:  "error",
			Message: "Неверный ID категории",
		})
	}

	var category models.Category
	if err := cc.DB.First(&category, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(CategoryResponse{
				Status:  "error",
				Message: "Категория не найдена",
			})
		}
		return c.Status(500).JSON(CategoryResponse{
			Status:  "error",
			Message: "Ошибка при получении категории",
		})
	}

	// Только владелец может удалять категории
	if err := cc.Access.RequireOwner(userID, category.WarehouseID); err != nil {
		return respondAccessError(c, err, "Удалять категории может только владелец склада")
	}

	// Категория используется активными предметами — удалять нельзя
	var inUse int64
	err = cc.DB.Model(&models.Item{}).
		Where("category_id = ? AND deleted_at IS NULL", category.ID).
		Count(&inUse).Error
	if err != nil {
		return c.Status(500).JSON(CategoryResponse{
			Status:  "error",
			Message: "Ошибка при проверке категории",
		})
	}
	if inUse > 0 {
		return c.Status(409).JSON(CategoryResponse{
			Status:  "error",
			Message: "Категория используется активными предметами и не может быть удалена",
		})
	}

	if err := cc.DB.Delete(&category).Error; err != nil {
		return c.Status(500).JSON(CategoryResponse{
			Status:  "error",
			Message: "Ошибка при удалении категории",
		})
	}

	return c.JSON(CategoryResponse{
		Status:  "success",
		Message: "Категория успешно удалена",
	})
}
