package controllers

import (
	"strconv"
	"strings"
	"time"

	"homestock-backend/models"
	"homestock-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ItemController контроллер для работы с предметами
type ItemController struct {
	DB     *gorm.DB
	Access *services.AccessService
}

// NewItemController создает новый экземпляр ItemController
func NewItemController(db *gorm.DB) *ItemController {
	return &ItemController{DB: db, Access: services.NewAccessService(db)}
}

// CreateItemRequest структура запроса создания предмета
type CreateItemRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Location    string `json:"location" validate:"max=255"`
	Quantity    int    `json:"quantity" validate:"min=0"`
	WarehouseID uint   `json:"warehouse_id" validate:"required"`
	CategoryID  *uint  `json:"category_id"`
}

// UpdateItemRequest структура запроса обновления предмета.
// Поля-указатели: nil означает «не менять», для категории значение 0
// снимает категорию с предмета.
type UpdateItemRequest struct {
	Name       *string `json:"name"`
	Location   *string `json:"location"`
	Quantity   *int    `json:"quantity"`
	CategoryID *uint   `json:"category_id"`
}

// ItemResponse структура ответа с предметом
type ItemResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Data    *models.Item `json:"data,omitempty"`
}

// ItemsResponse структура ответа со списком предметов
type ItemsResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Data    []models.Item `json:"data"`
}

// CreateItem создает предмет в складе
func (ic *ItemController) CreateItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var req CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(ItemResponse{
			Status:  "error",
			Message: "Неверный формат данных",
		})
	}

	// Валидация
	if strings.TrimSpace(req.Name) == "" || req.WarehouseID == 0 {
		return c.Status(400).JSON(ItemResponse{
			Status:  "error",
			Message: "Название предмета и ID склада обязательны",
		})
	}
	if req.Quantity < 0 {
		return c.Status(400).JSON(ItemResponse{
			Status:  "error",
			Message: "Количество не может быть отрицательным",
		})
	}

	// Создавать предметы могут участники и владельцы
	if _, err := ic.Access.RequireMembership(userID, req.WarehouseID); err != nil {
		return respondAccessError(c, err, "Нет доступа к этому складу")
	}

	// Категория должна принадлежать тому же складу
	if req.CategoryID != nil {
		if err := ic.validateCategory(*req.CategoryID, req.WarehouseID); err != nil {
			return c.Status(400).JSON(ItemResponse{
				Status:  "error",
				Message: err.Error(),
			})
		}
	}

	item := models.Item{
		Name:        strings.TrimSpace(req.Name),
		Location:    strings.TrimSpace(req.Location),
		Quantity:    req.Quantity,
		WarehouseID: req.WarehouseID,
		CategoryID:  req.CategoryID,
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}

	if err := ic.DB.Create(&item).Error; err != nil {
		return c.Status(500).JSON(ItemResponse{
			Status:  "error",
			Message: "Ошибка при создании предмета",
		})
	}

	ic.DB.Preload("Category").First(&item, item.ID)

	return c.Status(201).JSON(ItemResponse{
		Status:  "success",
		Message: "Предмет успешно создан",
		Data:    &item,
	})
}

// GetItem возвращает предмет по ID. Параметр include_deleted позволяет
// получить мягко удаленный предмет.
func (ic *ItemController) GetItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(ItemResponse{
			Status:  "error",
			Message: "Неверный ID предмета",
		})
	}

	includeDeleted := c.Query("include_deleted") == "true"

	item, err := ic.Access.WarehouseOfItem(uint(id), includeDeleted)
	if err != nil {
		return respondAccessError(c, err, "Нет доступа к этому предмету")
	}

	// Проверяем членство в складе предмета
	if _, err := ic.Access.RequireMembership(userID, item.WarehouseID); err != nil {
		return respondAccessError(c, err, "Нет доступа к складу этого предмета")
	}

	ic.DB.Preload("Category").Preload("Media").First(item, item.ID)

	return c.JSON(ItemResponse{
		Status:  "success",
		Message: "Предмет получен",
		Data:    item,
	})
}

// GetItemsByWarehouse возвращает активные предметы склада
func (ic *ItemController) GetItemsByWarehouse(c *fiber.Ctx) error {
	return ic.listItems(c, false)
}

// GetDeletedItemsByWarehouse возвращает мягко удаленные предметы склада
func (ic *ItemController) GetDeletedItemsByWarehouse(c *fiber.Ctx) error {
	return ic.listItems(c, true)
}

// listItems общий код списков предметов. Активные и удаленные предметы
// никогда не смешиваются в одном списке.
func (ic *ItemController) listItems(c *fiber.Ctx, deleted bool) error {
	userID := c.Locals("user_id").(uint)

	id, err := strconv.ParseUint(c.Params("warehouse_id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(ItemsResponse{
			Status:  "error",
			Message: "Неверный ID склада",
		})
	}

	// Проверяем членство
	if _, err := ic.Access.RequireMembership(userID, uint(id)); err != nil {
		return respondAccessError(c, err, "Нет доступа к этому складу")
	}

	query := ic.DB.Preload("Category").Preload("Media").
		Where("warehouse_id = ?", uint(id))
	if deleted {
		query = query.Where("deleted_at IS NOT NULL")
	} else {
		query = query.Where("deleted_at IS NULL")
	}

	var items []models.Item
	if err := query.Order("name ASC").Find(&items).Error; err != nil {
		return c.Status(500).JSON(ItemsResponse{
			Status:  "error",
			Message: "Ошибка при получении предметов",
		})
	}

	return c.JSON(ItemsResponse{
		Status:  "success",
		Message: "Предметы получены",
		Data:    items,
	})
}

// SearchItems ищет активные предметы по всем складам пользователя.
// Совпадение — подстрока без учета регистра в названии, местоположении
// или имени категории.
func (ic *ItemController) SearchItems(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	query := c.Query("query")
	if strings.TrimSpace(query) == "" {
		return c.Status(400).JSON(ItemsResponse{
			Status:  "error",
			Message: "Поисковый запрос обязателен",
		})
	}

	// Поиск не отказывает в доступе, а ограничивается доступными складами
	warehouseIDs, err := ic.Access.AccessibleWarehouseIDs(userID)
	if err != nil {
		return c.Status(500).JSON(ItemsResponse{
			Status:  "error",
			Message: "Ошибка при поиске предметов",
		})
	}
	if len(warehouseIDs) == 0 {
		return c.JSON(ItemsResponse{
			Status:  "success",
			Message: "Предметы найдены",
			Data:    []models.Item{},
		})
	}

	var items []models.Item
	err = ic.DB.Preload("Category").
		Where("warehouse_id IN ?", warehouseIDs).
		Where("deleted_at IS NULL").
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return c.Status(500).JSON(ItemsResponse{
			Status:  "error",
			Message: "Ошибка при поиске предметов",
		})
	}

	// Регистр сворачиваем на стороне Go: LOWER в sqlite понимает
	// только ASCII, а поведение не должно зависеть от драйвера
	needle := strings.ToLower(strings.TrimSpace(query))
	matched := make([]models.Item, 0, len(items))
	for i := range items {
		if itemMatchesQuery(&items[i], needle) {
			matched = append(matched, items[i])
		}
	}

	return c.JSON(ItemsResponse{
		Status:  "success",
		Message: "Предметы найдены",
		Data:    matched,
	})
}

// itemMatchesQuery проверяет совпадение подстроки без учета регистра
// в названии, местоположении или имени категории предмета
func itemMatchesQuery(item *models.Item, needle string) bool {
	if strings.Contains(strings.ToLower(item.Name), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(item.Location), needle) {
		return true
	}
	if item.Category != nil && strings.Contains(strings.ToLower(item.Category.Name), needle) {
		return true
	}
	return false
}

// UpdateItem обновляет предмет. Доступно участникам и владельцам.
func (ic *ItemController) UpdateItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(ItemResponse{
			Status:  "error",
			Message: "Неверный ID предмета",
		})
	}

	item, err := ic.Access.WarehouseOfItem(uint(id), false)
	if err != nil {
		return respondAccessError(c, err, "Нет доступа к этому предмету")
	}

	// Обновлять предметы могут участники и владельцы
	if _, err := ic.Access.RequireMembership(userID, item.WarehouseID); err != nil {
		return respondAccessError(c, err, "Нет доступа к складу этого предмета")
	}

	var req UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(ItemResponse{
			Status:  "error",
			Message: "Неверный формат данных",
		})
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return c.Status(400).JSON(ItemResponse{
				Status:  "error",
				Message: "Название предмета не может быть пустым",
			})
		}
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.Location != nil {
		item.Location = strings.TrimSpace(*req.Location)
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return c.Status(400).JSON(ItemResponse{
				Status:  "error",
				Message: "Количество не может быть отрицательным",
			})
		}
		item.Quantity = *req.Quantity
	}
	if req.CategoryID != nil {
		if *req.CategoryID == 0 {
			item.CategoryID = nil
		} else {
			// Новая категория должна принадлежать тому же складу
			if err := ic.validateCategory(*req.CategoryID, item.WarehouseID); err != nil {
				return c.Status(400).JSON(ItemResponse{
					Status:  "error",
					Message: err.Error(),
				})
			}
			item.CategoryID = req.CategoryID
		}
	}

	if err := ic.DB.Save(item).Error; err != nil {
		return c.Status(500).JSON(ItemResponse{
			Status:  "error",
			Message: "Ошибка при обновлении предмета",
		})
	}

	ic.DB.Preload("Category").First(item, item.ID)

	return c.JSON(ItemResponse{
		Status:  "success",
		Message: "Предмет успешно обновлен",
		Data:    item,
	})
}

// DeleteItem мягко удаляет предмет: ставит отметку времени удаления.
// Удалять могут только владельцы склада.
func (ic *ItemController) DeleteItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(ItemResponse{
			Status:  "error",
			Message: "Неверный ID предмета",
		})
	}

	item, err := ic.Access.WarehouseOfItem(uint(id), false)
	if err != nil {
		return respondAccessError(c, err, "Нет доступа к этому предмету")
	}

	// Только владелец может удалять предметы
	if err := ic.Access.RequireOwner(userID, item.WarehouseID); err != nil {
		return respondAccessError(c, err, "Удалять предметы может только владелец склада")
	}

	now := time.Now()
	item.DeletedAt = &now
	if err := ic.DB.Save(item).Error; err != nil {
		return c.Status(500).JSON(ItemResponse{
			Status:  "error",
			Message: "Ошибка при удалении предмета",
		})
	}

	return c.JSON(ItemResponse{
		Status:  "success",
		Message: "Предмет успешно удален",
	})
}

// RestoreItem восстанавливает мягко удаленный предмет.
// Повторное восстановление активного предмета не считается ошибкой.
func (ic *ItemController) RestoreItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(ItemResponse{
			Status:  "error",
			Message: "Неверный ID предмета",
		})
	}

	// Предмет ищем вместе с удаленными, иначе восстанавливать нечего
	item, err := ic.Access.WarehouseOfItem(uint(id), true)
	if err != nil {
		return respondAccessError(c, err, "Нет доступа к этому предмету")
	}

	// Только владелец может восстанавливать предметы
	if err := ic.Access.RequireOwner(userID, item.WarehouseID); err != nil {
		return respondAccessError(c, err, "Восстанавливать предметы может только владелец склада")
	}

	item.DeletedAt = nil
	if err := ic.DB.Save(item).Error; err != nil {
		return c.Status(500).JSON(ItemResponse{
			Status:  "error",
			Message: "Ошибка при восстановлении предмета",
		})
	}

	ic.DB.Preload("Category").First(item, item.ID)

	return c.JSON(ItemResponse{
		Status:  "success",
		Message: "Предмет успешно восстановлен",
		Data:    item,
	})
}

// validateCategory проверяет, что категория существует и принадлежит складу
func (ic *ItemController) validateCategory(categoryID, warehouseID uint) error {
	var category models.Category
	if err := ic.DB.First(&category, categoryID).Error; err != nil {
		return fiber.NewError(400, "Категория не найдена")
	}
	if category.WarehouseID != warehouseID {
		return fiber.NewError(400, "Категория принадлежит другому складу")
	}
	return nil
}
