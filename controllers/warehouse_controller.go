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

// WarehouseController контроллер для работы со складами
type WarehouseController struct {
	DB     *gorm.DB
	Access *services.AccessService
}

// NewWarehouseController создает новый экземпляр WarehouseController
func NewWarehouseController(db *gorm.DB) *WarehouseController {
	return &WarehouseController{DB: db, Access: services.NewAccessService(db)}
}

// CreateWarehouseRequest структура запроса создания склада
type CreateWarehouseRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

// InviteRequest структура запроса приглашения пользователя
type InviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// WarehouseWithRole склад вместе с ролью текущего пользователя
type WarehouseWithRole struct {
	models.Warehouse
	Role string `json:"role"`
}

// WarehouseResponse структура ответа со складом
type WarehouseResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    *models.Warehouse `json:"data,omitempty"`
}

// WarehousesResponse структура ответа со списком складов
type WarehousesResponse struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Data    []WarehouseWithRole `json:"data"`
}

// MembersResponse структура ответа со списком участников склада
type MembersResponse struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	Data    []models.UserWarehouse `json:"data"`
}

// MembershipResponse структура ответа с членством
type MembershipResponse struct {
	Status  string                `json:"status"`
	Message string                `json:"message"`
	Data    *models.UserWarehouse `json:"data,omitempty"`
}

// CreateWarehouse создает новый склад, создатель становится владельцем
func (wc *WarehouseController) CreateWarehouse(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var req CreateWarehouseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(WarehouseResponse{
			Status:  "error",
			Message: "Неверный формат данных",
		})
	}

	// Валидация
	if strings.TrimSpace(req.Name) == "" {
		return c.Status(400).JSON(WarehouseResponse{
			Status:  "error",
			Message: "Название склада обязательно",
		})
	}

	warehouse := models.Warehouse{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		CreatorID:   userID,
	}

	// Склад и роль владельца создаются в одной транзакции: склад без
	// владельца существовать не должен
	err := wc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&warehouse).Error; err != nil {
			return err
		}
		membership := models.UserWarehouse{
			UserID:      userID,
			WarehouseID: warehouse.ID,
			Role:        models.RoleOwner,
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		return c.Status(500).JSON(WarehouseResponse{
			Status:  "error",
			Message: "Ошибка при создании склада",
		})
	}

	// Загружаем склад с создателем
	wc.DB.Preload("Creator").First(&warehouse, warehouse.ID)

	return c.Status(201).JSON(WarehouseResponse{
		Status:  "success",
		Message: "Склад успешно создан",
		Data:    &warehouse,
	})
}

// GetWarehouses возвращает склады текущего пользователя с его ролями
func (wc *WarehouseController) GetWarehouses(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var memberships []models.UserWarehouse
	err := wc.DB.Preload("Warehouse").Preload("Warehouse.Creator").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&memberships).Error
	if err != nil {
		return c.Status(500).JSON(WarehousesResponse{
			Status:  "error",
			Message: "Ошибка при получении списка складов",
		})
	}

	warehouses := make([]WarehouseWithRole, 0, len(memberships))
	for _, m := range memberships {
		warehouses = append(warehouses, WarehouseWithRole{
			Warehouse: m.Warehouse,
			Role:      m.Role,
		})
	}

	return c.JSON(WarehousesResponse{
		Status:  "success",
		Message: "Список складов получен",
		Data:    warehouses,
	})
}

// GetWarehouse возвращает склад по ID, доступен только участникам
func (wc *WarehouseController) GetWarehouse(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(WarehouseResponse{
			Status:  "error",
			Message: "Неверный ID склада",
		})
	}

	// Проверяем членство
	if _, err := wc.Access.RequireMembership(userID, uint(id)); err != nil {
		return respondAccessError(c, err, "Нет доступа к этому складу")
	}

	var warehouse models.Warehouse
	if err := wc.DB.Preload("Creator").First(&warehouse, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(WarehouseResponse{
				Status:  "error",
				Message: "Склад не найден",
			})
		}
		return c.Status(500).JSON(WarehouseResponse{
			Status:  "error",
			Message: "Ошибка при получении склада",
		})
	}

	return c.JSON(WarehouseResponse{
		Status:  "success",
		Message: "Склад получен",
		Data:    &warehouse,
	})
}

// GetMembers возвращает список участников склада
func (wc *WarehouseController) GetMembers(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(MembersResponse{
			Status:  "error",
			Message: "Неверный ID склада",
		})
	}

	// Проверяем членство
	if _, err := wc.Access.RequireMembership(userID, uint(id)); err != nil {
		return respondAccessError(c, err, "Нет доступа к этому складу")
	}

	var members []models.UserWarehouse
	err = wc.DB.Preload("User").
		Where("warehouse_id = ?", uint(id)).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return c.Status(500).JSON(MembersResponse{
			Status:  "error",
			Message: "Ошибка при получении участников",
		})
	}

	return c.JSON(MembersResponse{
		Status:  "success",
		Message: "Список участников получен",
		Data:    members,
	})
}

// InviteUser приглашает пользователя в склад по email.
// Приглашать могут только владельцы, приглашенный становится участником.
func (wc *WarehouseController) InviteUser(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(MembershipResponse{
			Status:  "error",
			Message: "Неверный ID склада",
		})
	}
	warehouseID := uint(id)

	var req InviteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(MembershipResponse{
			Status:  "error",
			Message: "Неверный формат данных",
		})
	}

	if req.Email == "" {
		return c.Status(400).JSON(MembershipResponse{
			Status:  "error",
			Message: "Email приглашаемого обязателен",
		})
	}

	// Только владелец может приглашать
	if err := wc.Access.RequireOwner(userID, warehouseID); err != nil {
		return respondAccessError(c, err, "Приглашать пользователей может только владелец склада")
	}

	// Ищем приглашаемого по email
	var invitee models.User
	if err := wc.DB.Where("email = ?", strings.ToLower(req.Email)).First(&invitee).Error; err != nil {
		return c.Status(404).JSON(MembershipResponse{
			Status:  "error",
			Message: "Пользователь с таким email не найден",
		})
	}

	// Проверяем, не состоит ли пользователь уже в складе
	role, err := wc.Access.RoleOf(invitee.ID, warehouseID)
	if err != nil {
		return c.Status(500).JSON(MembershipResponse{
			Status:  "error",
			Message: "Ошибка при проверке членства",
		})
	}
	if role != "" {
		return c.Status(409).JSON(MembershipResponse{
			Status:  "error",
			Message: "Пользователь уже состоит в этом складе",
		})
	}

	membership := models.UserWarehouse{
		UserID:      invitee.ID,
		WarehouseID: warehouseID,
		Role:        models.RoleMember,
	}
	if err := wc.DB.Create(&membership).Error; err != nil {
		return c.Status(500).JSON(MembershipResponse{
			Status:  "error",
			Message: "Ошибка при добавлении пользователя",
		})
	}

	wc.DB.Preload("User").First(&membership, membership.ID)

	return c.Status(201).JSON(MembershipResponse{
		Status:  "success",
		Message: "Пользователь приглашен в склад",
		Data:    &membership,
	})
}
