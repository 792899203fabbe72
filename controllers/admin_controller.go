package controllers

import (
	"errors"
	"strconv"

	"homestock-backend/models"
	"homestock-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Пароль, устанавливаемый при административном сбросе
const defaultResetPassword = "123456"

// AdminController контроллер административных операций.
// Все операции требуют глобального флага администратора,
// роли внутри складов здесь не учитываются.
type AdminController struct {
	DB *gorm.DB
}

// NewAdminController создает новый экземпляр AdminController
func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// AssignWarehouseRequest структура запроса назначения склада пользователю
type AssignWarehouseRequest struct {
	UserID      uint   `json:"user_id" validate:"required"`
	WarehouseID uint   `json:"warehouse_id" validate:"required"`
	Role        string `json:"role" validate:"required,oneof=owner member"`
}

// UsersResponse структура ответа со списком пользователей
type UsersResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Data    []models.User `json:"data"`
}

// AdminWarehousesResponse структура ответа со списком всех складов
type AdminWarehousesResponse struct {
	Status  string             `json:"status"`
	Message string             `json:"message"`
	Data    []models.Warehouse `json:"data"`
}

// AdminMessageResponse структура ответа без данных
type AdminMessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// requireAdmin проверяет глобальный флаг администратора текущего пользователя
func (ac *AdminController) requireAdmin(c *fiber.Ctx) (*models.User, error) {
	userID := c.Locals("user_id").(uint)

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		return nil, fiber.NewError(401, "Пользователь не найден")
	}
	if !user.IsAdmin {
		return nil, fiber.NewError(403, "Операция доступна только администратору")
	}
	return &user, nil
}

// GetAllUsers возвращает всех пользователей системы
func (ac *AdminController) GetAllUsers(c *fiber.Ctx) error {
	if _, err := ac.requireAdmin(c); err != nil {
		return respondAdminError(c, err)
	}

	var users []models.User
	if err := ac.DB.Order("id ASC").Find(&users).Error; err != nil {
		return c.Status(500).JSON(UsersResponse{
			Status:  "error",
			Message: "Ошибка при получении пользователей",
		})
	}

	return c.JSON(UsersResponse{
		Status:  "success",
		Message: "Список пользователей получен",
		Data:    users,
	})
}

// GetAllWarehouses возвращает все склады системы
func (ac *AdminController) GetAllWarehouses(c *fiber.Ctx) error {
	if _, err := ac.requireAdmin(c); err != nil {
		return respondAdminError(c, err)
	}

	var warehouses []models.Warehouse
	if err := ac.DB.Preload("Creator").Order("id ASC").Find(&warehouses).Error; err != nil {
		return c.Status(500).JSON(AdminWarehousesResponse{
			Status:  "error",
			Message: "Ошибка при получении складов",
		})
	}

	return c.JSON(AdminWarehousesResponse{
		Status:  "success",
		Message: "Список складов получен",
		Data:    warehouses,
	})
}

// GetUserWarehouses возвращает склады указанного пользователя с его ролями
func (ac *AdminController) GetUserWarehouses(c *fiber.Ctx) error {
	if _, err := ac.requireAdmin(c); err != nil {
		return respondAdminError(c, err)
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(AdminMessageResponse{
			Status:  "error",
			Message: "Неверный ID пользователя",
		})
	}

	var memberships []models.UserWarehouse
	err = ac.DB.Preload("Warehouse").Preload("Warehouse.Creator").
		Where("user_id = ?", uint(id)).
		Order("created_at ASC").
		Find(&memberships).Error
	if err != nil {
		return c.Status(500).JSON(AdminMessageResponse{
			Status:  "error",
			Message: "Ошибка при получении складов пользователя",
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Склады пользователя получены",
		"data":    memberships,
	})
}

// AssignWarehouse назначает пользователю роль в складе.
// Существующее членство обновляется, отсутствующее создается.
func (ac *AdminController) AssignWarehouse(c *fiber.Ctx) error {
	if _, err := ac.requireAdmin(c); err != nil {
		return respondAdminError(c, err)
	}

	var req AssignWarehouseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(MembershipResponse{
			Status:  "error",
			Message: "Неверный формат данных",
		})
	}

	if req.UserID == 0 || req.WarehouseID == 0 || !models.IsValidRole(req.Role) {
		return c.Status(400).JSON(MembershipResponse{
			Status:  "error",
			Message: "Требуются ID пользователя, ID склада и роль owner или member",
		})
	}

	// Пользователь и склад должны существовать
	var user models.User
	if err := ac.DB.First(&user, req.UserID).Error; err != nil {
		return c.Status(404).JSON(MembershipResponse{
			Status:  "error",
			Message: "Пользователь не найден",
		})
	}
	var warehouse models.Warehouse
	if err := ac.DB.First(&warehouse, req.WarehouseID).Error; err != nil {
		return c.Status(404).JSON(MembershipResponse{
			Status:  "error",
			Message: "Склад не найден",
		})
	}

	var membership models.UserWarehouse
	err := ac.DB.Where("user_id = ? AND warehouse_id = ?", req.UserID, req.WarehouseID).
		First(&membership).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(500).JSON(MembershipResponse{
				Status:  "error",
				Message: "Ошибка при проверке членства",
			})
		}
		// Членства нет — создаем новое
		membership = models.UserWarehouse{
			UserID:      req.UserID,
			WarehouseID: req.WarehouseID,
			Role:        req.Role,
		}
		if err := ac.DB.Create(&membership).Error; err != nil {
			return c.Status(500).JSON(MembershipResponse{
				Status:  "error",
				Message: "Ошибка при назначении склада",
			})
		}
		return c.Status(201).JSON(MembershipResponse{
			Status:  "success",
			Message: "Пользователь назначен в склад",
			Data:    &membership,
		})
	}

	// Членство есть — обновляем роль
	membership.Role = req.Role
	if err := ac.DB.Save(&membership).Error; err != nil {
		return c.Status(500).JSON(MembershipResponse{
			Status:  "error",
			Message: "Ошибка при обновлении роли",
		})
	}

	return c.JSON(MembershipResponse{
		Status:  "success",
		Message: "Роль пользователя обновлена",
		Data:    &membership,
	})
}

// RemoveAssignment удаляет членство пользователя в складе.
// После удаления все операции пользователя с этим складом запрещены.
func (ac *AdminController) RemoveAssignment(c *fiber.Ctx) error {
	if _, err := ac.requireAdmin(c); err != nil {
		return respondAdminError(c, err)
	}

	userID, err1 := strconv.ParseUint(c.Query("user_id"), 10, 32)
	warehouseID, err2 := strconv.ParseUint(c.Query("warehouse_id"), 10, 32)
	if err1 != nil || err2 != nil {
		return c.Status(400).JSON(AdminMessageResponse{
			Status:  "error",
			Message: "Требуются параметры user_id и warehouse_id",
		})
	}

	result := ac.DB.Where("user_id = ? AND warehouse_id = ?", uint(userID), uint(warehouseID)).
		Delete(&models.UserWarehouse{})
	if result.Error != nil {
		return c.Status(500).JSON(AdminMessageResponse{
			Status:  "error",
			Message: "Ошибка при удалении членства",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(AdminMessageResponse{
			Status:  "error",
			Message: "Членство не найдено",
		})
	}

	return c.JSON(AdminMessageResponse{
		Status:  "success",
		Message: "Пользователь удален из склада",
	})
}

// ResetPassword сбрасывает пароль пользователя на значение по умолчанию.
// Старый пароль не проверяется.
func (ac *AdminController) ResetPassword(c *fiber.Ctx) error {
	if _, err := ac.requireAdmin(c); err != nil {
		return respondAdminError(c, err)
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(AdminMessageResponse{
			Status:  "error",
			Message: "Неверный ID пользователя",
		})
	}

	var user models.User
	if err := ac.DB.First(&user, uint(id)).Error; err != nil {
		return c.Status(404).JSON(AdminMessageResponse{
			Status:  "error",
			Message: "Пользователь не найден",
		})
	}

	hashedPassword, err := utils.HashPassword(defaultResetPassword)
	if err != nil {
		return c.Status(500).JSON(AdminMessageResponse{
			Status:  "error",
			Message: "Ошибка при сбросе пароля",
		})
	}

	user.PasswordHash = hashedPassword
	if err := ac.DB.Save(&user).Error; err != nil {
		return c.Status(500).JSON(AdminMessageResponse{
			Status:  "error",
			Message: "Ошибка при сбросе пароля",
		})
	}

	return c.JSON(AdminMessageResponse{
		Status:  "success",
		Message: "Пароль пользователя сброшен",
	})
}

// respondAdminError преобразует ошибку проверки администратора в HTTP ответ
func respondAdminError(c *fiber.Ctx, err error) error {
	code := 500
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(AdminMessageResponse{
		Status:  "error",
		Message: err.Error(),
	})
}
