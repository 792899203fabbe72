package controllers

import (
	"regexp"
	"strings"

	"homestock-backend/models"
	"homestock-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthController контроллер для аутентификации
type AuthController struct {
	DB *gorm.DB
}

// NewAuthController создает новый экземпляр AuthController
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// RegisterRequest структура запроса регистрации
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// LoginRequest структура запроса входа
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse структура ответа аутентификации
type AuthResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Token   string       `json:"token,omitempty"`
	Data    *models.User `json:"data,omitempty"`
}

// Register обрабатывает регистрацию пользователя
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req RegisterRequest

	// Парсим JSON
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{
			Status:  "error",
			Message: "Неверный формат данных",
		})
	}

	// Валидация
	if err := ac.validateRegisterRequest(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{
			Status:  "error",
			Message: err.Error(),
		})
	}

	// Проверяем, существует ли пользователь
	var existingUser models.User
	if err := ac.DB.Where("username = ?", req.Username).First(&existingUser).Error; err == nil {
		return c.Status(409).JSON(AuthResponse{
			Status:  "error",
			Message: "Пользователь с таким именем уже существует",
		})
	}

	// Хэшируем пароль
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Status:  "error",
			Message: "Ошибка при создании пользователя",
		})
	}

	user := models.User{
		Username:     req.Username,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hashedPassword,
	}

	// Создаем пользователя. Проверка «первый пользователь становится
	// администратором» выполняется в той же транзакции, что и вставка,
	// иначе две одновременные первые регистрации обе увидят count=0
	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
			return err
		}
		user.IsAdmin = count == 0
		return tx.Create(&user).Error
	})
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Status:  "error",
			Message: "Ошибка при создании пользователя",
		})
	}

	// Генерируем JWT токен
	token, err := utils.GenerateJWT(user.ID, user.Username)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Status:  "error",
			Message: "Ошибка при создании токена",
		})
	}

	return c.Status(201).JSON(AuthResponse{
		Status:  "success",
		Message: "Пользователь успешно зарегистрирован",
		Token:   token,
		Data:    &user,
	})
}

// Login обрабатывает вход пользователя
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest

	// Парсим JSON
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{
			Status:  "error",
			Message: "Неверный формат данных",
		})
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(400).JSON(AuthResponse{
			Status:  "error",
			Message: "Имя пользователя и пароль обязательны",
		})
	}

	// Ищем пользователя
	var user models.User
	if err := ac.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		return c.Status(401).JSON(AuthResponse{
			Status:  "error",
			Message: "Неверное имя пользователя или пароль",
		})
	}

	// Проверяем пароль
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return c.Status(401).JSON(AuthResponse{
			Status:  "error",
			Message: "Неверное имя пользователя или пароль",
		})
	}

	// Генерируем JWT токен
	token, err := utils.GenerateJWT(user.ID, user.Username)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Status:  "error",
			Message: "Ошибка при создании токена",
		})
	}

	return c.JSON(AuthResponse{
		Status:  "success",
		Message: "Успешный вход в систему",
		Token:   token,
		Data:    &user,
	})
}

// Me возвращает информацию о текущем пользователе
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		return c.Status(401).JSON(AuthResponse{
			Status:  "error",
			Message: "Пользователь не найден",
		})
	}

	return c.JSON(AuthResponse{
		Status:  "success",
		Message: "Информация о пользователе получена",
		Data:    &user,
	})
}

// Вспомогательные методы валидации

func (ac *AuthController) validateRegisterRequest(req *RegisterRequest) error {
	if req.Username == "" {
		return fiber.NewError(400, "Имя пользователя обязательно")
	}
	if len(req.Username) < 3 || len(req.Username) > 50 {
		return fiber.NewError(400, "Имя пользователя должно содержать от 3 до 50 символов")
	}
	if len(req.Password) < 6 {
		return fiber.NewError(400, "Пароль должен содержать минимум 6 символов")
	}
	if req.Email != "" && !ac.isValidEmail(req.Email) {
		return fiber.NewError(400, "Неверный формат email")
	}
	return nil
}

func (ac *AuthController) isValidEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}
