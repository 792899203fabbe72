package controllers

import (
	"errors"
	"io"
	"strconv"

	"homestock-backend/models"
	"homestock-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// MediaController контроллер для работы с медиафайлами предметов
type MediaController struct {
	DB     *gorm.DB
	Access *services.AccessService
	Media  *services.MediaService
}

// NewMediaController создает новый экземпляр MediaController
func NewMediaController(db *gorm.DB, media *services.MediaService) *MediaController {
	return &MediaController{
		DB:     db,
		Access: services.NewAccessService(db),
		Media:  media,
	}
}

// MediaResponse структура ответа с медиафайлом
type MediaResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    *models.ItemMedia `json:"data,omitempty"`
}

// MediaListResponse структура ответа со списком медиафайлов
type MediaListResponse struct {
	Status  string             `json:"status"`
	Message string             `json:"message"`
	Data    []models.ItemMedia `json:"data"`
}

// UploadMedia загружает медиафайл для предмета. Принимаются только
// изображения и видео, для изображений создается миниатюра.
func (mc *MediaController) UploadMedia(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	id, err := strconv.ParseUint(c.Params("item_id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(MediaResponse{
			Status:  "error",
			Message: "Неверный ID предмета",
		})
	}

	item, err := mc.Access.WarehouseOfItem(uint(id), false)
	if err != nil {
		return respondAccessError(c, err, "Нет доступа к этому предмету")
	}

	// Загружать медиа могут участники и владельцы
	if _, err := mc.Access.RequireMembership(userID, item.WarehouseID); err != nil {
		return respondAccessError(c, err, "Нет доступа к складу этого предмета")
	}

	// Получаем файл из формы
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(MediaResponse{
			Status:  "error",
			Message: "Файл не передан",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(500).JSON(MediaResponse{
			Status:  "error",
			Message: "Не удалось прочитать файл",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(500).JSON(MediaResponse{
			Status:  "error",
			Message: "Не удалось прочитать файл",
		})
	}

	mimeType := fileHeader.Header.Get("Content-Type")

	stored, err := mc.Media.Store(c.UserContext(), data, mimeType)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedType) {
			return c.Status(400).JSON(MediaResponse{
				Status:  "error",
				Message: "Поддерживаются только изображения и видео",
			})
		}
		if errors.Is(err, services.ErrStorageBusy) {
			return c.Status(503).JSON(MediaResponse{
				Status:  "error",
				Message: "Хранилище файлов временно недоступно, попробуйте позже",
			})
		}
		return c.Status(500).JSON(MediaResponse{
			Status:  "error",
			Message: "Ошибка при сохранении файла",
		})
	}

	media := models.ItemMedia{
		ItemID:       item.ID,
		FileURL:      stored.FileURL,
		ThumbnailURL: stored.ThumbnailURL,
		FileType:     stored.FileType,
	}

	if err := mc.DB.Create(&media).Error; err != nil {
		// Запись не создалась — убираем файлы, чтобы не осиротели
		mc.Media.Remove(stored.FileURL, stored.ThumbnailURL)
		return c.Status(500).JSON(MediaResponse{
			Status:  "error",
			Message: "Ошибка при сохранении записи о файле",
		})
	}

	return c.Status(201).JSON(MediaResponse{
		Status:  "success",
		Message: "Медиафайл успешно загружен",
		Data:    &media,
	})
}

// GetItemMedia возвращает медиафайлы предмета
func (mc *MediaController) GetItemMedia(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	id, err := strconv.ParseUint(c.Params("item_id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(MediaListResponse{
			Status:  "error",
			Message: "Неверный ID предмета",
		})
	}

	// Медиа доступны и для мягко удаленных предметов
	item, err := mc.Access.WarehouseOfItem(uint(id), true)
	if err != nil {
		return respondAccessError(c, err, "Нет доступа к этому предмету")
	}

	if _, err := mc.Access.RequireMembership(userID, item.WarehouseID); err != nil {
		return respondAccessError(c, err, "Нет доступа к складу этого предмета")
	}

	var media []models.ItemMedia
	err = mc.DB.Where("item_id = ?", item.ID).
		Order("created_at ASC").
		Find(&media).Error
	if err != nil {
		return c.Status(500).JSON(MediaListResponse{
			Status:  "error",
			Message: "Ошибка при получении медиафайлов",
		})
	}

	return c.JSON(MediaListResponse{
		Status:  "success",
		Message: "Медиафайлы получены",
		Data:    media,
	})
}

// DeleteMedia удаляет медиафайл безвозвратно. Сначала удаляются файлы
// с диска, затем запись: при сбое хранилища запись остается и удаление
// можно повторить, осиротевших файлов не возникает.
func (mc *MediaController) DeleteMedia(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(MediaResponse{
			Status:  "error",
			Message: "Неверный ID медиафайла",
		})
	}

	// Склад определяется транзитивно: медиа -> предмет -> склад
	media, warehouseID, err := mc.Access.WarehouseOfMedia(uint(id))
	if err != nil {
		return respondAccessError(c, err, "Нет доступа к этому медиафайлу")
	}

	// Только владелец может удалять медиафайлы
	if err := mc.Access.RequireOwner(userID, warehouseID); err != nil {
		return respondAccessError(c, err, "Удалять медиафайлы может только владелец склада")
	}

	// Файлы удаляются до записи в базе
	if err := mc.Media.Remove(media.FileURL, media.ThumbnailURL); err != nil {
		return c.Status(500).JSON(MediaResponse{
			Status:  "error",
			Message: "Не удалось удалить файлы, попробуйте еще раз",
		})
	}

	if err := mc.DB.Delete(media).Error; err != nil {
		return c.Status(500).JSON(MediaResponse{
			Status:  "error",
			Message: "Ошибка при удалении записи о файле",
		})
	}

	return c.JSON(MediaResponse{
		Status:  "success",
		Message: "Медиафайл успешно удален",
	})
}
