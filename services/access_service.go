package services

import (
	"errors"

	"homestock-backend/models"

	"gorm.io/gorm"
)

// Ошибки медиатора доступа. Контроллеры преобразуют их в HTTP статусы.
var (
	// ErrForbidden — у пользователя нет нужной роли в складе
	ErrForbidden = errors.New("недостаточно прав для этого склада")
	// ErrNotFound — ресурс не существует
	ErrNotFound = errors.New("ресурс не найден")
)

// AccessService отвечает на вопросы авторизации: какая роль у пользователя
// в складе и разрешена ли операция. Никогда не изменяет состояние.
type AccessService struct {
	db *gorm.DB
}

// NewAccessService создает новый сервис проверки доступа
func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{db: db}
}

// RoleOf возвращает роль пользователя в складе или пустую строку,
// если членства нет. Единственный примитив авторизации в системе.
func (s *AccessService) RoleOf(userID, warehouseID uint) (string, error) {
	var membership models.UserWarehouse
	err := s.db.Where("user_id = ? AND warehouse_id = ?", userID, warehouseID).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return membership.Role, nil
}

// RequireMembership проверяет, что пользователь состоит в складе
// с любой ролью. Возвращает роль или ErrForbidden.
func (s *AccessService) RequireMembership(userID, warehouseID uint) (string, error) {
	role, err := s.RoleOf(userID, warehouseID)
	if err != nil {
		return "", err
	}
	if role == "" {
		return "", ErrForbidden
	}
	return role, nil
}

// RequireOwner проверяет, что пользователь является владельцем склада
func (s *AccessService) RequireOwner(userID, warehouseID uint) error {
	role, err := s.RoleOf(userID, warehouseID)
	if err != nil {
		return err
	}
	if role != models.RoleOwner {
		return ErrForbidden
	}
	return nil
}

// WarehouseOfItem возвращает склад предмета. Мягко удаленные предметы
// учитываются только при includeDeleted.
func (s *AccessService) WarehouseOfItem(itemID uint, includeDeleted bool) (*models.Item, error) {
	var item models.Item
	query := s.db.Where("id = ?", itemID)
	if !includeDeleted {
		query = query.Where("deleted_at IS NULL")
	}
	if err := query.First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// WarehouseOfMedia возвращает медиафайл вместе со складом его предмета.
// Склад определяется транзитивно: медиа -> предмет -> склад.
func (s *AccessService) WarehouseOfMedia(mediaID uint) (*models.ItemMedia, uint, error) {
	var media models.ItemMedia
	if err := s.db.Where("id = ?", mediaID).First(&media).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}

	// Предмет нужен даже если он мягко удален: доступ к медиа
	// сохраняется, пока предмет можно восстановить
	item, err := s.WarehouseOfItem(media.ItemID, true)
	if err != nil {
		return nil, 0, err
	}
	return &media, item.WarehouseID, nil
}

// AccessibleWarehouseIDs возвращает ID всех складов, где пользователь
// состоит с любой ролью. Используется поиском и списками, которые
// фильтруют по доступности вместо отказа.
func (s *AccessService) AccessibleWarehouseIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&models.UserWarehouse{}).
		Where("user_id = ?", userID).
		Pluck("warehouse_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
