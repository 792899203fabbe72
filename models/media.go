package models

import (
	"time"

	"gorm.io/gorm"
)

// Типы медиафайлов предмета
const (
	FileTypeImage = "image"
	FileTypeVideo = "video"
)

// ItemMedia представляет медиафайл, прикрепленный к предмету.
// Удаление необратимо: сначала удаляются файлы, затем запись.
type ItemMedia struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ItemID       uint      `json:"item_id" gorm:"not null;index"`
	FileURL      string    `json:"file_url" gorm:"not null;size:2048"`
	ThumbnailURL string    `json:"thumbnail_url" gorm:"size:2048"` // Пусто для видео
	FileType     string    `json:"file_type" gorm:"not null;size:20"` // "image" или "video"
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Связи
	Item Item `json:"-" gorm:"foreignKey:ItemID"`
}

// IsImage проверяет, является ли медиафайл изображением
func (m *ItemMedia) IsImage() bool {
	return m.FileType == FileTypeImage
}

// BeforeCreate хук для установки времени создания
func (m *ItemMedia) BeforeCreate(tx *gorm.DB) error {
	m.CreatedAt = time.Now()
	m.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate хук для обновления времени изменения
func (m *ItemMedia) BeforeUpdate(tx *gorm.DB) error {
	m.UpdatedAt = time.Now()
	return nil
}
