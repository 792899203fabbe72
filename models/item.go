package models

import (
	"time"

	"gorm.io/gorm"
)

// Item представляет предмет на складе. Удаление мягкое: DeletedAt
// хранит время удаления, NULL означает активный предмет.
type Item struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"not null;size:255"`
	Location    string     `json:"location" gorm:"size:255"`
	Quantity    int        `json:"quantity" gorm:"not null;default:1"`
	WarehouseID uint       `json:"warehouse_id" gorm:"not null;index"`
	CategoryID  *uint      `json:"category_id"` // Категория необязательна
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at"`

	// Связи
	Warehouse Warehouse   `json:"-" gorm:"foreignKey:WarehouseID"`
	Category  *Category   `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Media     []ItemMedia `json:"media,omitempty" gorm:"foreignKey:ItemID"`
}

// IsDeleted проверяет, удален ли предмет
func (i *Item) IsDeleted() bool {
	return i.DeletedAt != nil
}

// BeforeCreate хук для установки времени создания
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	i.CreatedAt = time.Now()
	i.UpdatedAt = time.Now()
	if i.Quantity == 0 {
		i.Quantity = 1
	}
	return nil
}

// BeforeUpdate хук для обновления времени изменения
func (i *Item) BeforeUpdate(tx *gorm.DB) error {
	i.UpdatedAt = time.Now()
	return nil
}
