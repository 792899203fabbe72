package models

import (
	"time"

	"gorm.io/gorm"
)

// Category представляет категорию предметов внутри склада.
// Имя уникально в пределах одного склада (проверяется в контроллере,
// сравнение точное с учетом регистра).
type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	WarehouseID uint      `json:"warehouse_id" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Связи
	Warehouse Warehouse `json:"-" gorm:"foreignKey:WarehouseID"`
	Items     []Item    `json:"items,omitempty" gorm:"foreignKey:CategoryID"`
}

// BeforeCreate хук для установки времени создания
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate хук для обновления времени изменения
func (c *Category) BeforeUpdate(tx *gorm.DB) error {
	c.UpdatedAt = time.Now()
	return nil
}
