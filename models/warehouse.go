package models

import (
	"time"

	"gorm.io/gorm"
)

// Роли пользователей внутри склада. Закрытый набор, глобальный флаг
// администратора хранится отдельно в User.IsAdmin.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Warehouse представляет модель склада
type Warehouse struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	Description string    `json:"description" gorm:"type:text"`
	CreatorID   uint      `json:"creator_id" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Связи
	Creator User            `json:"creator" gorm:"foreignKey:CreatorID"`
	Members []UserWarehouse `json:"members,omitempty" gorm:"foreignKey:WarehouseID"`
}

// UserWarehouse представляет членство пользователя в складе.
// Уникальный индекс гарантирует не больше одной записи на пару
// (пользователь, склад) на уровне хранилища.
type UserWarehouse struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_warehouse"`
	WarehouseID uint      `json:"warehouse_id" gorm:"not null;uniqueIndex:idx_user_warehouse"`
	Role        string    `json:"role" gorm:"not null;size:20"` // "owner" или "member"
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Связи
	User      User      `json:"user" gorm:"foreignKey:UserID"`
	Warehouse Warehouse `json:"warehouse" gorm:"foreignKey:WarehouseID"`
}

// IsValidRole проверяет, что строка является допустимой ролью склада
func IsValidRole(role string) bool {
	return role == RoleOwner || role == RoleMember
}

// IsOwner проверяет, является ли пользователь владельцем склада
func (uw *UserWarehouse) IsOwner() bool {
	return uw.Role == RoleOwner
}

// IsMember проверяет, является ли пользователь участником склада
func (uw *UserWarehouse) IsMember() bool {
	return uw.Role == RoleMember
}

// BeforeCreate хук для установки времени создания
func (w *Warehouse) BeforeCreate(tx *gorm.DB) error {
	w.CreatedAt = time.Now()
	w.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate хук для обновления времени изменения
func (w *Warehouse) BeforeUpdate(tx *gorm.DB) error {
	w.UpdatedAt = time.Now()
	return nil
}

// BeforeCreate хук для установки времени создания
func (uw *UserWarehouse) BeforeCreate(tx *gorm.DB) error {
	uw.CreatedAt = time.Now()
	uw.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate хук для обновления времени изменения
func (uw *UserWarehouse) BeforeUpdate(tx *gorm.DB) error {
	uw.UpdatedAt = time.Now()
	return nil
}
