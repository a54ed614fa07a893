package models

import "time"

type UserRole string

const (
	RoleAdmin   UserRole = "admin"   // acceso total
	RoleCashier UserRole = "cashier" // caja, ventas y mesas
	RoleWaiter  UserRole = "waiter"  // solo mesas y reservas
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:100" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         UserRole  `gorm:"size:20;not null" json:"role"`
	Active       bool      `gorm:"not null;default:true" json:"active"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
