package auth

import (
	"log"

	"nexuspos-backend/internal/config"
	"nexuspos-backend/internal/database"
	"nexuspos-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// EnsureAdmin crea el administrador inicial si no existe ningún admin.
// Idempotente: en arranques siguientes no hace nada.
func EnsureAdmin(cfg *config.Config) {
	var count int64
	database.DB.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count)
	if count > 0 {
		return
	}

	if cfg.AdminPassword == "" {
		log.Fatal("[FATAL] No hay ningún admin y ADMIN_PASSWORD no está definido")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("No se pudo crear el admin inicial: %v", err)
	}

	admin := models.User{
		Name:         "Administrador",
		Username:     cfg.AdminUsername,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Active:       true,
	}
	if err := database.DB.Create(&admin).Error; err != nil {
		log.Fatalf("No se pudo crear el admin inicial: %v", err)
	}
	log.Printf("Admin inicial creado: %s", admin.Username)
}
