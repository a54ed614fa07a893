// Package testutil arma una base SQLite en memoria para los tests de
// servicios y la instala como database.DB del proceso.
package testutil

import (
	"testing"

	"nexuspos-backend/internal/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupDB abre una base nueva en memoria, migra el esquema completo y la
// deja en database.DB. Restaura el valor anterior al terminar el test.
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("no se pudo abrir sqlite en memoria: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migración falló: %v", err)
	}

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}
