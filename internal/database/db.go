package database

import (
	"log"

	"nexuspos-backend/internal/config"
	"nexuspos-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("No se pudo conectar a la base de datos: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("Error en AutoMigrate: %v", err)
	}

	log.Println("Conexión a la base de datos lista. Migración completada.")
}

// Migrate crea/actualiza el esquema. Separado de Init para que los tests
// puedan migrar una base en memoria.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Table{},
		&models.OrderLine{},
		&models.CashRegister{},
		&models.RegisterClosure{},
		&models.Sale{},
		&models.Expense{},
		&models.Supplier{},
		&models.Purchase{},
		&models.PurchaseLine{},
		&models.StockMovement{},
		&models.Reservation{},
		&models.Discount{},
	)
}
