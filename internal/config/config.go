package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort      string
	DatabaseDSN   string
	JWTSecret     string
	CORSOrigins   string
	AdminUsername string // usuario admin creado en el arranque si no existe ninguno
	AdminPassword string
}

const defaultDSN = "host=localhost user=postgres password=postgres dbname=nexuspos port=5432 sslmode=disable"

func Load() *Config {
	// .env es opcional; en producción las variables vienen del entorno.
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:   getEnv("DATABASE_DSN", defaultDSN),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		CORSOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET no está definido, es obligatorio")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET debe tener al menos 32 caracteres")
	}
	if cfg.DatabaseDSN == defaultDSN {
		log.Println("[WARN] DATABASE_DSN usa el valor por defecto, configura tu propia conexión Postgres en producción")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS usa el valor por defecto, configura tu dominio en producción")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
