package auth

import (
	"strings"
	"time"

	"nexuspos-backend/internal/config"
	"nexuspos-backend/internal/database"
	"nexuspos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateUserRequest struct {
	Name     string          `json:"name"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
}

type UpdateUserRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
	Active   *bool           `json:"active"`
}

func validRole(r models.UserRole) bool {
	return r == models.RoleAdmin || r == models.RoleCashier || r == models.RoleWaiter
}

func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}

		body.Username = strings.TrimSpace(strings.ToLower(body.Username))

		var user models.User
		if err := database.DB.Where("username = ?", body.Username).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Usuario o contraseña incorrectos")
		}
		if !user.Active {
			return fiber.NewError(fiber.StatusUnauthorized, "Usuario inactivo")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Usuario o contraseña incorrectos")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo generar el token")
		}

		now := time.Now()
		database.DB.Model(&user).Update("last_login", now)

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":       user.ID,
				"name":     user.Name,
				"username": user.Username,
				"role":     user.Role,
			},
		})
	}
}

func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userIDVal := c.Locals(CtxUserIDKey)

		var user models.User
		if userID, ok := userIDVal.(uint); ok {
			if err := database.DB.First(&user, userID).Error; err == nil {
				return c.JSON(fiber.Map{
					"user_id":    user.ID,
					"name":       user.Name,
					"username":   user.Username,
					"email":      user.Email,
					"role":       user.Role,
					"last_login": user.LastLogin,
				})
			}
		}

		return c.JSON(fiber.Map{
			"user_id":  userIDVal,
			"username": c.Locals(CtxUsernameKey),
			"role":     c.Locals(CtxUserRoleKey),
		})
	}
}

func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}

		body.Username = strings.TrimSpace(strings.ToLower(body.Username))
		if body.Username == "" || body.Password == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nombre, usuario y contraseña son obligatorios")
		}
		if !validRole(body.Role) {
			return fiber.NewError(fiber.StatusBadRequest, "Rol inválido")
		}

		var count int64
		database.DB.Model(&models.User{}).Where("username = ?", body.Username).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Ya existe un usuario con ese nombre")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo procesar la contraseña")
		}

		user := models.User{
			Name:         body.Name,
			Username:     body.Username,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         body.Role,
			Active:       true,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear el usuario")
		}

		return c.Status(fiber.StatusCreated).JSON(user)
	}
}

func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var users []models.User
		if err := database.DB.Order("username ASC").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error al consultar usuarios")
		}
		return c.JSON(users)
	}
}

func UpdateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		var user models.User
		if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Usuario no encontrado")
		}

		var body UpdateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}
		if body.Name != "" {
			user.Name = body.Name
		}
		if body.Email != "" {
			user.Email = body.Email
		}
		if body.Role != "" {
			if !validRole(body.Role) {
				return fiber.NewError(fiber.StatusBadRequest, "Rol inválido")
			}
			user.Role = body.Role
		}
		if body.Active != nil {
			user.Active = *body.Active
		}
		if body.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "No se pudo procesar la contraseña")
			}
			user.PasswordHash = string(hash)
		}

		if err := database.DB.Save(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar el usuario")
		}
		return c.JSON(user)
	}
}

func DeleteUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		result := database.DB.Delete(&models.User{}, "id = ?", id)
		if result.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar el usuario")
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Usuario no encontrado")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
