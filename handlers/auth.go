package handlers

import (
	"log"

	"event-lists-go/auth"
	"event-lists-go/middleware"
	"event-lists-go/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var registerUserDto models.RegisterUserDto
	if err := c.BodyParser(&registerUserDto); err != nil {
		return middleware.NewValidationError("Invalid request body", err.Error())
	}
	if err := registerUserDto.Validate(); err != nil {
		return middleware.NewValidationError(err.Error())
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registerUserDto.Password), bcrypt.DefaultCost)
	if err != nil {
		return middleware.NewInternalServerError("Failed to hash password")
	}
	hashedPasswordStr := string(hashedPassword)

	status := models.StatusActive
	user := models.User{
		Email:        registerUserDto.Email,
		PasswordHash: &hashedPasswordStr,
		Name:         &registerUserDto.Name,
		Status:       &status,
	}

	if err := h.db.Create(&user).Error; err != nil {
		return middleware.NewInternalServerError("Failed to create user", err.Error())
	}

	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		return middleware.NewInternalServerError("Failed to generate token", err.Error())
	}

	log.Printf("Registered user: %s", user.Email)

	return c.JSON(models.AuthResponse{
		Success: true,
		Token:   token,
		Email:   user.Email,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var loginUserDto models.LoginUserDto
	if err := c.BodyParser(&loginUserDto); err != nil {
		return middleware.NewValidationError("Invalid request body", err.Error())
	}
	if err := loginUserDto.Validate(); err != nil {
		return middleware.NewValidationError(err.Error())
	}

	user := models.User{}
	err := h.db.Where("email = ?", loginUserDto.Email).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.NewAuthorizationError("Invalid email or password")
		}
		return middleware.NewInternalServerError("Failed to load user", err.Error())
	}

	if user.PasswordHash == nil {
		return middleware.NewAuthorizationError("Invalid email or password")
	}
	err = bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(loginUserDto.Password))
	if err != nil {
		return middleware.NewAuthorizationError("Invalid email or password")
	}

	if user.Status != nil && *user.Status == models.StatusInactive {
		return middleware.NewAuthorizationError("Account is inactive")
	}

	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		return middleware.NewInternalServerError("Failed to generate token", err.Error())
	}

	return c.JSON(models.AuthResponse{
		Success: true,
		Token:   token,
		Email:   user.Email,
	})
}
