package Controllers

import (
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"Dayplan/Models"
	"Dayplan/middleware"
)

var validate = validator.New()

type RegisterInput struct {
	Username        string `json:"username" validate:"required"`
	Password        string `json:"password" validate:"required"`
	RegistrationKey string `json:"registrationKey" validate:"required"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register creates a new account. Sign-up is gated by a shared registration
// key so the instance stays personal.
func Register(c *fiber.Ctx) error {
	var input RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Username, password, and registration key are required",
		})
	}

	if input.RegistrationKey != os.Getenv("REGISTRATION_SECRET") {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Invalid registration key"})
	}

	var existing Models.User
	if err := Models.DB.Where("username = ?", input.Username).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Username already taken"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), 12)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user"})
	}

	user := Models.User{
		Id:       uuid.New().String(),
		Username: input.Username,
		Password: hashed,
	}
	if err := Models.DB.Create(&user).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Username already taken"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user"})
	}

	if err := issueSession(c, user.Id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to issue token"})
	}

	return c.JSON(fiber.Map{"user": user})
}

// Login verifies credentials and starts a session.
func Login(c *fiber.Ctx) error {
	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Username and password are required",
		})
	}

	var user Models.User
	if err := Models.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
	}
	if err := bcrypt.CompareHashAndPassword(user.Password, []byte(input.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
	}

	if err := issueSession(c, user.Id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to issue token"})
	}

	return c.JSON(fiber.Map{"user": user})
}

// User returns the authenticated user. Runs behind middleware.Verify.
func User(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(Models.User)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}
	return c.JSON(fiber.Map{"user": user})
}

// Logout expires the session cookie.
func Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
	return c.JSON(fiber.Map{"ok": true})
}

// ValidateToken reports whether the session cookie is still good.
func ValidateToken(c *fiber.Ctx) error {
	cookie := c.Cookies(middleware.CookieName)
	if cookie == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"valid": false})
	}
	_, err := jwt.ParseWithClaims(cookie, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return middleware.JWTSecret(), nil
	})
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"valid": false})
	}
	return c.JSON(fiber.Map{"valid": true})
}

func issueSession(c *fiber.Ctx, userId string) error {
	token, err := middleware.SignToken(userId)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Expires:  time.Now().Add(middleware.TokenLifetime),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
	return nil
}
