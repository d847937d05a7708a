package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"Dayplan/Models"
)

func setupVerifyApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Models.User{}))
	Models.DB = db

	app := fiber.New()
	app.Get("/protected", Verify(), func(c *fiber.Ctx) error {
		user := c.Locals("user").(Models.User)
		return c.JSON(fiber.Map{"id": user.Id})
	})
	return app, db
}

func TestVerify(t *testing.T) {
	app, db := setupVerifyApp(t)

	user := Models.User{Id: uuid.New().String(), Username: "alice", Password: []byte("x")}
	require.NoError(t, db.Create(&user).Error)

	t.Run("valid token passes and loads the user", func(t *testing.T) {
		token, err := SignToken(user.Id)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Cookie", CookieName+"="+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("missing cookie", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Cookie", CookieName+"=not-a-jwt")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Issuer:    user.Id,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}
		expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(JWTSecret())
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Cookie", CookieName+"="+expired)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("token for a deleted user", func(t *testing.T) {
		token, err := SignToken(uuid.New().String())
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Cookie", CookieName+"="+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("token signed with a different key", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Issuer:    user.Id,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("wrong-key"))
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Cookie", CookieName+"="+forged)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
