package FiberConfig

import (
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"Dayplan/Controllers"
	"Dayplan/Models"
	"Dayplan/middleware"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	taskController := Controllers.NewTaskController(db)

	// Auth routes. Login is rate limited against credential guessing.
	app.Post("/api/Register", Controllers.Register)
	app.Post("/api/Login", limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
	}), Controllers.Login)
	app.Get("/api/User", middleware.Verify(), Controllers.User)
	app.Post("/api/Logout", Controllers.Logout)
	app.Get("/api/validate-token", Controllers.ValidateToken)

	// Task routes
	tasks := app.Group("/api/tasks", middleware.Verify())
	tasks.Get("/", taskController.GetTasks)
	tasks.Post("/", taskController.CreateTask)
	tasks.Patch("/", taskController.UpdateTask)
	tasks.Delete("/", taskController.DeleteTask)
	tasks.Post("/reorder", taskController.ReorderTask)
	tasks.Post("/forward", taskController.ForwardTasks)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}

func FiberConfig() {
	fmt.Println("Server Up...")
	app := fiber.New()
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	SetupRoutes(app, Models.DB)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	app.Listen(":" + port)
}
