package Controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Dayplan/Models"
	"Dayplan/Services"
)

// TaskController handles the task API endpoints.
type TaskController struct {
	Service *Services.TaskService
}

// NewTaskController creates a new TaskController.
func NewTaskController(db *gorm.DB) *TaskController {
	return &TaskController{Service: Services.NewTaskService(db)}
}

type CreateTaskInput struct {
	Title       string `json:"title" validate:"required"`
	Category    string `json:"category" validate:"required,oneof=TODO IN_PROGRESS DONE GENERAL"`
	AssignedDay string `json:"assignedDay" validate:"required"`
	IsImportant bool   `json:"isImportant"`
}

type UpdateTaskInput struct {
	Id          string  `json:"id" validate:"required"`
	Title       *string `json:"title"`
	Category    *string `json:"category"`
	IsImportant *bool   `json:"isImportant"`
	IsCompleted *bool   `json:"isCompleted"`
	AssignedDay *string `json:"assignedDay"`
}

type DeleteTaskInput struct {
	Id string `json:"id" validate:"required"`
}

type ReorderTaskInput struct {
	TaskId         string  `json:"taskId" validate:"required"`
	TargetCategory *string `json:"targetCategory"`
	TargetDay      *string `json:"targetDay"`
	NewPosition    *int    `json:"newPosition" validate:"required"`
}

// GetTasks lists the caller's tasks, narrowed by the optional query
// filters: date, category, important, completedAfter, completedBefore.
func (tc *TaskController) GetTasks(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(Models.User)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var filters Services.TaskFilters

	if date := c.Query("date"); date != "" {
		parsed, err := parseDate(date)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date"})
		}
		filters.Date = &parsed
	}
	filters.Category = c.Query("category")
	filters.Important = c.Query("important") == "true"
	if after := c.Query("completedAfter"); after != "" {
		parsed, err := parseDate(after)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid completedAfter"})
		}
		filters.CompletedAfter = &parsed
	}
	if before := c.Query("completedBefore"); before != "" {
		parsed, err := parseDate(before)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid completedBefore"})
		}
		filters.CompletedBefore = &parsed
	}

	tasks, err := tc.Service.List(user.Id, filters)
	if err != nil {
		return taskError(c, err)
	}

	return c.JSON(fiber.Map{"tasks": tasks})
}

// CreateTask adds a task to the end of its (day, category) bucket.
func (tc *TaskController) CreateTask(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(Models.User)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var input CreateTaskInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title, category, and assignedDay are required",
		})
	}

	day, err := parseDate(input.AssignedDay)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid assignedDay"})
	}

	task, err := tc.Service.Create(user.Id, input.Title, input.Category, Models.TruncateToDay(day), input.IsImportant)
	if err != nil {
		return taskError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"task": task})
}

// UpdateTask applies a partial update to a task.
func (tc *TaskController) UpdateTask(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(Models.User)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var input UpdateTaskInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id is required"})
	}

	patch := Services.TaskUpdate{
		Title:       input.Title,
		Category:    input.Category,
		IsImportant: input.IsImportant,
		IsCompleted: input.IsCompleted,
	}
	if input.AssignedDay != nil {
		day, err := parseDate(*input.AssignedDay)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid assignedDay"})
		}
		day = Models.TruncateToDay(day)
		patch.AssignedDay = &day
	}

	task, err := tc.Service.Update(user.Id, input.Id, patch)
	if err != nil {
		return taskError(c, err)
	}

	return c.JSON(fiber.Map{"task": task})
}

// DeleteTask permanently removes a task.
func (tc *TaskController) DeleteTask(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(Models.User)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var input DeleteTaskInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id is required"})
	}

	if err := tc.Service.Delete(user.Id, input.Id); err != nil {
		return taskError(c, err)
	}

	return c.JSON(fiber.Map{"ok": true})
}

// ReorderTask moves a task within or between board columns.
func (tc *TaskController) ReorderTask(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(Models.User)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var input ReorderTaskInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "taskId and newPosition are required",
		})
	}

	targetCategory := ""
	if input.TargetCategory != nil {
		targetCategory = *input.TargetCategory
	}
	var targetDay *time.Time
	if input.TargetDay != nil {
		day, err := parseDate(*input.TargetDay)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid targetDay"})
		}
		day = Models.TruncateToDay(day)
		targetDay = &day
	}

	task, err := tc.Service.Reorder(user.Id, input.TaskId, targetCategory, targetDay, *input.NewPosition)
	if err != nil {
		return taskError(c, err)
	}

	return c.JSON(fiber.Map{"task": task})
}

// ForwardTasks rolls every incomplete, overdue kanban task onto today.
func (tc *TaskController) ForwardTasks(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(Models.User)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	forwarded, err := tc.Service.ForwardStale(user.Id)
	if err != nil {
		return taskError(c, err)
	}

	return c.JSON(fiber.Map{"forwarded": forwarded})
}

// taskError maps service errors to HTTP responses.
func taskError(c *fiber.Ctx, err error) error {
	var vErr *Services.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": vErr.Message})
	}
	if errors.Is(err, Services.ErrTaskNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong"})
}

// parseDate accepts a plain calendar day or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
