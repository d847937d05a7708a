package Services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"Dayplan/Models"
)

// TaskService implements the business rules on top of raw task storage:
// position assignment within a (user, day, category) bucket, the coupling
// between category and completion state, and the daily forwarding sweep.
type TaskService struct {
	DB *gorm.DB
}

// NewTaskService creates a new TaskService.
func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{DB: db}
}

// TaskFilters narrows a List call. Zero-valued fields are ignored; setting
// either completion bound restricts results to completed tasks.
type TaskFilters struct {
	Date            *time.Time
	Category        string
	Important       bool
	CompletedAfter  *time.Time
	CompletedBefore *time.Time
}

// TaskUpdate carries the fields of a patch request. Nil means the field was
// not supplied.
type TaskUpdate struct {
	Title       *string
	Category    *string
	IsImportant *bool
	IsCompleted *bool
	AssignedDay *time.Time
}

// Create persists a new task at the end of its bucket.
func (s *TaskService) Create(userId, title, category string, assignedDay time.Time, isImportant bool) (*Models.Task, error) {
	if title == "" {
		return nil, newValidationError("title, category, and assignedDay are required")
	}
	if !Models.ValidCategory(category) {
		return nil, newValidationError("invalid category")
	}
	if assignedDay.IsZero() {
		return nil, newValidationError("title, category, and assignedDay are required")
	}

	// New tasks go to the end of their (user, day, category) bucket.
	var maxPosition int
	err := s.DB.Model(&Models.Task{}).
		Where("user_id = ? AND assigned_day = ? AND category = ?", userId, assignedDay, category).
		Select("COALESCE(MAX(position), -1)").
		Scan(&maxPosition).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute task position: %w", err)
	}

	task := Models.Task{
		Id:          uuid.New().String(),
		Title:       title,
		Category:    category,
		IsImportant: isImportant,
		AssignedDay: assignedDay,
		Position:    maxPosition + 1,
		UserId:      userId,
	}

	if err := s.DB.Create(&task).Error; err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &task, nil
}

// List returns the caller's tasks matching all supplied filters, ordered by
// position, then creation time.
func (s *TaskService) List(userId string, filters TaskFilters) ([]Models.Task, error) {
	query := s.DB.Where("user_id = ?", userId)

	if filters.Date != nil {
		query = query.Where("assigned_day = ?", *filters.Date)
	}
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Important {
		query = query.Where("is_important = ?", true)
	}
	if filters.CompletedAfter != nil || filters.CompletedBefore != nil {
		query = query.Where("is_completed = ?", true)
		if filters.CompletedAfter != nil {
			query = query.Where("completed_at >= ?", *filters.CompletedAfter)
		}
		if filters.CompletedBefore != nil {
			query = query.Where("completed_at <= ?", *filters.CompletedBefore)
		}
	}

	var tasks []Models.Task
	if err := query.Order("position ASC, created_at ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Update applies a patch to a task owned by userId. Category and completion
// state are kept in sync: see markCompleted and clearCompleted.
func (s *TaskService) Update(userId, id string, patch TaskUpdate) (*Models.Task, error) {
	task, err := s.findOwned(userId, id)
	if err != nil {
		return nil, err
	}

	// Completion timestamps are backdated to the day the task was scheduled
	// for, as it was before this patch.
	priorDay := task.AssignedDay
	priorCategory := task.Category
	priorCompleted := task.IsCompleted

	if patch.Category != nil {
		if !Models.ValidCategory(*patch.Category) {
			return nil, newValidationError("invalid category")
		}
		task.Category = *patch.Category
		if *patch.Category == Models.CategoryDone && !priorCompleted {
			markCompleted(task, priorDay)
		} else if *patch.Category != Models.CategoryDone && priorCompleted {
			clearCompleted(task)
		}
	}

	if patch.IsCompleted != nil {
		task.IsCompleted = *patch.IsCompleted
		if *patch.IsCompleted && !priorCompleted {
			markCompleted(task, priorDay)
			// Checking off a kanban task moves it to Done. GENERAL tasks
			// keep their category, they have no Done column.
			if priorCategory != Models.CategoryDone && priorCategory != Models.CategoryGeneral {
				task.Category = Models.CategoryDone
			}
		} else if !*patch.IsCompleted {
			clearCompleted(task)
		}
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.IsImportant != nil {
		task.IsImportant = *patch.IsImportant
	}
	if patch.AssignedDay != nil {
		task.AssignedDay = *patch.AssignedDay
	}

	if err := s.DB.Save(task).Error; err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// Delete permanently removes a task owned by userId. Sibling positions are
// left alone; gaps are tolerated.
func (s *TaskService) Delete(userId, id string) error {
	task, err := s.findOwned(userId, id)
	if err != nil {
		return err
	}
	if err := s.DB.Delete(task).Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// Reorder moves a task to a new position, optionally into another category
// or day. The position is taken as-is; concurrent reorders are last write
// wins and ties fall back to creation order.
func (s *TaskService) Reorder(userId, taskId string, targetCategory string, targetDay *time.Time, newPosition int) (*Models.Task, error) {
	task, err := s.findOwned(userId, taskId)
	if err != nil {
		return nil, err
	}

	task.Position = newPosition

	if targetCategory != "" {
		if !Models.ValidCategory(targetCategory) {
			return nil, newValidationError("invalid category")
		}
		priorCategory := task.Category
		priorCompleted := task.IsCompleted
		task.Category = targetCategory
		if targetCategory == Models.CategoryDone && !priorCompleted {
			markCompleted(task, task.AssignedDay)
		} else if targetCategory != Models.CategoryDone && priorCompleted && priorCategory == Models.CategoryDone {
			// Only dragging out of the Done column un-completes; a checked
			// GENERAL task moved between columns keeps its checkmark.
			clearCompleted(task)
		}
	}

	if targetDay != nil {
		task.AssignedDay = *targetDay
	}

	if err := s.DB.Save(task).Error; err != nil {
		return nil, fmt.Errorf("failed to reorder task: %w", err)
	}
	return task, nil
}

// ForwardStale moves every incomplete TODO or IN_PROGRESS task scheduled
// before today onto today, in one batch statement. Returns the number of
// tasks forwarded. Running it again the same day forwards nothing.
func (s *TaskService) ForwardStale(userId string) (int64, error) {
	today := Models.TruncateToDay(time.Now())

	result := s.DB.Model(&Models.Task{}).
		Where("user_id = ? AND category IN ? AND is_completed = ? AND assigned_day < ?",
			userId, []string{Models.CategoryTodo, Models.CategoryInProgress}, false, today).
		Update("assigned_day", today)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to forward tasks: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// findOwned loads a task by id scoped to its owner. A task belonging to
// someone else is reported the same as a missing one.
func (s *TaskService) findOwned(userId, id string) (*Models.Task, error) {
	var task Models.Task
	err := s.DB.Where("id = ? AND user_id = ?", id, userId).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// markCompleted and clearCompleted are the single place the
// isCompleted/completedAt pair is derived, so every mutating call agrees on
// the coupling.

func markCompleted(task *Models.Task, day time.Time) {
	completedAt := day
	task.IsCompleted = true
	task.CompletedAt = &completedAt
}

func clearCompleted(task *Models.Task) {
	task.IsCompleted = false
	task.CompletedAt = nil
}
