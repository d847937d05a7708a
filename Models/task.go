package Models

import (
	"time"
)

// Task categories. TODO, IN_PROGRESS and DONE are the kanban columns;
// GENERAL tasks are undated checklist items.
const (
	CategoryTodo       = "TODO"
	CategoryInProgress = "IN_PROGRESS"
	CategoryDone       = "DONE"
	CategoryGeneral    = "GENERAL"
)

// GeneralDay is the placeholder day stored for GENERAL tasks, which are
// not scheduled on any calendar day.
var GeneralDay = time.Unix(0, 0).UTC()

type Task struct {
	Id          string     `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"not null"`
	Category    string     `json:"category" gorm:"not null;index"`
	IsImportant bool       `json:"isImportant" gorm:"not null;default:false"`
	IsCompleted bool       `json:"isCompleted" gorm:"not null;default:false"`
	AssignedDay time.Time  `json:"assignedDay" gorm:"not null;index"`
	CompletedAt *time.Time `json:"completedAt"`
	Position    int        `json:"position" gorm:"not null;default:0"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	UserId      string     `json:"userId" gorm:"not null;index"`
}

// ValidCategory reports whether s is one of the four task categories.
func ValidCategory(s string) bool {
	switch s {
	case CategoryTodo, CategoryInProgress, CategoryDone, CategoryGeneral:
		return true
	}
	return false
}

// TruncateToDay strips the time-of-day component, keeping the location.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
