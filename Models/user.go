package Models

import (
	"time"
)

type User struct {
	Id        string    `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"not null;uniqueIndex"`
	Password  []byte    `json:"-" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Tasks     []Task    `json:"tasks,omitempty" gorm:"foreignKey:UserId"`
}
