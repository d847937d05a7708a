package Models

import (
	"log"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	path := os.Getenv("DB_PATH")
	if path == "" {
		path = "database.db"
	}

	connection, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	DB = connection

	if err := DB.AutoMigrate(
		&User{}, // Users first, tasks reference them
		&Task{},
	); err != nil {
		log.Println(err)
	}
}
