package config

import (
	"fmt"
	"os"

	"github.com/openformlab/form-server/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectDB opens the PostgreSQL connection and migrates the schema.
func ConnectDB() (*gorm.DB, error) {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbName, port)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Form{},
		&models.Question{},
		&models.Response{},
		&models.Answer{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	Log.Info("connected to PostgreSQL and migrated schema", zap.String("db", dbName))
	return db, nil
}
