package main

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/GuillermoVar/Tarea2BDD2/pkg/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB() *gorm.DB {
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		panic("failed to connect test database")
	}
	sqlDB, _ := testDB.DB()
	sqlDB.SetMaxOpenConns(1)
	testDB.AutoMigrate(
		&models.User{},
		&models.Book{},
		&models.Category{},
		&models.Loan{},
		&models.Review{},
	)
	return testDB
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}
