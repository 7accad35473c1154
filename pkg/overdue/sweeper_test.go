package overdue

import (
	"testing"
	"time"

	"github.com/GuillermoVar/Tarea2BDD2/pkg/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect test database: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	db.AutoMigrate(&models.User{}, &models.Book{}, &models.Loan{})
	return db
}

func TestSweepMarksOverdueLoans(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()

	pastDue := models.Loan{
		LoanDt:  now.AddDate(0, 0, -9),
		DueDate: now.AddDate(0, 0, -2),
		Status:  models.LoanStatusActive,
		UserID:  1,
		BookID:  1,
	}
	db.Create(&pastDue)

	current := models.Loan{
		LoanDt:  now,
		DueDate: now.AddDate(0, 0, 7),
		Status:  models.LoanStatusActive,
		UserID:  1,
		BookID:  2,
	}
	db.Create(&current)

	returnDt := now.AddDate(0, 0, -1)
	returned := models.Loan{
		LoanDt:   now.AddDate(0, 0, -20),
		ReturnDt: &returnDt,
		DueDate:  now.AddDate(0, 0, -10),
		Status:   models.LoanStatusReturned,
		UserID:   1,
		BookID:   3,
	}
	db.Create(&returned)

	sweeper := NewSweeper(db, time.Hour)
	count, err := sweeper.Sweep(now)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	var swept models.Loan
	db.First(&swept, pastDue.ID)
	assert.Equal(t, models.LoanStatusOverdue, swept.Status)
	assert.NotNil(t, swept.FineAmount)
	assert.Equal(t, 1.00, *swept.FineAmount)

	var untouched models.Loan
	db.First(&untouched, current.ID)
	assert.Equal(t, models.LoanStatusActive, untouched.Status)
	assert.Nil(t, untouched.FineAmount)

	var done models.Loan
	db.First(&done, returned.ID)
	assert.Equal(t, models.LoanStatusReturned, done.Status)
}

func TestSweepRefreshesFine(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()

	loan := models.Loan{
		LoanDt:  now.AddDate(0, 0, -10),
		DueDate: now.AddDate(0, 0, -1),
		Status:  models.LoanStatusActive,
		UserID:  1,
		BookID:  1,
	}
	db.Create(&loan)

	sweeper := NewSweeper(db, time.Hour)
	_, err := sweeper.Sweep(now)
	assert.NoError(t, err)

	var first models.Loan
	db.First(&first, loan.ID)
	assert.Equal(t, 0.50, *first.FineAmount)

	// Two days later the same loan owes more.
	_, err = sweeper.Sweep(now.AddDate(0, 0, 2))
	assert.NoError(t, err)

	var second models.Loan
	db.First(&second, loan.ID)
	assert.Equal(t, models.LoanStatusOverdue, second.Status)
	assert.Equal(t, 1.50, *second.FineAmount)
}

func TestFine(t *testing.T) {
	now := time.Now()

	assert.Equal(t, 0.0, Fine(now, now))
	assert.Equal(t, 0.0, Fine(now.AddDate(0, 0, 7), now))
	assert.Equal(t, 0.50, Fine(now.AddDate(0, 0, -1), now))
	assert.Equal(t, 1.50, Fine(now.AddDate(0, 0, -3), now))
}

func TestFineAcrossSpringForward(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	// US DST starts 2026-03-08: the midnights of these two local dates
	// are only 47 wall clock hours apart but two calendar days late.
	due := time.Date(2026, 3, 7, 23, 0, 0, 0, loc)
	asOf := time.Date(2026, 3, 9, 22, 0, 0, 0, loc)

	assert.Equal(t, 1.00, Fine(due, asOf))
}
