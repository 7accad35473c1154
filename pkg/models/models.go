package models

import (
	"time"
)

const (
	LoanStatusActive   = "ACTIVE"
	LoanStatusReturned = "RETURNED"
	LoanStatusOverdue  = "OVERDUE"
)

type User struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"size:80;not null;uniqueIndex"`
	Fullname  string `gorm:"not null"`
	Password  string `gorm:"not null"`
	Email     string `gorm:"not null;uniqueIndex"`
	Phone     string
	Address   string
	IsActive  bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Loans   []Loan   `gorm:"foreignKey:UserID"`
	Reviews []Review `gorm:"foreignKey:UserID"`
}

type Book struct {
	ID            uint   `gorm:"primaryKey"`
	Title         string `gorm:"not null;uniqueIndex"`
	Author        string `gorm:"not null"`
	ISBN          string `gorm:"column:isbn;not null;uniqueIndex"`
	Pages         int    `gorm:"not null"`
	PublishedYear int    `gorm:"not null"`
	Stock         int    `gorm:"not null;default:1"`
	Description   string
	Language      string `gorm:"size:2;not null;default:'es'"`
	Publisher     string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Loans      []Loan     `gorm:"foreignKey:BookID"`
	Reviews    []Review   `gorm:"foreignKey:BookID"`
	Categories []Category `gorm:"many2many:books_categories"`
}

type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Books []Book `gorm:"many2many:books_categories"`
}

type Loan struct {
	ID         uint       `gorm:"primaryKey"`
	LoanDt     time.Time  `gorm:"type:date;not null"`
	ReturnDt   *time.Time `gorm:"type:date"`
	DueDate    time.Time  `gorm:"type:date;not null"`
	FineAmount *float64   `gorm:"type:decimal(10,2)"`
	Status     string     `gorm:"size:20;not null;default:'ACTIVE'"`
	UserID     uint       `gorm:"not null"`
	BookID     uint       `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	User User `gorm:"foreignKey:UserID"`
	Book Book `gorm:"foreignKey:BookID"`
}

type Review struct {
	ID         uint      `gorm:"primaryKey"`
	Rating     int       `gorm:"not null"`
	Comment    string    `gorm:"not null"`
	ReviewDate time.Time `gorm:"type:date;not null"`
	UserID     uint      `gorm:"not null"`
	BookID     uint      `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	User User `gorm:"foreignKey:UserID"`
	Book Book `gorm:"foreignKey:BookID"`
}

type BookStats struct {
	TotalBooks            int64
	AveragePages          float64
	OldestPublicationYear *int
	NewestPublicationYear *int
}
