package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/GuillermoVar/Tarea2BDD2/pkg/models"
	"github.com/GuillermoVar/Tarea2BDD2/pkg/overdue"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var errBookNotAvailable = errors.New("book not available")

func loanResponse(loan models.Loan) gin.H {
	item := gin.H{
		"id":         loan.ID,
		"loanDt":     loan.LoanDt.Format("2006-01-02"),
		"returnDt":   nil,
		"dueDate":    loan.DueDate.Format("2006-01-02"),
		"fineAmount": loan.FineAmount,
		"status":     loan.Status,
		"userId":     loan.UserID,
		"bookId":     loan.BookID,
	}
	if loan.ReturnDt != nil {
		item["returnDt"] = loan.ReturnDt.Format("2006-01-02")
	}
	return item
}

func listLoans(c *gin.Context) {
	query := db
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var loans []models.Loan
	if err := query.Find(&loans).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	items := make([]gin.H, len(loans))
	for i, loan := range loans {
		items[i] = loanResponse(loan)
	}
	c.JSON(http.StatusOK, items)
}

func getLoan(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var loan models.Loan
	if err := db.First(&loan, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "loan not found"})
		return
	}
	c.JSON(http.StatusOK, loanResponse(loan))
}

func createLoan(c *gin.Context) {
	var request struct {
		UserID  uint   `json:"userId" binding:"required"`
		BookID  uint   `json:"bookId" binding:"required"`
		DueDate string `json:"dueDate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	dueDate, err := time.Parse("2006-01-02", request.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format"})
		return
	}

	var user models.User
	if err := db.First(&user, request.UserID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user does not exist"})
		return
	}
	var book models.Book
	if err := db.First(&book, request.BookID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "book does not exist"})
		return
	}

	loan := models.Loan{
		LoanDt:  time.Now(),
		DueDate: dueDate,
		Status:  models.LoanStatusActive,
		UserID:  request.UserID,
		BookID:  request.BookID,
	}

	// The stock decrement is guarded so two concurrent loans cannot take
	// the last copy twice.
	err = db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Book{}).
			Where("id = ? AND stock > 0", request.BookID).
			UpdateColumn("stock", gorm.Expr("stock - 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errBookNotAvailable
		}
		return tx.Create(&loan).Error
	})
	if err != nil {
		if errors.Is(err, errBookNotAvailable) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errBookNotAvailable.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, loanResponse(loan))
}

func returnLoan(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var loan models.Loan
	if err := db.First(&loan, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "loan not found"})
		return
	}
	if loan.Status == models.LoanStatusReturned {
		c.JSON(http.StatusBadRequest, gin.H{"error": "loan already returned"})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"return_dt": now,
		"status":    models.LoanStatusReturned,
	}
	if fine := overdue.Fine(loan.DueDate, now); fine > 0 {
		updates["fine_amount"] = fine
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&loan).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Model(&models.Book{}).
			Where("id = ?", loan.BookID).
			UpdateColumn("stock", gorm.Expr("stock + 1")).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	loan.ReturnDt = &now
	c.JSON(http.StatusOK, loanResponse(loan))
}

func updateLoan(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var request struct {
		DueDate    *string  `json:"dueDate"`
		Status     *string  `json:"status"`
		FineAmount *float64 `json:"fineAmount"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if request.DueDate != nil {
		dueDate, err := time.Parse("2006-01-02", *request.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format"})
			return
		}
		updates["due_date"] = dueDate
	}
	if request.Status != nil {
		switch *request.Status {
		case models.LoanStatusActive, models.LoanStatusReturned, models.LoanStatusOverdue:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be ACTIVE, RETURNED, or OVERDUE"})
			return
		}
		updates["status"] = *request.Status
	}
	if request.FineAmount != nil {
		updates["fine_amount"] = *request.FineAmount
	}

	var loan models.Loan
	if err := db.First(&loan, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "loan not found"})
		return
	}

	if len(updates) > 0 {
		if err := db.Model(&loan).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, loanResponse(loan))
}

func deleteLoan(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var loan models.Loan
	if err := db.First(&loan, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "loan not found"})
		return
	}
	if err := db.Delete(&loan).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
