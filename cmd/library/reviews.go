package main

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/GuillermoVar/Tarea2BDD2/pkg/models"
	"github.com/GuillermoVar/Tarea2BDD2/pkg/rules"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// isSerializationFailure reports whether err is a Postgres serialization
// failure (SQLSTATE 40001), raised when two serializable transactions
// counted the same reviews before inserting.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}

func reviewResponse(review models.Review) gin.H {
	return gin.H{
		"id":         review.ID,
		"rating":     review.Rating,
		"comment":    review.Comment,
		"reviewDate": review.ReviewDate.Format("2006-01-02"),
		"userId":     review.UserID,
		"bookId":     review.BookID,
	}
}

func listReviews(c *gin.Context) {
	var reviews []models.Review
	if err := db.Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	items := make([]gin.H, len(reviews))
	for i, review := range reviews {
		items[i] = reviewResponse(review)
	}
	c.JSON(http.StatusOK, items)
}

func getReview(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var review models.Review
	if err := db.First(&review, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
		return
	}
	c.JSON(http.StatusOK, reviewResponse(review))
}

func createReview(c *gin.Context) {
	var request struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
		UserID  uint   `json:"userId" binding:"required"`
		BookID  uint   `json:"bookId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if err := rules.ValidateRating(request.Rating); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The review date is always server side, any client value is ignored.
	review := models.Review{
		Rating:     request.Rating,
		Comment:    request.Comment,
		ReviewDate: time.Now(),
		UserID:     request.UserID,
		BookID:     request.BookID,
	}

	// Count and insert run under a serializable transaction: two
	// concurrent creates for the same (user, book) pair cannot both read
	// the same count and insert, one of them aborts with a serialization
	// failure instead.
	err := db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		err := tx.Model(&models.Review{}).
			Where("user_id = ? AND book_id = ?", request.UserID, request.BookID).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if err := rules.ValidateReviewCount(existing); err != nil {
			return err
		}
		return tx.Create(&review).Error
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		if errors.Is(err, rules.ErrReviewLimit) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if isSerializationFailure(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "review was created concurrently, retry"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, reviewResponse(review))
}

func updateReview(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var request struct {
		Rating  *int    `json:"rating"`
		Comment *string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if request.Rating != nil {
		if err := rules.ValidateRating(*request.Rating); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	var review models.Review
	if err := db.First(&review, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
		return
	}

	updates := map[string]interface{}{}
	if request.Rating != nil {
		updates["rating"] = *request.Rating
	}
	if request.Comment != nil {
		updates["comment"] = *request.Comment
	}

	if len(updates) > 0 {
		if err := db.Model(&review).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, reviewResponse(review))
}

func deleteReview(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var review models.Review
	if err := db.First(&review, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
		return
	}
	if err := db.Delete(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
