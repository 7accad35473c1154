package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/GuillermoVar/Tarea2BDD2/pkg/database"
	"github.com/GuillermoVar/Tarea2BDD2/pkg/overdue"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var db *gorm.DB

func main() {
	log.Println("Starting library service...")

	db = database.InitLibraryDB()

	sweepInterval, err := time.ParseDuration(getEnv("OVERDUE_SWEEP_INTERVAL", "1h"))
	if err != nil {
		log.Fatalf("Invalid OVERDUE_SWEEP_INTERVAL: %v", err)
	}
	sweeper := overdue.NewSweeper(db, sweepInterval)
	sweeper.Start()
	defer sweeper.Stop()

	server := gin.Default()
	server.Use(requestID())

	server.GET("/books/", listBooks)
	server.GET("/books/:id", getBook)
	server.POST("/books/", createBook)
	server.PATCH("/books/:id", updateBook)
	server.DELETE("/books/:id", deleteBook)
	server.GET("/books/search/", searchBooks)
	server.GET("/books/filter", filterBooksByYear)
	server.GET("/books/recent", getRecentBooks)
	server.GET("/books/stats", getBookStats)
	server.POST("/books/:id/assign-categories", assignCategories)

	server.GET("/categories/", listCategories)
	server.GET("/categories/:id", getCategory)
	server.POST("/categories/", createCategory)
	server.PATCH("/categories/:id", updateCategory)
	server.DELETE("/categories/:id", deleteCategory)

	server.GET("/reviews/", listReviews)
	server.GET("/reviews/:id", getReview)
	server.POST("/reviews/", createReview)
	server.PATCH("/reviews/:id", updateReview)
	server.DELETE("/reviews/:id", deleteReview)

	server.GET("/loans/", listLoans)
	server.GET("/loans/:id", getLoan)
	server.POST("/loans/", createLoan)
	server.POST("/loans/:id/return", returnLoan)
	server.PATCH("/loans/:id", updateLoan)
	server.DELETE("/loans/:id", deleteLoan)

	server.GET("/users/", listUsers)
	server.GET("/users/:id", getUser)
	server.POST("/users/", createUser)
	server.PATCH("/users/:id", updateUser)
	server.DELETE("/users/:id", deleteUser)
	server.PUT("/users/:id/password", updateUserPassword)

	server.GET("/manage/health", healthCheck)

	port := getEnv("PORT", "8080")
	log.Printf("Library service starting on :%s", port)
	if err := server.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}
		c.Writer.Header().Set("X-Request-Id", id)
		c.Next()
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return uint(id), true
}

func healthCheck(ctx *gin.Context) {
	sqlDB, err := db.DB()
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database connection failed",
			"error":   err.Error(),
		})
		return
	}
	if err := sqlDB.Ping(); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database ping failed",
			"error":   err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"status": "UP",
	})
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
