package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/GuillermoVar/Tarea2BDD2/pkg/models"
	"github.com/GuillermoVar/Tarea2BDD2/pkg/rules"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func bookResponse(book models.Book) gin.H {
	categories := make([]gin.H, len(book.Categories))
	for i, cat := range book.Categories {
		categories[i] = gin.H{
			"id":   cat.ID,
			"name": cat.Name,
		}
	}
	return gin.H{
		"id":            book.ID,
		"title":         book.Title,
		"author":        book.Author,
		"isbn":          book.ISBN,
		"pages":         book.Pages,
		"publishedYear": book.PublishedYear,
		"stock":         book.Stock,
		"description":   book.Description,
		"language":      book.Language,
		"publisher":     book.Publisher,
		"categories":    categories,
	}
}

func bookListResponse(books []models.Book) []gin.H {
	items := make([]gin.H, len(books))
	for i, book := range books {
		items[i] = bookResponse(book)
	}
	return items
}

func listBooks(c *gin.Context) {
	var books []models.Book
	if err := db.Preload("Categories").Find(&books).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bookListResponse(books))
}

func getBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var book models.Book
	if err := db.Preload("Categories").First(&book, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}
	c.JSON(http.StatusOK, bookResponse(book))
}

func createBook(c *gin.Context) {
	var request struct {
		Title         string `json:"title" binding:"required"`
		Author        string `json:"author" binding:"required"`
		ISBN          string `json:"isbn" binding:"required"`
		Pages         int    `json:"pages"`
		PublishedYear int    `json:"publishedYear"`
		Stock         *int   `json:"stock"`
		Description   string `json:"description"`
		Language      string `json:"language"`
		Publisher     string `json:"publisher"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if err := rules.ValidateLanguage(request.Language); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	stock := 1
	if request.Stock != nil {
		if err := rules.ValidateNewStock(*request.Stock); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		stock = *request.Stock
	}
	if err := rules.ValidatePublishedYear(request.PublishedYear); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book := models.Book{
		Title:         request.Title,
		Author:        request.Author,
		ISBN:          request.ISBN,
		Pages:         request.Pages,
		PublishedYear: request.PublishedYear,
		Stock:         stock,
		Description:   request.Description,
		Language:      request.Language,
		Publisher:     request.Publisher,
	}
	if err := db.Create(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "book with this title or isbn already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, bookResponse(book))
}

func updateBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var request struct {
		Title         *string `json:"title"`
		Author        *string `json:"author"`
		ISBN          *string `json:"isbn"`
		Pages         *int    `json:"pages"`
		PublishedYear *int    `json:"publishedYear"`
		Stock         *int    `json:"stock"`
		Description   *string `json:"description"`
		Language      *string `json:"language"`
		Publisher     *string `json:"publisher"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if request.Stock != nil {
		if err := rules.ValidateStock(*request.Stock); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if request.Language != nil {
		if err := rules.ValidateLanguage(*request.Language); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if request.PublishedYear != nil {
		if err := rules.ValidatePublishedYear(*request.PublishedYear); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	var book models.Book
	if err := db.Preload("Categories").First(&book, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}

	updates := map[string]interface{}{}
	if request.Title != nil {
		updates["title"] = *request.Title
	}
	if request.Author != nil {
		updates["author"] = *request.Author
	}
	if request.ISBN != nil {
		updates["isbn"] = *request.ISBN
	}
	if request.Pages != nil {
		updates["pages"] = *request.Pages
	}
	if request.PublishedYear != nil {
		updates["published_year"] = *request.PublishedYear
	}
	if request.Stock != nil {
		updates["stock"] = *request.Stock
	}
	if request.Description != nil {
		updates["description"] = *request.Description
	}
	if request.Language != nil {
		updates["language"] = *request.Language
	}
	if request.Publisher != nil {
		updates["publisher"] = *request.Publisher
	}

	if len(updates) > 0 {
		if err := db.Model(&book).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "book with this title or isbn already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, bookResponse(book))
}

func deleteBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var book models.Book
	if err := db.First(&book, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}
	if err := db.Delete(&book).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func searchBooks(c *gin.Context) {
	title := c.Query("title")

	var books []models.Book
	err := db.Preload("Categories").
		Where("LOWER(title) LIKE ?", "%"+strings.ToLower(title)+"%").
		Find(&books).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bookListResponse(books))
}

func filterBooksByYear(c *gin.Context) {
	from, err := strconv.Atoi(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be an integer"})
		return
	}
	to, err := strconv.Atoi(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be an integer"})
		return
	}

	var books []models.Book
	err = db.Preload("Categories").
		Where("published_year BETWEEN ? AND ?", from, to).
		Find(&books).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bookListResponse(books))
}

func getRecentBooks(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", strconv.Itoa(rules.DefaultRecentLimit))
	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return
	}
	if err := rules.ValidateRecentLimit(limit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var books []models.Book
	err = db.Preload("Categories").
		Order("created_at DESC").
		Limit(limit).
		Find(&books).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bookListResponse(books))
}

func getBookStats(c *gin.Context) {
	var total int64
	if err := db.Model(&models.Book{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	stats := models.BookStats{TotalBooks: total}
	if total > 0 {
		row := db.Model(&models.Book{}).
			Select("AVG(pages), MIN(published_year), MAX(published_year)").
			Row()
		err := row.Scan(&stats.AveragePages, &stats.OldestPublicationYear, &stats.NewestPublicationYear)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"totalBooks":            stats.TotalBooks,
		"averagePages":          stats.AveragePages,
		"oldestPublicationYear": stats.OldestPublicationYear,
		"newestPublicationYear": stats.NewestPublicationYear,
	})
}

func assignCategories(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var categoryIDs []uint
	if err := c.ShouldBindJSON(&categoryIDs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	var book models.Book
	if err := db.First(&book, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}

	var categories []models.Category
	if len(categoryIDs) > 0 {
		if err := db.Where("id IN ?", categoryIDs).Find(&categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	if len(categories) != len(categoryIDs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": rules.ErrCategories.Error()})
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&book).Association("Categories").Replace(&categories)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	book.Categories = categories
	c.JSON(http.StatusOK, bookResponse(book))
}
