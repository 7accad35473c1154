package main

import (
	"errors"
	"net/http"

	"github.com/GuillermoVar/Tarea2BDD2/pkg/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func categoryResponse(category models.Category) gin.H {
	return gin.H{
		"id":   category.ID,
		"name": category.Name,
	}
}

func listCategories(c *gin.Context) {
	var categories []models.Category
	if err := db.Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	items := make([]gin.H, len(categories))
	for i, category := range categories {
		items[i] = categoryResponse(category)
	}
	c.JSON(http.StatusOK, items)
}

func getCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var category models.Category
	if err := db.First(&category, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}
	c.JSON(http.StatusOK, categoryResponse(category))
}

func createCategory(c *gin.Context) {
	var request struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	category := models.Category{Name: request.Name}
	if err := db.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "category with this name already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, categoryResponse(category))
}

func updateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var request struct {
		Name *string `json:"name"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	var category models.Category
	if err := db.First(&category, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}

	if request.Name != nil {
		err := db.Model(&category).Update("name", *request.Name).Error
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "category with this name already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, categoryResponse(category))
}

func deleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var category models.Category
	if err := db.First(&category, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}
	if err := db.Delete(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
