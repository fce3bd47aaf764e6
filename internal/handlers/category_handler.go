package handlers

import (
	"net/http"

	"github.com/P-ZeN/be-out-apps-sub001/internal/helpers"
	"github.com/P-ZeN/be-out-apps-sub001/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRequest struct {
	Name string `json:"name" binding:"required,min=2"`
}

func CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	category := models.Category{
		ID:   uuid.New(),
		Name: req.Name,
	}

	if err := gormDB.Create(&category).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create category.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Category created successfully.",
		"category_id": category.ID,
	})
}

func ListCategories(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var categories []models.Category
	if err := gormDB.Order("name ASC").Find(&categories).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving categories.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"total":      len(categories),
	})
}
