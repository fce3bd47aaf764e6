package handlers

import (
	"net/http"

	"github.com/P-ZeN/be-out-apps-sub001/internal/helpers"
	"github.com/P-ZeN/be-out-apps-sub001/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VenueRequest struct {
	Name        string   `json:"name" binding:"required"`
	AddressLine string   `json:"address_line" binding:"required"`
	City        string   `json:"city" binding:"required"`
	PostalCode  string   `json:"postal_code"`
	Country     string   `json:"country" binding:"required"`
	Capacity    *int     `json:"capacity"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

func CreateVenue(c *gin.Context) {
	var req VenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	venue := models.Venue{
		ID:          uuid.New(),
		Name:        req.Name,
		AddressLine: req.AddressLine,
		City:        req.City,
		PostalCode:  req.PostalCode,
		Country:     req.Country,
		Capacity:    req.Capacity,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		UserID:      userID.(uuid.UUID),
	}

	if err := gormDB.Create(&venue).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create venue.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Venue created successfully.",
		"venue_id": venue.ID,
	})
}

func GetVenue(c *gin.Context) {
	venueID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var venue models.Venue
	if err := gormDB.Where("id = ?", venueID).First(&venue).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Venue not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving venue.")
		return
	}

	c.JSON(http.StatusOK, venue)
}

func ListVenues(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "10")
	city := c.Query("city")

	pageNum, err := helpers.StringToInt(page)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page number.")
		return
	}

	limitNum, err := helpers.StringToInt(limit)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
		return
	}

	query := gormDB.Model(&models.Venue{})
	if city != "" {
		query = query.Where("city = ?", city)
	}

	var totalCount int64
	query.Count(&totalCount)

	var venues []models.Venue
	offset := (pageNum - 1) * limitNum
	err = query.Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&venues).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving venues.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"venues":      venues,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func UpdateVenue(c *gin.Context) {
	venueID := c.Param("id")
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	var req VenueRequest
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

	var venue models.Venue
	if err := gormDB.Where("id = ? AND user_id = ?", venueID, userID).First(&venue).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusForbidden, "Venue not found or you don't have permission to update.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding venue.")
		return
	}

	venue.Name = req.Name
	venue.AddressLine = req.AddressLine
	venue.City = req.City
	venue.PostalCode = req.PostalCode
	venue.Country = req.Country
	venue.Capacity = req.Capacity
	venue.Latitude = req.Latitude
	venue.Longitude = req.Longitude

	if err := gormDB.Save(&venue).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update venue.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Venue updated successfully.",
		"venue":   venue,
	})
}

func DeleteVenue(c *gin.Context) {
	venueID := c.Param("id")
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var eventCount int64
	if err := gormDB.Model(&models.Event{}).Where("venue_id = ?", venueID).Count(&eventCount).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete venue.")
		return
	}
	if eventCount > 0 {
		helpers.RespondWithError(c, http.StatusConflict, "Venue is referenced by events and cannot be deleted.")
		return
	}

	result := gormDB.Where("id = ? AND user_id = ?", venueID, userID).Delete(&models.Venue{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete venue.")
		return
	}

	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusForbidden, "Venue not found or you don't have permission to delete.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Venue deleted successfully.",
	})
}
