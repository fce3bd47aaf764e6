package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/P-ZeN/be-out-apps-sub001/internal/helpers"
	"github.com/P-ZeN/be-out-apps-sub001/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func CreateEvent(c *gin.Context) {
	title := c.PostForm("title")
	description := c.PostForm("description")

	startTimeStr := c.PostForm("start_time")
	endTimeStr := c.PostForm("end_time")
	startTime, err := time.Parse(time.RFC3339, startTimeStr)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid start time format.")
		return
	}
	endTime, err := time.Parse(time.RFC3339, endTimeStr)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid end time format.")
		return
	}

	var categories []string
	for i := 0; ; i++ {
		category := c.PostForm(fmt.Sprintf("categories[%d]", i))
		if category == "" {
			break
		}
		categories = append(categories, category)
	}

	if title == "" || description == "" || len(categories) == 0 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Missing required fields.")
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

	var user models.User
	if err := gormDB.Where("id = ?", userID).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	var venueID *uuid.UUID
	if venueIDStr := c.PostForm("venue_id"); venueIDStr != "" {
		parsed, err := uuid.Parse(venueIDStr)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid venue ID.")
			return
		}
		var venue models.Venue
		if err := gormDB.Where("id = ? AND user_id = ?", parsed, user.ID).First(&venue).Error; err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Venue not found or not owned by you.")
			return
		}
		venueID = &parsed
	}

	var eventCategories []models.Category
	for _, categoryName := range categories {
		var category models.Category
		if err := gormDB.Where("name = ?", categoryName).FirstOrCreate(&category, models.Category{Name: categoryName}).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Error processing categories.")
			return
		}
		eventCategories = append(eventCategories, category)
	}

	// New events always enter the workflow as unreviewed drafts.
	event := models.Event{
		ID:               uuid.New(),
		Title:            title,
		Description:      description,
		StartTime:        startTime,
		EndTime:          endTime,
		Status:           models.EventStatusDraft,
		ModerationStatus: models.ModerationPending,
		VenueID:          venueID,
		UserID:           user.ID,
		Categories:       eventCategories,
	}

	bannerFile, err := c.FormFile("banner")
	if err == nil {
		bannerPath, err := helpers.UploadFile(c, bannerFile, "event_banners")
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		event.BannerPath = bannerPath
	}

	if err := gormDB.Create(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create event.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Event created successfully.",
		"event_id": event.ID,
	})
}

// GetEvent returns a single published event to the public client.
func GetEvent(c *gin.Context) {
	eventID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	err := gormDB.
		Preload("Categories").
		Preload("Venue").
		Preload("Tickets").
		Where("id = ? AND is_published = ? AND moderation_status = ?", eventID, true, models.ModerationApproved).
		First(&event).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	c.JSON(http.StatusOK, event)
}

// ListEvents is the public catalog: approved and published events only.
func ListEvents(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "10")

	city := c.Query("city")
	category := c.Query("category")

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

	query := gormDB.Model(&models.Event{}).
		Where("is_published = ? AND moderation_status = ?", true, models.ModerationApproved)
	if city != "" {
		query = query.Joins("JOIN venues ON venues.id = events.venue_id").Where("venues.city = ?", city)
	}
	if category != "" {
		query = query.
			Joins("JOIN event_categories ON event_categories.event_id = events.id").
			Joins("JOIN categories ON categories.id = event_categories.category_id").
			Where("categories.name = ?", category)
	}

	var totalCount int64
	query.Count(&totalCount)

	var events []models.Event
	offset := (pageNum - 1) * limitNum
	err = query.Preload("Categories").Preload("Venue").Preload("Tickets").Offset(offset).Limit(limitNum).Order("start_time ASC").Find(&events).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events":      events,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

// ListMyEvents returns the organizer's own events in every workflow state.
func ListMyEvents(c *gin.Context) {
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

	var events []models.Event
	err := gormDB.
		Preload("Categories").
		Preload("Venue").
		Preload("Tickets").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&events).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"total":  len(events),
	})
}

func UpdateEvent(c *gin.Context) {
	eventID := c.Param("id")
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	title := c.PostForm("title")
	description := c.PostForm("description")

	startTimeStr := c.PostForm("start_time")
	endTimeStr := c.PostForm("end_time")
	startTime, err := time.Parse(time.RFC3339, startTimeStr)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid start time format.")
		return
	}
	endTime, err := time.Parse(time.RFC3339, endTimeStr)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid end time format.")
		return
	}

	var categories []string
	for i := 0; ; i++ {
		category := c.PostForm(fmt.Sprintf("categories[%d]", i))
		if category == "" {
			break
		}
		categories = append(categories, category)
	}

	if title == "" || description == "" || len(categories) == 0 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Missing required fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ? AND user_id = ?", eventID, userID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to update.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event.")
		return
	}

	event.Title = title
	event.Description = description
	event.StartTime = startTime
	event.EndTime = endTime

	if venueIDStr := c.PostForm("venue_id"); venueIDStr != "" {
		parsed, err := uuid.Parse(venueIDStr)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid venue ID.")
			return
		}
		var venue models.Venue
		if err := gormDB.Where("id = ? AND user_id = ?", parsed, userID).First(&venue).Error; err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Venue not found or not owned by you.")
			return
		}
		event.VenueID = &parsed
	}

	bannerFile, err := c.FormFile("banner")
	if err == nil {
		bannerPath, err := helpers.UploadFile(c, bannerFile, "event_banners")
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		if err := helpers.DeleteFile(event.BannerPath); err != nil {
			fmt.Printf("Error deleting old banner: %v\n", err)
		}
		event.BannerPath = bannerPath
	}

	var updatedCategories []models.Category
	for _, categoryName := range categories {
		var category models.Category
		if err := gormDB.Where("name = ?", categoryName).FirstOrCreate(&category, models.Category{Name: categoryName}).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Error processing categories.")
			return
		}
		updatedCategories = append(updatedCategories, category)
	}

	if err := gormDB.Save(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update event.")
		return
	}

	if err := gormDB.Model(&event).Association("Categories").Replace(updatedCategories); err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error updating categories.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully.",
		"event":   event,
	})
}

func DeleteEvent(c *gin.Context) {
	eventID := c.Param("id")
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

	// Events with bookings are never physically deleted.
	var bookingCount int64
	err := gormDB.Model(&models.Booking{}).
		Joins("JOIN tickets ON tickets.id = bookings.ticket_id").
		Where("tickets.event_id = ?", eventID).
		Count(&bookingCount).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete event.")
		return
	}
	if bookingCount > 0 {
		helpers.RespondWithError(c, http.StatusConflict, "Event has bookings and cannot be deleted.")
		return
	}

	result := gormDB.Where("id = ? AND user_id = ?", eventID, userID).Delete(&models.Event{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete event.")
		return
	}

	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to delete.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event deleted successfully.",
	})
}
