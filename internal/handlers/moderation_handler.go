package handlers

import (
	"errors"
	"net/http"

	"github.com/P-ZeN/be-out-apps-sub001/internal/helpers"
	"github.com/P-ZeN/be-out-apps-sub001/internal/middleware"
	"github.com/P-ZeN/be-out-apps-sub001/internal/models"
	"github.com/P-ZeN/be-out-apps-sub001/internal/moderation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PublishRequest struct {
	IsPublished *bool `json:"is_published" binding:"required"`
}

type PublicationIntentRequest struct {
	OrganizerWantsPublished *bool `json:"organizer_wants_published" binding:"required"`
}

type ModerationDecisionRequest struct {
	Decision models.ModerationStatus `json:"decision" binding:"required"`
	Notes    string                  `json:"notes"`
}

// moderationContext pulls the workflow, the event id and the verified caller
// out of the request. It responds on failure and reports ok=false.
func moderationContext(c *gin.Context) (workflow *moderation.Workflow, eventID, actorID uuid.UUID, ok bool) {
	workflow = middleware.GetWorkflow(c)
	if workflow == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Moderation workflow not configured.")
		return nil, uuid.Nil, uuid.Nil, false
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
		return nil, uuid.Nil, uuid.Nil, false
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return nil, uuid.Nil, uuid.Nil, false
	}
	actorID, isUUID := userID.(uuid.UUID)
	if !isUUID {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID type.")
		return nil, uuid.Nil, uuid.Nil, false
	}

	return workflow, eventID, actorID, true
}

func respondWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, moderation.ErrEventNotFound):
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
	case moderation.IsInvalidTransition(err):
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
	default:
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to apply status change.")
	}
}

func SubmitEvent(c *gin.Context) {
	workflow, eventID, actorID, ok := moderationContext(c)
	if !ok {
		return
	}

	event, err := workflow.SubmitForReview(c.Request.Context(), eventID, actorID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event submitted for review.",
		"event":   event,
	})
}

func RevertEvent(c *gin.Context) {
	workflow, eventID, actorID, ok := moderationContext(c)
	if !ok {
		return
	}

	event, err := workflow.RevertToDraft(c.Request.Context(), eventID, actorID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event reverted to draft.",
		"event":   event,
	})
}

func PublishEvent(c *gin.Context) {
	workflow, eventID, actorID, ok := moderationContext(c)
	if !ok {
		return
	}

	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "is_published must be a boolean.")
		return
	}

	event, err := workflow.SetPublication(c.Request.Context(), eventID, actorID, *req.IsPublished)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Publication state updated.",
		"event":   event,
	})
}

func TogglePublicationIntent(c *gin.Context) {
	workflow, eventID, actorID, ok := moderationContext(c)
	if !ok {
		return
	}

	var req PublicationIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "organizer_wants_published must be a boolean.")
		return
	}

	event, err := workflow.SetPublicationIntent(c.Request.Context(), eventID, actorID, *req.OrganizerWantsPublished)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Publication intent recorded.",
		"event":   event,
	})
}

func GetStatusHistory(c *gin.Context) {
	workflow, eventID, actorID, ok := moderationContext(c)
	if !ok {
		return
	}

	// Admins read any event's history; organizers only their own.
	ownerID := actorID
	if role, exists := c.Get("role"); exists && role == "admin" {
		ownerID = uuid.Nil
	}

	history, err := workflow.StatusHistory(c.Request.Context(), eventID, ownerID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history": history,
	})
}

// ModerateEvent records an admin verdict on a submitted event.
func ModerateEvent(c *gin.Context) {
	workflow, eventID, actorID, ok := moderationContext(c)
	if !ok {
		return
	}

	var req ModerationDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	event, err := workflow.ApplyDecision(c.Request.Context(), eventID, actorID, req.Decision, req.Notes)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Moderation decision recorded.",
		"event":   event,
	})
}

// ListModerationQueue returns submitted events awaiting a decision,
// oldest submission first.
func ListModerationQueue(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var events []models.Event
	err := gormDB.
		Preload("User").
		Preload("Venue").
		Where("status = ? AND moderation_status = ?", models.EventStatusCandidate, models.ModerationUnderReview).
		Order("status_changed_at ASC").
		Find(&events).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving moderation queue.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"total":  len(events),
	})
}
