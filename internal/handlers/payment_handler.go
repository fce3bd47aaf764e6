package handlers

import (
	"crypto/hmac"
	"errors"
	"net/http"
	"os"

	"github.com/P-ZeN/be-out-apps-sub001/internal/helpers"
	"github.com/P-ZeN/be-out-apps-sub001/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type XenditCallbackRequest struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id" binding:"required"`
	Status     string `json:"status" binding:"required"`
}

// bookingStatusForInvoice maps a Xendit invoice status to the booking and
// payment statuses it settles to. ok is false for statuses that carry no
// settlement, which the callback acknowledges without touching the booking.
func bookingStatusForInvoice(invoiceStatus string) (bookingStatus, paymentStatus string, ok bool) {
	switch invoiceStatus {
	case "PAID", "SETTLED":
		return models.BookingStatusConfirmed, "paid", true
	case "EXPIRED":
		return models.BookingStatusCancelled, "expired", true
	}
	return "", "", false
}

// XenditInvoiceCallback settles a pending booking from a Xendit invoice
// notification. The invoice's external ID is the booking ID, set when the
// booking was created.
func XenditInvoiceCallback(c *gin.Context) {
	token := os.Getenv("XENDIT_CALLBACK_TOKEN")
	if token == "" {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Callback token not configured.")
		return
	}
	if !hmac.Equal([]byte(c.GetHeader("x-callback-token")), []byte(token)) {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid callback token.")
		return
	}

	var req XenditCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid callback payload.")
		return
	}

	bookingStatus, paymentStatus, ok := bookingStatusForInvoice(req.Status)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"message": "Notification ignored."})
		return
	}

	bookingID, err := uuid.Parse(req.ExternalID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid external ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var booking models.Booking
	err = gormDB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, bookingID).Error; err != nil {
			return err
		}
		// Xendit retries notifications; a booking that already settled is
		// acknowledged without another write.
		if booking.Status != models.BookingStatusPending {
			return nil
		}
		if err := tx.Model(&booking).Update("status", bookingStatus).Error; err != nil {
			return err
		}
		if booking.PaymentID != nil {
			if err := tx.Model(&models.Payment{}).
				Where("id = ?", booking.PaymentID).
				Update("status", paymentStatus).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		helpers.RespondWithError(c, http.StatusNotFound, "Booking not found.")
		return
	}
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to settle booking.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Booking updated.",
		"booking_id": booking.ID,
		"status":     booking.Status,
	})
}
