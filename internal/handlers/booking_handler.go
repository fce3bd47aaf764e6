package handlers

import (
	"errors"
	"net/http"
	"os"

	"github.com/P-ZeN/be-out-apps-sub001/internal/helpers"
	"github.com/P-ZeN/be-out-apps-sub001/internal/middleware"
	"github.com/P-ZeN/be-out-apps-sub001/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"github.com/xendit/xendit-go/v6/invoice"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errTicketsSoldOut = errors.New("not enough tickets left")

func bookedQuantity(db *gorm.DB, ticketID uuid.UUID) (int64, error) {
	var booked int64
	err := db.Model(&models.Booking{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("ticket_id = ? AND status <> ?", ticketID, models.BookingStatusCancelled).
		Scan(&booked).Error
	return booked, err
}

func exceedsQuota(quota *int, booked int64, requested int) bool {
	if quota == nil {
		return false
	}
	return booked+int64(requested) > int64(*quota)
}

type BookingRequest struct {
	TicketID uuid.UUID `json:"ticket_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,min=1"`
}

// CreateBooking books tickets on a published event. Paid tickets get a
// Xendit invoice; the booking stays pending until the invoice is settled.
// Free tickets confirm immediately.
func CreateBooking(c *gin.Context) {
	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}
	userUUID, ok := userID.(uuid.UUID)
	if !ok {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID type.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var ticket models.Ticket
	if err := gormDB.Preload("Event").First(&ticket, req.TicketID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Ticket not found.")
		return
	}

	if !ticket.Event.IsPublished || ticket.Event.ModerationStatus != models.ModerationApproved {
		helpers.RespondWithError(c, http.StatusBadRequest, "Event is not open for booking.")
		return
	}

	// Advisory availability check so a sold-out ticket fails before an
	// invoice is cut. The authoritative check runs under a row lock inside
	// the booking transaction below.
	booked, err := bookedQuantity(gormDB, ticket.ID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error checking ticket availability.")
		return
	}
	if exceedsQuota(ticket.Quota, booked, req.Quantity) {
		helpers.RespondWithError(c, http.StatusConflict, "Not enough tickets left.")
		return
	}

	var user models.User
	if err := gormDB.First(&user, userUUID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	total := ticket.Price * req.Quantity
	booking := models.Booking{
		ID:       uuid.New(),
		Quantity: req.Quantity,
		Total:    total,
		Status:   models.BookingStatusPending,
		TicketID: ticket.ID,
		UserID:   userUUID,
	}

	var payment *models.Payment
	if total == 0 {
		booking.Status = models.BookingStatusConfirmed
	} else {
		xenditClient := middleware.GetXenditClient(c)
		if xenditClient == nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Payment client not configured.")
			return
		}

		invoiceReq := *invoice.NewCreateInvoiceRequest(booking.ID.String(), float64(total))
		invoiceReq.SetDescription(ticket.Event.Title + " - " + ticket.Name)
		invoiceReq.SetPayerEmail(user.Email)

		inv, _, xndErr := xenditClient.InvoiceApi.CreateInvoice(c).
			CreateInvoiceRequest(invoiceReq).
			Execute()
		if xndErr != nil {
			helpers.RespondWithError(c, http.StatusBadGateway, "Failed to create payment invoice.")
			return
		}

		payment = &models.Payment{
			Amount:     total,
			Method:     "xendit",
			Status:     "pending",
			InvoiceID:  inv.GetId(),
			InvoiceURL: inv.GetInvoiceUrl(),
			UserID:     userUUID,
		}
	}

	err = gormDB.Transaction(func(tx *gorm.DB) error {
		// Lock the ticket row so concurrent bookings serialize on the
		// availability check.
		var locked models.Ticket
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&locked, ticket.ID).Error; err != nil {
			return err
		}
		booked, err := bookedQuantity(tx, locked.ID)
		if err != nil {
			return err
		}
		if exceedsQuota(locked.Quota, booked, req.Quantity) {
			return errTicketsSoldOut
		}
		if payment != nil {
			if err := tx.Create(payment).Error; err != nil {
				return err
			}
			booking.PaymentID = &payment.ID
		}
		return tx.Create(&booking).Error
	})
	if errors.Is(err, errTicketsSoldOut) {
		helpers.RespondWithError(c, http.StatusConflict, "Not enough tickets left.")
		return
	}
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create booking.")
		return
	}

	if payment != nil {
		c.JSON(http.StatusCreated, gin.H{
			"message":     "Booking created. Complete the payment to confirm.",
			"booking":     booking,
			"payment_url": payment.InvoiceURL,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking confirmed.",
		"booking": booking,
	})
}

// GenerateBookingQR renders the signed door code for a confirmed booking.
func GenerateBookingQR(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	bookingIDStr := c.Param("id")
	bookingID, err := uuid.Parse(bookingIDStr)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found")
		return
	}
	gormDB := db.(*gorm.DB)

	var booking models.Booking
	if err := gormDB.Preload("Ticket.Event").First(&booking, bookingID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Booking not found")
		return
	}

	if booking.UserID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to generate QR code for this booking")
		return
	}

	if booking.Status != models.BookingStatusConfirmed {
		helpers.RespondWithError(c, http.StatusForbidden, "Booking is not confirmed")
		return
	}

	if booking.IsUsed {
		helpers.RespondWithError(c, http.StatusForbidden, "Ticket already used")
		return
	}

	qrData := helpers.BookingQRData(booking.ID, booking.TicketID, booking.Ticket.EventID, booking.UserID, os.Getenv("JWT_SECRET"))

	qrImage, err := qrcode.Encode(qrData, qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	c.Data(http.StatusOK, "image/png", qrImage)
}

// ValidateBooking is the organizer's door check: verify the QR signature and
// mark the booking as used.
func ValidateBooking(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found")
		return
	}
	gormDB := db.(*gorm.DB)

	var validationRequest struct {
		QRData string `json:"qr_data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&validationRequest); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	bookingID, err := helpers.ExtractBookingID(validationRequest.QRData)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid QR code format")
		return
	}

	var booking models.Booking
	if err := gormDB.Preload("Ticket.Event").First(&booking, bookingID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Booking not found")
		return
	}

	if !helpers.VerifyBookingSignature(validationRequest.QRData, booking.ID, booking.TicketID, booking.UserID, os.Getenv("JWT_SECRET")) {
		helpers.RespondWithError(c, http.StatusForbidden, "Invalid QR code signature")
		return
	}

	if booking.Ticket.Event.UserID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to validate this ticket")
		return
	}

	if booking.IsUsed {
		helpers.RespondWithError(c, http.StatusForbidden, "Ticket already used")
		return
	}

	if err := gormDB.Model(&booking).Update("is_used", true).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to validate ticket")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ticket validated successfully",
		"ticket": gin.H{
			"event_title": booking.Ticket.Event.Title,
			"ticket_name": booking.Ticket.Name,
			"quantity":    booking.Quantity,
		},
	})
}
