package helpers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// BookingQRData builds the payload embedded in a booking's door QR code. The
// trailing signature binds the booking to the ticket and the buyer, so a
// reprinted code for someone else's booking fails validation.
func BookingQRData(bookingID, ticketID, eventID, userID uuid.UUID, secret string) string {
	signature := SignBooking(bookingID, ticketID, userID, secret)
	return fmt.Sprintf("booking:%s;ticket:%s;event:%s;signature:%s",
		bookingID.String(),
		ticketID.String(),
		eventID.String(),
		signature,
	)
}

func SignBooking(bookingID, ticketID, userID uuid.UUID, secret string) string {
	data := fmt.Sprintf("%s:%s:%s", bookingID.String(), ticketID.String(), userID.String())
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

func ExtractBookingID(qrData string) (uuid.UUID, error) {
	parts := strings.Split(qrData, ";")
	if len(parts) != 4 || !strings.HasPrefix(parts[0], "booking:") || !strings.HasPrefix(parts[3], "signature:") {
		return uuid.Nil, fmt.Errorf("invalid QR data format")
	}
	return uuid.Parse(strings.TrimPrefix(parts[0], "booking:"))
}

func VerifyBookingSignature(qrData string, bookingID, ticketID, userID uuid.UUID, secret string) bool {
	parts := strings.Split(qrData, ";")
	if len(parts) != 4 || !strings.HasPrefix(parts[3], "signature:") {
		return false
	}
	signature := strings.TrimPrefix(parts[3], "signature:")
	expected := SignBooking(bookingID, ticketID, userID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
