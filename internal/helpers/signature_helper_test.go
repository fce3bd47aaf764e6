package helpers

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestBookingQRRoundTrip(t *testing.T) {
	bookingID := uuid.New()
	ticketID := uuid.New()
	eventID := uuid.New()
	userID := uuid.New()
	secret := "test-secret"

	qrData := BookingQRData(bookingID, ticketID, eventID, userID, secret)

	extracted, err := ExtractBookingID(qrData)
	if err != nil {
		t.Fatalf("ExtractBookingID: %v", err)
	}
	if extracted != bookingID {
		t.Errorf("extracted %v, want %v", extracted, bookingID)
	}

	if !VerifyBookingSignature(qrData, bookingID, ticketID, userID, secret) {
		t.Error("valid signature rejected")
	}
}

func TestVerifyBookingSignatureRejectsTampering(t *testing.T) {
	bookingID := uuid.New()
	ticketID := uuid.New()
	eventID := uuid.New()
	userID := uuid.New()
	secret := "test-secret"

	qrData := BookingQRData(bookingID, ticketID, eventID, userID, secret)

	if VerifyBookingSignature(qrData, bookingID, ticketID, userID, "other-secret") {
		t.Error("signature verified with wrong secret")
	}
	if VerifyBookingSignature(qrData, uuid.New(), ticketID, userID, secret) {
		t.Error("signature verified for different booking")
	}

	tampered := strings.Replace(qrData, "signature:", "signature:00", 1)
	if VerifyBookingSignature(tampered, bookingID, ticketID, userID, secret) {
		t.Error("tampered signature verified")
	}
}

func TestExtractBookingIDRejectsMalformedData(t *testing.T) {
	cases := []string{
		"",
		"booking:not-a-uuid;ticket:x;event:y;signature:z",
		"ticket:first;booking:second;event:y;signature:z",
		"booking:" + uuid.New().String(),
	}
	for _, qrData := range cases {
		if _, err := ExtractBookingID(qrData); err == nil {
			t.Errorf("ExtractBookingID(%q) succeeded, want error", qrData)
		}
	}
}
