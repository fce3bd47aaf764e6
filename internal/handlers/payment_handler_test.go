package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/P-ZeN/be-out-apps-sub001/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newCallbackRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/v1/payments/xendit/callback", XenditInvoiceCallback)
	return r
}

func doCallback(t *testing.T, r *gin.Engine, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/payments/xendit/callback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("x-callback-token", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestXenditCallbackRejectsBadToken(t *testing.T) {
	t.Setenv("XENDIT_CALLBACK_TOKEN", "cb-secret")
	r := newCallbackRouter()
	body := `{"external_id":"` + uuid.New().String() + `","status":"PAID"}`

	w := doCallback(t, r, "", body)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing token status = %d, want 401", w.Code)
	}

	w = doCallback(t, r, "wrong-secret", body)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token status = %d, want 401", w.Code)
	}
}

func TestXenditCallbackPayloadValidation(t *testing.T) {
	t.Setenv("XENDIT_CALLBACK_TOKEN", "cb-secret")
	r := newCallbackRouter()

	w := doCallback(t, r, "cb-secret", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty payload status = %d, want 400", w.Code)
	}

	w = doCallback(t, r, "cb-secret", `{"external_id":"not-a-uuid","status":"PAID"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed external_id status = %d, want 400", w.Code)
	}
}

func TestXenditCallbackIgnoresNonSettlementStatus(t *testing.T) {
	t.Setenv("XENDIT_CALLBACK_TOKEN", "cb-secret")
	r := newCallbackRouter()

	// Non-settlement notifications are acknowledged before any database
	// access, so no booking is touched.
	body := `{"external_id":"` + uuid.New().String() + `","status":"PENDING"}`
	w := doCallback(t, r, "cb-secret", body)
	if w.Code != http.StatusOK {
		t.Errorf("pending notification status = %d, want 200", w.Code)
	}
}

func TestBookingStatusForInvoice(t *testing.T) {
	tests := []struct {
		invoiceStatus string
		wantBooking   string
		wantPayment   string
		wantOK        bool
	}{
		{"PAID", models.BookingStatusConfirmed, "paid", true},
		{"SETTLED", models.BookingStatusConfirmed, "paid", true},
		{"EXPIRED", models.BookingStatusCancelled, "expired", true},
		{"PENDING", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		bookingStatus, paymentStatus, ok := bookingStatusForInvoice(tt.invoiceStatus)
		if bookingStatus != tt.wantBooking || paymentStatus != tt.wantPayment || ok != tt.wantOK {
			t.Errorf("bookingStatusForInvoice(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.invoiceStatus, bookingStatus, paymentStatus, ok, tt.wantBooking, tt.wantPayment, tt.wantOK)
		}
	}
}
