package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"retailpos/config"
	"retailpos/models"
)

// sendGridStub fakes the three SendGrid endpoints the app talks to.
type sendGridStub struct {
	mu            sync.Mutex
	profileStatus int
	verifiedEmail string
	sendStatus    int
	sendCalls     int
}

func (s *sendGridStub) setSendStatus(code int) {
	s.mu.Lock()
	s.sendStatus = code
	s.mu.Unlock()
}

func (s *sendGridStub) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sendCalls
}

func (s *sendGridStub) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v3/user/profile":
			w.WriteHeader(s.profileStatus)
		case "/v3/verified_senders":
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"results": []map[string]interface{}{
					{"from_email": s.verifiedEmail, "verified": true},
				},
			})
		case "/v3/mail/send":
			s.mu.Lock()
			s.sendCalls++
			status := s.sendStatus
			s.mu.Unlock()
			w.WriteHeader(status)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func TestVerifySendGrid(t *testing.T) {
	stub := &sendGridStub{profileStatus: 200, verifiedEmail: "shop@example.com"}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	app, _ := newTestApp(t)
	config.AppConfig.SendGridBaseURL = server.URL

	// Missing fields.
	status, body := doJSON(t, app, "POST", "/api/v1/settings/email/verify", map[string]string{})
	assert.Equal(t, 400, status)
	assert.Contains(t, body["error"], "required")

	// Key must start with SG.
	status, _ = doJSON(t, app, "POST", "/api/v1/settings/email/verify", map[string]string{
		"apiKey": "nope", "senderEmail": "shop@example.com",
	})
	assert.Equal(t, 400, status)

	// Valid key, verified sender.
	status, body = doJSON(t, app, "POST", "/api/v1/settings/email/verify", map[string]string{
		"apiKey": "SG.valid", "senderEmail": "shop@example.com",
	})
	assert.Equal(t, 200, status)
	assert.Equal(t, true, body["success"])

	// Valid key, unverified sender.
	status, _ = doJSON(t, app, "POST", "/api/v1/settings/email/verify", map[string]string{
		"apiKey": "SG.valid", "senderEmail": "other@example.com",
	})
	assert.Equal(t, 403, status)

	// Rejected key.
	stub.profileStatus = 401
	status, _ = doJSON(t, app, "POST", "/api/v1/settings/email/verify", map[string]string{
		"apiKey": "SG.expired", "senderEmail": "shop@example.com",
	})
	assert.Equal(t, 401, status)
}

func TestResendEmail(t *testing.T) {
	stub := &sendGridStub{sendStatus: 202}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	app, st := newTestApp(t)
	config.AppConfig.SendGridBaseURL = server.URL
	st.SetEmailSettings(models.EmailSettings{
		APIKey: "SG.valid", SenderEmail: "shop@example.com", SenderName: "Retail Store",
	})

	// No bill.
	status, _ := doJSON(t, app, "POST", "/api/v1/bills/UNKNOWN/email", nil)
	assert.Equal(t, 404, status)

	// Bill without a customer email.
	_, _ = doJSON(t, app, "POST", "/api/v1/cart/items", models.AddCartItemRequest{Code: "P002", Quantity: 1})
	_, _ = doJSON(t, app, "POST", "/api/v1/checkout", models.CheckoutRequest{PaymentMethod: "upi"})
	noEmailBill := st.Bills()[0].ID

	status, _ = doJSON(t, app, "POST", "/api/v1/bills/"+noEmailBill+"/email", nil)
	assert.Equal(t, 400, status)

	// Bill with an email: accepted by the stub, flag recorded.
	_, _ = doJSON(t, app, "POST", "/api/v1/cart/items", models.AddCartItemRequest{Code: "P003", Quantity: 1})
	_, _ = doJSON(t, app, "POST", "/api/v1/checkout", models.CheckoutRequest{
		PaymentMethod: "card",
		CustomerEmail: "buyer@example.com",
		CardDetails:   &models.CardDetails{Number: "4111", Expiry: "12/30", CVV: "123", Name: "Buyer"},
	})
	billID := st.Bills()[0].ID

	status, body := doJSON(t, app, "POST", "/api/v1/bills/"+billID+"/email", nil)
	assert.Equal(t, 200, status)
	assert.Equal(t, true, body["success"])
	assert.GreaterOrEqual(t, stub.calls(), 1)

	bill, _ := st.FindBill(billID)
	assert.NotNil(t, bill.EmailSent)
	assert.True(t, *bill.EmailSent)
}

func TestResendEmailAuthFailures(t *testing.T) {
	stub := &sendGridStub{sendStatus: 401}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	app, st := newTestApp(t)
	config.AppConfig.SendGridBaseURL = server.URL
	st.SetEmailSettings(models.EmailSettings{
		APIKey: "SG.bad", SenderEmail: "shop@example.com", SenderName: "Retail Store",
	})

	_, _ = doJSON(t, app, "POST", "/api/v1/cart/items", models.AddCartItemRequest{Code: "P002", Quantity: 1})
	_, _ = doJSON(t, app, "POST", "/api/v1/checkout", models.CheckoutRequest{
		PaymentMethod: "upi",
		CustomerEmail: "buyer@example.com",
	})
	billID := st.Bills()[0].ID

	status, _ := doJSON(t, app, "POST", "/api/v1/bills/"+billID+"/email", nil)
	assert.Equal(t, 401, status)

	stub.setSendStatus(403)
	status, _ = doJSON(t, app, "POST", "/api/v1/bills/"+billID+"/email", nil)
	assert.Equal(t, 403, status)

	// Missing configuration maps to 400 before any request is made.
	st.SetEmailSettings(models.EmailSettings{})
	status, _ = doJSON(t, app, "POST", "/api/v1/bills/"+billID+"/email", nil)
	assert.Equal(t, 400, status)
}
