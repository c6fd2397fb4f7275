package paymentprovider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments/12345", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "12345",
			"status": "approved",
			"external_reference": "user-abc-subscription-first-year-1700000000000",
			"transaction_amount": 499.00
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-token", srv.URL)
	payment, err := client.GetPayment(context.Background(), "12345")
	require.NoError(t, err)
	assert.Equal(t, "12345", payment.ID)
	assert.Equal(t, StatusApproved, payment.Status)
	assert.Equal(t, "user-abc-subscription-first-year-1700000000000", payment.ExternalReference)
	assert.InDelta(t, 499.00, payment.TransactionAmount, 0.001)
}

func TestGetPayment_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient("test-token", srv.URL)
	_, err := client.GetPayment(context.Background(), "missing")
	assert.Error(t, err)
}

func TestCreatePreference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/checkout/preferences", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "pref-1", "init_point": "https://provider.test/pay/pref-1"}`))
	}))
	defer srv.Close()

	client := NewClient("test-token", srv.URL)
	resp, err := client.CreatePreference(context.Background(), CreatePreferenceRequest{
		Items:             []PreferenceItem{{Title: "cardlink subscription", Quantity: 1, UnitPrice: 499.00}},
		ExternalReference: "user-abc-subscription-first-year-1700000000000",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://provider.test/pay/pref-1", resp.InitPoint)
}
