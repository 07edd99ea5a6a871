package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	var gotAuth string
	var gotBody sendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret-token")
	err := client.SendMessage(context.Background(), "+491234567890", "Hallo")
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "+491234567890", gotBody.To)
	assert.Equal(t, "Hallo", gotBody.Body)
}

func TestSendMessage_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret-token")
	err := client.SendMessage(context.Background(), "+491234567890", "Hallo")

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusTooManyRequests, rejected.StatusCode)
}

func TestSendMessage_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "secret-token")
	err := client.SendMessage(context.Background(), "+491234567890", "Hallo")
	assert.Error(t, err)
}
