package doshii

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/doshii/pkg/errors"
)

func TestAPIKey(t *testing.T) {
	key := APIKey("client", "secret", "app-9")

	digest, appID, ok := strings.Cut(key, ":")
	require.True(t, ok)
	assert.Equal(t, "app-9", appID)
	assert.Len(t, digest, 64)

	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte("client"))
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), digest)

	assert.NotEqual(t, key, APIKey("client", "other", "app-9"))
}

func TestBulkDataAggregation(t *testing.T) {
	srv := newPartnerServer(t)
	srv.respond(http.StatusOK, `{"id":"req-1","status":"pending"}`)
	c := newTestClient(t, srv, WithAppID("app-9"))

	got, err := c.RequestBulkDataAggregation(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "req-1", got.ID)

	req, body := srv.request(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/partner/v3/data/orders", req.URL.Path)
	assert.Equal(t, APIKey(c.clientID, c.secret, "app-9"), req.Header.Get("X-API-KEY"))
	assert.Empty(t, body)

	srv.respond(http.StatusOK, `{"id":"req-1","status":"complete","resourceUrl":"https://example.com/orders.csv"}`)
	got, err = c.BulkDataAggregationStatus(context.Background(), "req-1", "orders", "app-override")
	require.NoError(t, err)
	assert.Equal(t, "complete", got.Status)

	req, _ = srv.request(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/partner/v3/data/orders/req-1", req.URL.Path)
	assert.Equal(t, APIKey(c.clientID, c.secret, "app-override"), req.Header.Get("X-API-KEY"))
}

func TestBulkDataRequiresAppID(t *testing.T) {
	srv := newPartnerServer(t)
	c := newTestClient(t, srv)

	_, err := c.RequestBulkDataAggregation(context.Background(), "orders", "")
	assert.True(t, errors.IsValidationError(err))

	_, err = c.BulkDataAggregationStatus(context.Background(), "", "orders", "app-9")
	assert.True(t, errors.IsValidationError(err))
	assert.Zero(t, srv.requests())
}
