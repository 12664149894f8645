package doshii

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/agentstation/utc"

	"github.com/agentstation/doshii/pkg/constants"
	"github.com/agentstation/doshii/pkg/errors"
)

// BulkDataRequest is an asynchronous data aggregation request.
type BulkDataRequest struct {
	ID          string    `json:"id"`
	Dataset     string    `json:"dataset,omitempty"`
	Status      string    `json:"status"`
	ResourceURL string    `json:"resourceUrl,omitempty"`
	ExpiresAt   *utc.Time `json:"expiresAt,omitempty"`
	UpdatedAt   *utc.Time `json:"updatedAt,omitempty"`
	CreatedAt   *utc.Time `json:"createdAt,omitempty"`
}

// APIKey derives the bulk data key for an application: the hex HMAC-SHA256
// of the client id keyed by the client secret, then ":" and the app id.
func APIKey(clientID, clientSecret, appID string) string {
	mac := hmac.New(sha256.New, []byte(clientSecret))
	mac.Write([]byte(clientID))
	return hex.EncodeToString(mac.Sum(nil)) + ":" + appID
}

// apiKey resolves the key for appID, falling back to the app id the client
// was built with.
func (c *Client) apiKey(appID string) (string, error) {
	if appID == "" {
		appID = c.options.appID
	}
	if appID == "" {
		return "", errors.NewValidationError("appID", appID, "is required when the client has no app id")
	}
	return APIKey(c.clientID, c.secret, appID), nil
}

// RequestBulkDataAggregation submits an aggregation of dataset, "orders"
// when empty. appID may be empty when the client was built WithAppID.
func (c *Client) RequestBulkDataAggregation(ctx context.Context, dataset, appID string) (*BulkDataRequest, error) {
	return c.bulkData(ctx, http.MethodPost, dataset, "", appID)
}

// BulkDataAggregationStatus returns the state of a previously submitted
// aggregation request.
func (c *Client) BulkDataAggregationStatus(ctx context.Context, requestID, dataset, appID string) (*BulkDataRequest, error) {
	if err := required("requestID", requestID); err != nil {
		return nil, err
	}
	return c.bulkData(ctx, http.MethodGet, dataset, requestID, appID)
}

func (c *Client) bulkData(ctx context.Context, method, dataset, requestID, appID string) (*BulkDataRequest, error) {
	key, err := c.apiKey(appID)
	if err != nil {
		return nil, err
	}
	if dataset == "" {
		dataset = constants.DefaultDataset
	}
	path := join("data", dataset)
	if requestID != "" {
		path = join("data", dataset, requestID)
	}
	header := make(http.Header)
	header.Set(constants.HeaderAPIKey, key)

	var out BulkDataRequest
	if err := (service{api: c.api}).do(ctx, call{method: method, path: path, header: header}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
