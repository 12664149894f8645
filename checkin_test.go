package doshii

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/doshii/pkg/errors"
)

const (
	testLocationID = "some0Location5Id9"
	testCheckinID  = "chekc34idje9"
)

func TestCheckinList(t *testing.T) {
	srv := newPartnerServer(t)
	srv.respond(http.StatusOK, `[{"id":"chekc34idje9","status":"pending","covers":"4"}]`)
	c := newTestClient(t, srv)

	checkins, err := c.Checkins.List(context.Background(), testLocationID, nil)
	require.NoError(t, err)
	require.Len(t, checkins, 1)
	assert.Equal(t, testCheckinID, checkins[0].ID)

	req, _ := srv.request(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/partner/v3/checkins", req.URL.Path)
	assert.Empty(t, req.URL.RawQuery)
	assert.Equal(t, testLocationID, req.Header.Get("doshii-location-id"))
	assert.Equal(t, "application/json", req.Header.Get("content-type"))
	assert.Contains(t, req.Header.Get("authorization"), "Bearer ")
}

func TestCheckinListFilters(t *testing.T) {
	srv := newPartnerServer(t)
	srv.respond(http.StatusOK, `[]`)
	c := newTestClient(t, srv)

	aedt := time.FixedZone("AEDT", 11*60*60)
	from := time.Date(2021, 1, 1, 0, 0, 0, 0, aedt)
	to := time.Date(2021, 1, 2, 0, 0, 0, 0, aedt)

	_, err := c.Checkins.List(context.Background(), testLocationID, &ListOptions{
		From:        from,
		To:          to,
		UpdatedFrom: from,
		UpdatedTo:   to,
		Offset:      2,
		Limit:       100,
	})
	require.NoError(t, err)

	req, _ := srv.request(t)
	assert.Equal(t, url.Values{
		"from":        {"1609419600"},
		"to":          {"1609506000"},
		"updatedFrom": {"1609419600"},
		"updatedTo":   {"1609506000"},
		"offset":      {"2"},
		"limit":       {"100"},
	}, req.URL.Query())
}

func TestCheckinGet(t *testing.T) {
	srv := newPartnerServer(t)
	srv.respond(http.StatusOK, `{"id":"chekc34idje9","tableNames":["T1","T2"],"updatedAt":"2021-01-01T10:00:00Z"}`)
	c := newTestClient(t, srv)

	checkin, err := c.Checkins.Get(context.Background(), testLocationID, testCheckinID)
	require.NoError(t, err)
	assert.Equal(t, []string{"T1", "T2"}, checkin.TableNames)
	require.NotNil(t, checkin.UpdatedAt)
	assert.Equal(t, 10, checkin.UpdatedAt.Hour())

	req, _ := srv.request(t)
	assert.Equal(t, "/partner/v3/checkins/"+testCheckinID, req.URL.Path)
}

func TestCheckinOrders(t *testing.T) {
	srv := newPartnerServer(t)
	srv.respond(http.StatusOK, `[{"id":"101","status":"accepted"}]`)
	c := newTestClient(t, srv)

	orders, err := c.Checkins.Orders(context.Background(), testLocationID, testCheckinID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, OrderStatusAccepted, orders[0].Status)

	req, _ := srv.request(t)
	assert.Equal(t, "/partner/v3/checkins/"+testCheckinID+"/orders", req.URL.Path)
}

func TestCheckinCreateAndUpdate(t *testing.T) {
	srv := newPartnerServer(t)
	srv.respond(http.StatusOK, `{"id":"chekc34idje9"}`)
	c := newTestClient(t, srv)
	in := &Checkin{Ref: "ref-1", TableNames: []string{"T1"}, Covers: "2"}

	_, err := c.Checkins.Create(context.Background(), testLocationID, in)
	require.NoError(t, err)
	req, body := srv.request(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/partner/v3/checkins", req.URL.Path)
	assert.JSONEq(t, `{"ref":"ref-1","tableNames":["T1"],"covers":"2"}`, string(body))

	_, err = c.Checkins.Update(context.Background(), testLocationID, testCheckinID, in)
	require.NoError(t, err)
	req, body = srv.request(t)
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/partner/v3/checkins/"+testCheckinID, req.URL.Path)
	assert.JSONEq(t, `{"ref":"ref-1","tableNames":["T1"],"covers":"2"}`, string(body))
}

func TestCheckinFailures(t *testing.T) {
	srv := newPartnerServer(t)
	srv.respond(http.StatusInternalServerError, `{"error":"failed"}`)
	c := newTestClient(t, srv)

	_, err := c.Checkins.List(context.Background(), testLocationID, nil)
	require.Error(t, err)
	assert.True(t, errors.IsProviderUnavailable(err))

	_, err = c.Checkins.Get(context.Background(), testLocationID, "")
	assert.True(t, errors.IsValidationError(err))
	assert.Equal(t, 1, srv.requests(), "invalid input must not reach the API")
}
