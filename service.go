package doshii

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/doshii/internal/transport"
	"github.com/agentstation/doshii/pkg/constants"
	"github.com/agentstation/doshii/pkg/errors"
)

// service is embedded by every resource service.
type service struct {
	api *transport.Client
}

// call is one request, optionally scoped to a location.
type call struct {
	method   string
	path     string
	location string
	query    url.Values
	header   http.Header
	body     any
}

func (s service) do(ctx context.Context, c call, out any) error {
	header := c.header
	if c.location != "" {
		if header == nil {
			header = make(http.Header)
		}
		header.Set(constants.HeaderLocationID, c.location)
	}
	return s.api.Do(ctx, transport.Request{
		Method: c.method,
		Path:   c.path,
		Query:  c.query,
		Header: header,
		Body:   c.body,
	}, out)
}

// join builds a path from escaped segments.
func join(segments ...string) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// required rejects empty identifiers before a request is sent.
func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewValidationError(field, value, "is required")
	}
	return nil
}

// ListOptions filters list endpoints. Zero values are omitted; times are
// sent as unix seconds.
type ListOptions struct {
	From        time.Time
	To          time.Time
	UpdatedFrom time.Time
	UpdatedTo   time.Time
	Offset      int
	Limit       int
}

func (o *ListOptions) values() url.Values {
	v := url.Values{}
	if o == nil {
		return v
	}
	setUnix(v, "from", o.From)
	setUnix(v, "to", o.To)
	setUnix(v, "updatedFrom", o.UpdatedFrom)
	setUnix(v, "updatedTo", o.UpdatedTo)
	if o.Offset > 0 {
		v.Set("offset", strconv.Itoa(o.Offset))
	}
	if o.Limit > 0 {
		v.Set("limit", strconv.Itoa(o.Limit))
	}
	return v
}

func setUnix(v url.Values, key string, t time.Time) {
	if !t.IsZero() {
		v.Set(key, strconv.FormatInt(t.Unix(), 10))
	}
}

// Message is the body of simple acknowledgement responses.
type Message struct {
	Message string `json:"message"`
}
