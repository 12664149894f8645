package transport

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/agentstation/doshii/pkg/errors"
)

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request) error
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request) error {
	return nil
}

// JWTAuth signs a short-lived HS256 bearer token for every request. The
// token carries the client id and the signing time in unix seconds.
type JWTAuth struct {
	ClientID string
	Secret   string

	// Now defaults to time.Now.
	Now func() time.Time
}

// Token returns a freshly signed bearer token.
func (a *JWTAuth) Token() (string, error) {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	if a.ClientID == "" || a.Secret == "" {
		return "", errors.NewAuthenticationError("jwt", "client id and secret are required", nil)
	}
	issued := now().Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"clientId":  a.ClientID,
		"timestamp": issued,
		"iat":       issued,
	})
	signed, err := token.SignedString([]byte(a.Secret))
	if err != nil {
		return "", errors.NewAuthenticationError("jwt", "failed to sign token", err)
	}
	return signed, nil
}

// Apply implements the Authenticator interface for JWTAuth.
func (a *JWTAuth) Apply(req *http.Request) error {
	token, err := a.Token()
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}
