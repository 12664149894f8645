// Package config resolves Doshii partner credentials from the environment
// and the viper configuration.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/agentstation/doshii/pkg/constants"
	"github.com/agentstation/doshii/pkg/errors"
)

// EnvPrefix prefixes every environment variable read by the CLI.
const EnvPrefix = "DOSHII"

// Config file keys. The environment variable for a key is EnvName(key).
const (
	KeyClientID     = "client_id"
	KeyClientSecret = "client_secret"
	KeyAppID        = "app_id"
	KeySandbox      = "sandbox"
	KeyAPIVersion   = "api_version"
)

// EnvName returns the environment variable carrying key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(key)
}

// GetString is a helper to get string values from Viper.
// It checks both the prefixed OS environment variable and Viper configuration.
func GetString(key string) string {
	osValue := os.Getenv(EnvName(key))
	viperValue := viper.GetString(key)

	// If Viper doesn't have it but OS does, return OS value
	if viperValue == "" && osValue != "" {
		return osValue
	}
	return viperValue
}

// Credentials identify a partner application.
type Credentials struct {
	ClientID     string
	ClientSecret string
	AppID        string
	Sandbox      bool
	APIVersion   int
}

// LoadCredentials reads credentials from the environment and the active
// viper configuration. Unparseable sandbox or version values fall back to
// live and the default API version.
func LoadCredentials() Credentials {
	c := Credentials{
		ClientID:     GetString(KeyClientID),
		ClientSecret: GetString(KeyClientSecret),
		AppID:        GetString(KeyAppID),
		APIVersion:   constants.DefaultAPIVersion,
	}
	if sandbox, err := strconv.ParseBool(GetString(KeySandbox)); err == nil {
		c.Sandbox = sandbox
	}
	if version, err := strconv.Atoi(GetString(KeyAPIVersion)); err == nil && version > 0 {
		c.APIVersion = version
	}
	return c
}

// Validate reports the first missing credential.
func (c Credentials) Validate() error {
	if c.ClientID == "" {
		return errors.NewConfigError("credentials", EnvName(KeyClientID)+" is not set", nil)
	}
	if c.ClientSecret == "" {
		return errors.NewConfigError("credentials", EnvName(KeyClientSecret)+" is not set", nil)
	}
	return nil
}
