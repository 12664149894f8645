package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/doshii/pkg/constants"
	"github.com/agentstation/doshii/pkg/errors"
)

func TestEnvName(t *testing.T) {
	assert.Equal(t, "DOSHII_CLIENT_ID", EnvName(KeyClientID))
	assert.Equal(t, "DOSHII_API_VERSION", EnvName(KeyAPIVersion))
}

func TestLoadCredentials(t *testing.T) {
	t.Run("from environment", func(t *testing.T) {
		t.Setenv("DOSHII_CLIENT_ID", "client")
		t.Setenv("DOSHII_CLIENT_SECRET", "secret")
		t.Setenv("DOSHII_APP_ID", "app-9")
		t.Setenv("DOSHII_SANDBOX", "true")
		t.Setenv("DOSHII_API_VERSION", "2")

		c := LoadCredentials()
		assert.Equal(t, Credentials{
			ClientID:     "client",
			ClientSecret: "secret",
			AppID:        "app-9",
			Sandbox:      true,
			APIVersion:   2,
		}, c)
		assert.NoError(t, c.Validate())
	})

	t.Run("bad values fall back", func(t *testing.T) {
		t.Setenv("DOSHII_SANDBOX", "maybe")
		t.Setenv("DOSHII_API_VERSION", "-1")

		c := LoadCredentials()
		assert.False(t, c.Sandbox)
		assert.Equal(t, constants.DefaultAPIVersion, c.APIVersion)
	})

	t.Run("missing credentials", func(t *testing.T) {
		t.Setenv("DOSHII_CLIENT_ID", "")
		t.Setenv("DOSHII_CLIENT_SECRET", "")

		err := LoadCredentials().Validate()
		require.Error(t, err)
		var cfgErr *errors.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, cfgErr.Message, "DOSHII_CLIENT_ID")

		err = Credentials{ClientID: "client"}.Validate()
		assert.ErrorContains(t, err, "DOSHII_CLIENT_SECRET")
	})
}
