package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionBaseURL(t *testing.T) {
	cases := map[Region]string{
		RegionUS: "https://api.us.frontegg.com",
		RegionEU: "https://api.frontegg.com",
		RegionAU: "https://api.au.frontegg.com",
		RegionCA: "https://api.ca.frontegg.com",
	}
	for region, expected := range cases {
		url, err := region.BaseURL()
		require.NoError(t, err)
		assert.Equal(t, expected, url)
	}

	_, err := Region("MARS").BaseURL()
	assert.ErrorIs(t, err, ErrInvalidRegion)
}

func TestLoadFromEnv(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("SR_CLIENT_ID", "client")
		t.Setenv("SR_SECRET", "secret")

		cfg, err := LoadFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "client", cfg.ClientID)
		assert.Equal(t, RegionEU, cfg.Region)
		assert.Equal(t, uint64(200), cfg.PageSize)
		assert.True(t, cfg.IncludeSubTenants)
		assert.Equal(t, "execution.log", cfg.ExecutionLog)
		assert.Equal(t, 10*time.Second, cfg.ProgressInterval)
		assert.True(t, cfg.IsEnvProduction())

		url, err := cfg.APIBaseURL()
		require.NoError(t, err)
		assert.Equal(t, "https://api.frontegg.com", url)
	})

	t.Run("normalizes the region", func(t *testing.T) {
		t.Setenv("SR_REGION", " au ")

		cfg, err := LoadFromEnv()
		require.NoError(t, err)
		assert.Equal(t, RegionAU, cfg.Region)
	})

	t.Run("rejects unknown regions", func(t *testing.T) {
		t.Setenv("SR_REGION", "APAC")

		_, err := LoadFromEnv()
		assert.ErrorIs(t, err, ErrInvalidRegion)
	})

	t.Run("base URL overrides the region", func(t *testing.T) {
		t.Setenv("SR_REGION", "APAC")
		t.Setenv("SR_BASE_URL", "http://localhost:8089/")

		cfg, err := LoadFromEnv()
		require.NoError(t, err)
		url, err := cfg.APIBaseURL()
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8089", url)
	})
}
