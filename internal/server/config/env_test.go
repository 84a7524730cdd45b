package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestParseEnv(t *testing.T) {
	c := validConfig()
	err := parseEnv(c, lookupFrom(map[string]string{
		"HTTP_ADDR":            ":9999",
		"ACCESS_TOKEN_SECRET":  "env-access",
		"REFRESH_TOKEN_SECRET": "env-refresh",
		"ACCESS_TOKEN_TTL":     "10m",
		"REFRESH_TOKEN_TTL":    "48h",
		"PASSWORD_HASH_COST":   "4",
		"MAX_IMAGE_SIZE":       "2048",
		"IMAGE_STORAGE":        "s3",
		"S3_BUCKET":            "images",
		"UPLOADS_DIR":          "",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9999", c.HTTPAddr)
	assert.Equal(t, "env-access", c.AccessTokenSecret)
	assert.Equal(t, "env-refresh", c.RefreshTokenSecret)
	assert.Equal(t, 10*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 48*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, 4, c.PasswordHashCost)
	assert.Equal(t, int64(2048), c.MaxImageSize)
	assert.Equal(t, "s3", c.ImageStorage)
	assert.Equal(t, "images", c.S3Bucket)
	assert.Equal(t, "uploads", c.UploadsDir, "empty values must not override")
}

func TestParseEnv_InvalidValues(t *testing.T) {
	for key, value := range map[string]string{
		"ACCESS_TOKEN_TTL":   "fifteen",
		"PASSWORD_HASH_COST": "high",
		"MAX_IMAGE_SIZE":     "1MB",
	} {
		t.Run(key, func(t *testing.T) {
			err := parseEnv(validConfig(), lookupFrom(map[string]string{key: value}))
			require.ErrorContains(t, err, key)
		})
	}
}
