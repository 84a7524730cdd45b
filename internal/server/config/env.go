package config

import (
	"fmt"
	"strconv"
	"time"
)

// parseEnv overlays values from environment variables. lookup is usually
// os.LookupEnv.
//
//	HTTP_ADDR, DATABASE_DSN, ACCESS_TOKEN_SECRET, REFRESH_TOKEN_SECRET,
//	ACCESS_TOKEN_TTL, REFRESH_TOKEN_TTL (Go durations), PASSWORD_HASH_COST,
//	IMAGE_STORAGE, UPLOADS_DIR, MAX_IMAGE_SIZE, S3_ROOT_USER,
//	S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT, LOG_LEVEL
func parseEnv(config *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"HTTP_ADDR":            &config.HTTPAddr,
		"DATABASE_DSN":         &config.DatabaseDSN,
		"ACCESS_TOKEN_SECRET":  &config.AccessTokenSecret,
		"REFRESH_TOKEN_SECRET": &config.RefreshTokenSecret,
		"IMAGE_STORAGE":        &config.ImageStorage,
		"UPLOADS_DIR":          &config.UploadsDir,
		"S3_ROOT_USER":         &config.S3RootUser,
		"S3_ROOT_PASSWORD":     &config.S3RootPassword,
		"S3_BUCKET":            &config.S3Bucket,
		"S3_REGION":            &config.S3Region,
		"S3_BASE_ENDPOINT":     &config.S3BaseEndpoint,
		"LOG_LEVEL":            &config.LogLevel,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"ACCESS_TOKEN_TTL":  &config.AccessTokenValidityDuration,
		"REFRESH_TOKEN_TTL": &config.RefreshTokenValidityDuration,
	}
	for key, dst := range durations {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = d
		}
	}

	if v, ok := lookup("PASSWORD_HASH_COST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PASSWORD_HASH_COST: %w", err)
		}
		config.PasswordHashCost = n
	}

	if v, ok := lookup("MAX_IMAGE_SIZE"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MAX_IMAGE_SIZE: %w", err)
		}
		config.MaxImageSize = n
	}

	return nil
}
