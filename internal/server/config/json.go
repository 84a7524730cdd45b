package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/baibai/internal/flagx"
	"github.com/dmitrijs2005/baibai/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file. Duration
// fields accept both "15m" strings and integer nanoseconds. Fields left out
// of the file keep their previous values.
type JsonConfig struct {
	HTTPAddr                     string          `json:"http_addr"`
	DatabaseDSN                  string          `json:"database_dsn"`
	AccessTokenSecret            string          `json:"access_token_secret"`
	RefreshTokenSecret           string          `json:"refresh_token_secret"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	PasswordHashCost             int             `json:"password_hash_cost"`
	ImageStorage                 string          `json:"image_storage"`
	UploadsDir                   string          `json:"uploads_dir"`
	MaxImageSize                 int64           `json:"max_image_size"`
	S3RootUser                   string          `json:"s3_root_user"`
	S3RootPassword               string          `json:"s3_root_password"`
	S3Bucket                     string          `json:"s3_bucket"`
	S3Region                     string          `json:"s3_region"`
	S3BaseEndpoint               string          `json:"s3_base_endpoint"`
	LogLevel                     string          `json:"log_level"`
}

// parseJson loads the file named by -c/-config (if any) into config.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.AccessTokenSecret, c.AccessTokenSecret)
	setString(&config.RefreshTokenSecret, c.RefreshTokenSecret)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.PasswordHashCost != 0 {
		config.PasswordHashCost = c.PasswordHashCost
	}
	setString(&config.ImageStorage, c.ImageStorage)
	setString(&config.UploadsDir, c.UploadsDir)
	if c.MaxImageSize != 0 {
		config.MaxImageSize = c.MaxImageSize
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.LogLevel, c.LogLevel)

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
