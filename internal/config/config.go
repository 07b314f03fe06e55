package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverS3    = "s3"
	DriverMinio = "minio"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Storage struct {
		Driver          string
		Region          string
		Endpoint        string
		Bucket          string
		AccessKeyID     string
		SecretAccessKey string
	}
	Client struct {
		ServerURL string
	}
	Log struct {
		Level string
	}
}

// Load reads configuration from environment variables and optional config files.
// It does not validate; servers call Validate before wiring storage.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("FILEDROP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("storage.driver", DriverS3)
	v.SetDefault("storage.region", "")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.accesskeyid", "")
	v.SetDefault("storage.secretaccesskey", "")
	v.SetDefault("client.serverurl", "http://localhost:8080")
	v.SetDefault("log.level", "info")

	// The store settings keep the plain S3_* names.
	_ = v.BindEnv("storage.region", "S3_REGION")
	_ = v.BindEnv("storage.endpoint", "S3_ENDPOINT")
	_ = v.BindEnv("storage.bucket", "S3_BUCKET_NAME")
	_ = v.BindEnv("storage.accesskeyid", "S3_ACCESS_KEY_ID")
	_ = v.BindEnv("storage.secretaccesskey", "S3_SECRET_ACCESS_KEY")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Validate reports every missing storage setting at once.
func (c Config) Validate() error {
	required := []struct {
		env   string
		value string
	}{
		{"S3_REGION", c.Storage.Region},
		{"S3_ENDPOINT", c.Storage.Endpoint},
		{"S3_BUCKET_NAME", c.Storage.Bucket},
		{"S3_ACCESS_KEY_ID", c.Storage.AccessKeyID},
		{"S3_SECRET_ACCESS_KEY", c.Storage.SecretAccessKey},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}

	switch c.Storage.Driver {
	case DriverS3, DriverMinio:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}
