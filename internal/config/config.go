package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env        Env
	Server     ServerConfig
	Database   DatabaseConfig
	NATS       NATSConfig
	S3         S3Config
	GraphDrive GraphDriveConfig
	Upload     UploadConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"localhost"`
	Port string `envconfig:"SERVER_PORT" default:"8080"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" required:"true"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" required:"true"`
	Password       string        `envconfig:"DB_PASSWORD" required:"true"`
	Name           string        `envconfig:"DB_NAME" required:"true"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

type NATSConfig struct {
	URL            string        `envconfig:"NATS_URL" required:"true"`
	ClientName     string        `envconfig:"NATS_CLIENT_NAME" default:"roomfiles-api"`
	StreamName     string        `envconfig:"NATS_STREAM_NAME" default:"UPLOAD_EVENTS"`
	Subject        string        `envconfig:"NATS_SUBJECT" default:"uploads.progress"`
	SessionBucket  string        `envconfig:"NATS_SESSION_BUCKET" default:"upload-sessions"`
	EventRetention time.Duration `envconfig:"NATS_EVENT_RETENTION" default:"24h"`
}

type S3Config struct {
	Endpoint                string        `envconfig:"S3_ENDPOINT" required:"true"`
	BucketName              string        `envconfig:"S3_BUCKET_NAME" required:"true"`
	AccessKey               string        `envconfig:"S3_ACCESS_KEY" required:"true"`
	SecretKey               string        `envconfig:"S3_SECRET_KEY" required:"true"`
	SimplePresignedDuration time.Duration `envconfig:"S3_SIMPLE_PRESIGNED_DURATION" default:"15m"`
	PartPresignedDuration   time.Duration `envconfig:"S3_PART_PRESIGNED_DURATION" default:"15m"`
	UseSSL                  bool          `envconfig:"S3_USE_SSL" default:"false"`
}

type GraphDriveConfig struct {
	BaseURL          string        `envconfig:"GRAPH_BASE_URL" default:"https://graph.microsoft.com/v1.0"`
	DriveID          string        `envconfig:"GRAPH_DRIVE_ID"`
	AccessToken      string        `envconfig:"GRAPH_ACCESS_TOKEN"`
	RequestTimeout   time.Duration `envconfig:"GRAPH_REQUEST_TIMEOUT" default:"30s"`
	UploadSessionTTL time.Duration `envconfig:"GRAPH_UPLOAD_SESSION_TTL" default:"1h"`
	DownloadURLTTL   time.Duration `envconfig:"GRAPH_DOWNLOAD_URL_TTL" default:"1h"`
}

type UploadConfig struct {
	DefaultAccountID string        `envconfig:"UPLOAD_DEFAULT_ACCOUNT_ID" default:"s3-default"`
	GracePeriod      time.Duration `envconfig:"UPLOAD_GRACE_PERIOD" default:"1h"`
	IdleTimeout      time.Duration `envconfig:"UPLOAD_IDLE_TIMEOUT" default:"6h"`
	SweepEvery       time.Duration `envconfig:"UPLOAD_SWEEP_EVERY" default:"15m"`
	SharedSessions   bool          `envconfig:"UPLOAD_SHARED_SESSIONS" default:"false"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
