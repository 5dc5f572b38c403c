package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TRANSCRIPTION_API_KEY", "sk-test")
	t.Setenv("GATEWAY_API_KEY", "gw-test")
	t.Setenv("DB_USER", "studyforge")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "studyforge")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_ACCESS_KEY", "minio")
	t.Setenv("MINIO_SECRET_KEY", "minio123")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "library.process", cfg.Kafka.Topic)
	assert.Equal(t, "whisper-1", cfg.Transcription.Model)
	assert.Equal(t, "en", cfg.Transcription.Language)
	assert.Equal(t, "google/gemini-3-flash-preview", cfg.Gateway.Model)
	assert.Equal(t, "google/gemini-3-pro-image-preview", cfg.Gateway.ImageModel)
	assert.Equal(t, "uploads", cfg.MinIO.BucketName)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("GATEWAY_MODEL", "google/gemini-3-pro")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "google/gemini-3-pro", cfg.Gateway.Model)
	assert.Equal(t, "kafka-1:9092,kafka-2:9092", cfg.Kafka.Brokers)
}

func TestValidateMissingKeys(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	cfg.Transcription.APIKey = ""
	assert.ErrorContains(t, cfg.Validate(), "TRANSCRIPTION_API_KEY")

	cfg.Transcription.APIKey = "sk-test"
	cfg.Gateway.APIKey = ""
	assert.ErrorContains(t, cfg.Validate(), "GATEWAY_API_KEY")

	cfg.Gateway.APIKey = "gw-test"
	cfg.MinIO.Endpoint = ""
	assert.ErrorContains(t, cfg.Validate(), "minio")
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{
		Host:     "db.internal",
		Port:     "5432",
		User:     "studyforge",
		Password: "secret",
		DBName:   "studyforge",
		SSLMode:  "require",
	}
	assert.Equal(t, "host=db.internal port=5432 user=studyforge password=secret dbname=studyforge sslmode=require", db.DSN())
}
