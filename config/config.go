package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	MinIO         MinIOConfig         `mapstructure:"minio"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Transcription TranscriptionConfig `mapstructure:"transcription"`
	Gateway       GatewayConfig       `mapstructure:"gateway"`
	Auth          AuthConfig          `mapstructure:"auth"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key"`
	SecretAccessKey string `mapstructure:"secret_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket"`
}

type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// TranscriptionConfig holds the speech-to-text provider settings. The model
// and language are fixed per deployment, not per request.
type TranscriptionConfig struct {
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`
	Model    string `mapstructure:"model"`
	Language string `mapstructure:"language"`
}

// GatewayConfig holds the AI gateway settings used for both structured
// content generation and image generation.
type GatewayConfig struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Model      string `mapstructure:"model"`
	ImageModel string `mapstructure:"image_model"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

func LoadConfig() (*Config, error) {
	// Local development convenience; in containers the env is already set.
	_ = godotenv.Load()

	config := &Config{}

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("kafka.topic", "library.process")
	viper.SetDefault("kafka.group_id", "studyforge-pipeline")
	viper.SetDefault("transcription.base_url", "https://api.openai.com/v1")
	viper.SetDefault("transcription.model", "whisper-1")
	viper.SetDefault("transcription.language", "en")
	viper.SetDefault("gateway.base_url", "https://ai.gateway.lovable.dev/v1")
	viper.SetDefault("gateway.model", "google/gemini-3-flash-preview")
	viper.SetDefault("gateway.image_model", "google/gemini-3-pro-image-preview")
	viper.SetDefault("minio.bucket", "uploads")

	viper.AutomaticEnv()

	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("database.host", "DB_HOST")
	viper.BindEnv("database.port", "DB_PORT")
	viper.BindEnv("database.user", "DB_USER")
	viper.BindEnv("database.password", "DB_PASSWORD")
	viper.BindEnv("database.dbname", "DB_NAME")
	viper.BindEnv("database.sslmode", "DB_SSLMODE")
	viper.BindEnv("minio.endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("minio.access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("minio.secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("minio.use_ssl", "MINIO_USE_SSL")
	viper.BindEnv("minio.bucket", "MINIO_BUCKET_NAME")
	viper.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	viper.BindEnv("kafka.topic", "KAFKA_TOPIC")
	viper.BindEnv("kafka.group_id", "KAFKA_GROUP_ID")
	viper.BindEnv("transcription.api_key", "TRANSCRIPTION_API_KEY")
	viper.BindEnv("transcription.base_url", "TRANSCRIPTION_BASE_URL")
	viper.BindEnv("transcription.model", "TRANSCRIPTION_MODEL")
	viper.BindEnv("transcription.language", "TRANSCRIPTION_LANGUAGE")
	viper.BindEnv("gateway.api_key", "GATEWAY_API_KEY")
	viper.BindEnv("gateway.base_url", "GATEWAY_BASE_URL")
	viper.BindEnv("gateway.model", "GATEWAY_MODEL")
	viper.BindEnv("gateway.image_model", "GATEWAY_IMAGE_MODEL")
	viper.BindEnv("auth.jwt_secret", "JWT_SECRET")

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %v", err)
	}

	return config, nil
}

// Validate reports missing required secrets. Every pipeline invocation would
// fail without them, so main treats this as fatal.
func (c *Config) Validate() error {
	if c.Transcription.APIKey == "" {
		return fmt.Errorf("TRANSCRIPTION_API_KEY is not configured")
	}
	if c.Gateway.APIKey == "" {
		return fmt.Errorf("GATEWAY_API_KEY is not configured")
	}
	if c.Database.User == "" || c.Database.DBName == "" {
		return fmt.Errorf("database credentials are not configured")
	}
	if c.MinIO.Endpoint == "" || c.MinIO.AccessKeyID == "" || c.MinIO.SecretAccessKey == "" {
		return fmt.Errorf("minio credentials are not configured")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
