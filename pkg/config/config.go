package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable consumed by the service.
	EnvPrefix = "FESTIVAL"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	Mongo         MongoConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Admin         AdminConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Cloudinary    CloudinaryConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if strings.TrimSpace(cfg.Admin.SharedSecret) == "" {
		return nil, fmt.Errorf("FESTIVAL_ADMIN_SHARED_SECRET is required")
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FESTIVAL_APP_ENV" required:"true"`
	Port         string `envconfig:"FESTIVAL_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"FESTIVAL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FESTIVAL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type MongoConfig struct {
	URI            string        `envconfig:"FESTIVAL_MONGO_URI" required:"true"`
	Database       string        `envconfig:"FESTIVAL_MONGO_DATABASE" default:"festival"`
	ConnectTimeout time.Duration `envconfig:"FESTIVAL_MONGO_CONNECT_TIMEOUT" default:"10s"`
	MaxPoolSize    uint64        `envconfig:"FESTIVAL_MONGO_MAX_POOL_SIZE" default:"20"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FESTIVAL_REDIS_URL"`
	Address      string        `envconfig:"FESTIVAL_REDIS_ADDR"`
	Password     string        `envconfig:"FESTIVAL_REDIS_PASSWORD"`
	DB           int           `envconfig:"FESTIVAL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FESTIVAL_REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"FESTIVAL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FESTIVAL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FESTIVAL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret          string `envconfig:"FESTIVAL_JWT_SECRET" required:"true"`
	Issuer          string `envconfig:"FESTIVAL_JWT_ISSUER" default:"festival-backend"`
	ExpirationHours int    `envconfig:"FESTIVAL_JWT_EXPIRATION_HOURS" default:"12"`
}

// TokenTTL returns the access token lifetime configured in hours.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationHours <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationHours) * time.Hour
}

// AdminConfig carries the legacy shared secret accepted alongside bearer
// tokens. Account registration is only reachable with this secret.
type AdminConfig struct {
	SharedSecret string `envconfig:"FESTIVAL_ADMIN_SHARED_SECRET"`
	SecretHeader string `envconfig:"FESTIVAL_ADMIN_SECRET_HEADER" default:"X-Admin-Secret"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FESTIVAL_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FESTIVAL_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FESTIVAL_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FESTIVAL_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FESTIVAL_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FESTIVAL_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FESTIVAL_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FESTIVAL_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FESTIVAL_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FESTIVAL_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FESTIVAL_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"10"`
}

type CloudinaryConfig struct {
	CloudName    string `envconfig:"FESTIVAL_CLOUDINARY_CLOUD_NAME" required:"true"`
	APIKey       string `envconfig:"FESTIVAL_CLOUDINARY_API_KEY" required:"true"`
	APISecret    string `envconfig:"FESTIVAL_CLOUDINARY_API_SECRET" required:"true"`
	UploadFolder string `envconfig:"FESTIVAL_CLOUDINARY_UPLOAD_FOLDER" default:"festival"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"FESTIVAL_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}
