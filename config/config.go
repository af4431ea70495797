package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"

	"clearedforcloud/utils"
)

type StorageMode string

const (
	File           StorageMode = "file"
	Static         StorageMode = "static"
	Mongo          StorageMode = "mongo"
	MongoWithCache StorageMode = "cached"
)

type AuthMode string

const (
	PasswordAuth AuthMode = "password"
	EmailAuth    AuthMode = "email"
)

// DefaultAdminPassword is used when ADMIN_PASSWORD is unset. It exists only
// to keep legacy deployments working and is reported on startup.
const DefaultAdminPassword = "admin123"

const (
	passwordTokenTTL = 24 * time.Hour
	emailTokenTTL    = 7 * 24 * time.Hour
)

type Config struct {
	Port string

	StorageMode     StorageMode
	DataFile        string
	MongoURL        string
	MongoDBName     string
	MongoCollection string
	RedisURL        string
	CacheTTL        time.Duration

	AuthMode             AuthMode
	JWTSecret            string
	TokenTTL             time.Duration
	AdminPassword        string
	AdminPasswordDefault bool
	AuthorizedEmail      string
	GoogleClientID       string
	GoogleClientSecret   string
	OAuthRedirectURI     string

	CorsAllowedOrigins []string
	SecureCookies      bool
}

// Load reads the process environment, after merging an optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		Port:               utils.GetEnvVarWithDefault("SERVER_PORT", "8080"),
		StorageMode:        StorageMode(utils.GetEnvVarWithDefault("STORAGE_MODE", string(File))),
		DataFile:           utils.GetEnvVarWithDefault("DATA_FILE", "data/blog-posts.json"),
		MongoCollection:    utils.GetEnvVarWithDefault("MONGO_COLLECTION", "BlogPosts"),
		AuthMode:           AuthMode(utils.GetEnvVarWithDefault("AUTH_MODE", string(PasswordAuth))),
		CorsAllowedOrigins: utils.SplitCSV(utils.GetEnvVarWithDefault("CORS_ALLOWED_ORIGINS", "*")),
		SecureCookies:      utils.GetEnvBool("SECURE_COOKIES"),
	}
	if len(cfg.CorsAllowedOrigins) == 0 {
		cfg.CorsAllowedOrigins = []string{"*"}
	}

	var err error
	if cfg.JWTSecret, err = utils.GetSecretEnvVar("JWT_SECRET"); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = utils.GetEnvDuration("CACHE_TTL", time.Hour); err != nil {
		return Config{}, err
	}

	switch cfg.StorageMode {
	case File, Static:
	case Mongo, MongoWithCache:
		if cfg.MongoURL, err = utils.GetEnvVar("MONGO_URL"); err != nil {
			return Config{}, err
		}
		if cfg.MongoDBName, err = utils.GetEnvVar("MONGO_DBNAME"); err != nil {
			return Config{}, err
		}
		if cfg.StorageMode == MongoWithCache {
			if cfg.RedisURL, err = utils.GetEnvVar("REDIS_URL"); err != nil {
				return Config{}, fmt.Errorf("'cached' STORAGE_MODE: %w", err)
			}
		}
	default:
		return Config{}, fmt.Errorf("invalid STORAGE_MODE %q", cfg.StorageMode)
	}

	switch cfg.AuthMode {
	case PasswordAuth:
		if cfg.AdminPassword, err = utils.GetSecretEnvVar("ADMIN_PASSWORD"); err != nil {
			cfg.AdminPassword = DefaultAdminPassword
			cfg.AdminPasswordDefault = true
		}
		cfg.TokenTTL, err = utils.GetEnvDuration("TOKEN_TTL", passwordTokenTTL)
	case EmailAuth:
		if cfg.AuthorizedEmail, err = utils.GetEnvVar("AUTHORIZED_EMAIL"); err != nil {
			return Config{}, err
		}
		if cfg.GoogleClientID, err = utils.GetEnvVar("GOOGLE_CLIENT_ID"); err != nil {
			return Config{}, err
		}
		if cfg.GoogleClientSecret, err = utils.GetSecretEnvVar("GOOGLE_CLIENT_SECRET"); err != nil {
			return Config{}, err
		}
		if cfg.OAuthRedirectURI, err = utils.GetEnvVar("OAUTH_REDIRECT_URI"); err != nil {
			return Config{}, err
		}
		cfg.TokenTTL, err = utils.GetEnvDuration("TOKEN_TTL", emailTokenTTL)
	default:
		return Config{}, fmt.Errorf("invalid AUTH_MODE %q", cfg.AuthMode)
	}
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}
