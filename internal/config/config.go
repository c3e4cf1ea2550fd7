package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const DefaultJWTSecret = "change_me_in_env"

// Config holds every setting the API and the seed tool read from the environment.
type Config struct {
	Port string `env:"API_PORT,default=5000"`

	StoreDriver        string        `env:"STORE_DRIVER,default=mongo"`
	MongoURI           string        `env:"MONGO_URI,default=mongodb://localhost:27017"`
	MongoDB            string        `env:"MONGO_DB,default=petla"`
	MongoTimeout       time.Duration `env:"MONGO_TIMEOUT,default=10s"`
	MongoEnsureIndexes bool          `env:"MONGO_ENSURE_INDEXES,default=true"`

	JWTSecret  string `env:"JWT_SECRET,default=change_me_in_env"`
	BcryptCost int    `env:"BCRYPT_COST,default=12"`

	MaxContentLength int64 `env:"MAX_CONTENT_LENGTH,default=16777216"`

	CORSOrigins  string `env:"CORS_ORIGINS,default=*"`
	AuthRequired bool   `env:"AUTH_REQUIRED,default=false"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`
}

// Load reads an optional .env file and decodes the environment into a Config.
// The boolean result reports whether a .env file was found.
func Load() (Config, bool, error) {
	foundDotEnv := godotenv.Load() == nil

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, foundDotEnv, err
	}
	return cfg, foundDotEnv, nil
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func (c Config) UsesDefaultSecret() bool {
	return c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret
}
