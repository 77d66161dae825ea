package configuration

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"clipflow/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	OAuth       OAuth       `json:"oauth"`
	Publisher   Publisher   `json:"publisher"`
	AIGateway   AIGateway   `json:"aiGateway"`
	PubSub      PubSub      `json:"pubsub"`
	Crypto      Crypto      `json:"crypto"`
	Logger      Logger      `json:"logger"`
}

type App struct {
	Port      int    `json:"port"`
	SecretKey string `json:"secretKey"`
}

type Database struct {
	Psql Db `json:"psql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// OAuth holds the client credentials used for refresh-token exchanges,
// one client per publishing platform.
type OAuth struct {
	YouTube   OAuthClient `json:"youtube"`
	TikTok    OAuthClient `json:"tiktok"`
	Instagram OAuthClient `json:"instagram"`
}

type OAuthClient struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	TokenURL     string `json:"tokenURL"`
}

// Publisher tunes the orchestrator: batch bound per run, worker pool size,
// and the background run interval.
type Publisher struct {
	BatchSize       int `json:"batchSize"`
	Workers         int `json:"workers"`
	IntervalSeconds int `json:"intervalSeconds"`
}

// AIGateway points at the chat-completions endpoint used for script generation
type AIGateway struct {
	URL    string `json:"url"`
	APIKey string `json:"apiKey"`
	Model  string `json:"model"`
}

type PubSub struct {
	ProjectID string `json:"projectID"`
	Topic     string `json:"topic"`
}

// Crypto carries the symmetric key pgcrypto uses for tokens at rest
type Crypto struct {
	TokenKey string `json:"tokenKey"`
}

type Logger struct {
	Format string `json:"format"`
}

var C Config

func init() {
	Reload()
}

// Reload re-reads the config file and re-applies the environment fallbacks.
// Called after LoadEnvFromFile so values loaded from env files make it into C,
// which init() baked before main ran.
func Reload() {
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initOAuth(&C)
	initPublisher(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

// LoadEnvFromFile loads KEY=VALUE pairs from one or more files (e.g., config.env,
// .env). Lines starting with # and empty lines are skipped; existing environment
// variables are never overridden.
func LoadEnvFromFile(paths ...string) {
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			idx := strings.Index(line, "=")
			if idx == -1 {
				continue
			}
			key := strings.TrimSpace(line[:idx])
			val := strings.Trim(strings.TrimSpace(line[idx+1:]), "\"'")
			if key == "" {
				continue
			}
			if _, exists := os.LookupEnv(key); !exists {
				_ = os.Setenv(key, val)
			}
		}
		_ = f.Close()
	}
}

func initDatabase(C *Config) {
	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.User == "" {
		C.Database.Psql.User = os.Getenv("DB_USER")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = os.Getenv("DB_PORT")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = "5432"
	}
	if C.Crypto.TokenKey == "" {
		C.Crypto.TokenKey = os.Getenv("TOKEN_ENCRYPTION_KEY")
	}
}

func initApp(C *Config) {
	// SECRET_KEY from environment overrides the config file when provided
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 10020
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10020
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; JWT authentication will fail. Provide SECRET_KEY via environment.")
	}
}

func initOAuth(C *Config) {
	fill := func(c *OAuthClient, idEnv, secretEnv, defaultTokenURL string) {
		if c.ClientID == "" {
			c.ClientID = os.Getenv(idEnv)
		}
		if c.ClientSecret == "" {
			c.ClientSecret = os.Getenv(secretEnv)
		}
		if c.TokenURL == "" {
			c.TokenURL = defaultTokenURL
		}
	}
	fill(&C.OAuth.YouTube, "YOUTUBE_CLIENT_ID", "YOUTUBE_CLIENT_SECRET", "https://oauth2.googleapis.com/token")
	fill(&C.OAuth.TikTok, "TIKTOK_CLIENT_KEY", "TIKTOK_CLIENT_SECRET", "https://open.tiktokapis.com/v2/oauth/token/")
	fill(&C.OAuth.Instagram, "INSTAGRAM_CLIENT_ID", "INSTAGRAM_CLIENT_SECRET", "https://graph.instagram.com/refresh_access_token")
}

func initPublisher(C *Config) {
	if C.Publisher.BatchSize == 0 {
		C.Publisher.BatchSize = 50
	}
	if C.Publisher.Workers == 0 {
		C.Publisher.Workers = 5
	}
	if C.Publisher.IntervalSeconds == 0 {
		C.Publisher.IntervalSeconds = 60
	}
	if C.AIGateway.APIKey == "" {
		C.AIGateway.APIKey = os.Getenv("AI_GATEWAY_API_KEY")
	}
	if C.AIGateway.URL == "" {
		C.AIGateway.URL = "https://ai.gateway.lovable.dev/v1/chat/completions"
	}
	if C.AIGateway.Model == "" {
		C.AIGateway.Model = "google/gemini-2.5-flash"
	}
}

// GetOAuthClient returns the refresh-exchange client credentials for a platform
func GetOAuthClient(platform string) (OAuthClient, bool) {
	switch platform {
	case "youtube":
		return C.OAuth.YouTube, true
	case "tiktok":
		return C.OAuth.TikTok, true
	case "instagram":
		return C.OAuth.Instagram, true
	}
	return OAuthClient{}, false
}
