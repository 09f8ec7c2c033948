package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var ErrMissingRequired = errors.New("missing required configuration")

const (
	PipelineModeSpecialist = "specialist"
	PipelineModeBaseline   = "baseline"
)

type Config struct {
	// External APIs
	OpenAIAPIKey     string `envconfig:"OPENAI_API_KEY"`
	GeminiAPIKey     string `envconfig:"GEMINI_API_KEY"`
	YouTubeAPIKey    string `envconfig:"YOUTUBE_API_KEY"`
	TranscriptAPIURL string `envconfig:"TRANSCRIPT_API_URL" default:"https://api.supadata.ai/v1/transcript"`
	TranscriptAPIKey string `envconfig:"TRANSCRIPT_API_KEY"`

	// Models
	AgentModel string `envconfig:"AGENT_MODEL" default:"gpt-4o-mini"`
	EmbedModel string `envconfig:"EMBED_MODEL" default:"gemini-embedding-001"`

	// Redis (session cache)
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Session expiry classes
	SessionMetaTTL time.Duration `envconfig:"SESSION_META_TTL" default:"24h"`
	SessionDataTTL time.Duration `envconfig:"SESSION_DATA_TTL" default:"1h"`

	// Pipeline
	PipelineMode        string `envconfig:"PIPELINE_MODE" default:"specialist"`
	ChunkSize           int    `envconfig:"CHUNK_SIZE" default:"1000"`
	ChunkOverlap        int    `envconfig:"CHUNK_OVERLAP" default:"200"`
	CommentFetchLimit   int    `envconfig:"COMMENT_FETCH_LIMIT" default:"100"`
	CommentSummaryLimit int    `envconfig:"COMMENT_SUMMARY_LIMIT" default:"50"`
	RetrievalTopK       int    `envconfig:"RETRIEVAL_TOP_K" default:"3"`

	// Server
	ServerPort int `envconfig:"SERVER_PORT" default:"8080"`

	// Resilience
	BootstrapRetryAttempts     int `envconfig:"BOOTSTRAP_RETRY_ATTEMPTS" default:"10"`
	BootstrapRetryDelaySeconds int `envconfig:"BOOTSTRAP_RETRY_DELAY_SECONDS" default:"2"`
}

func Load() (*Config, error) {
	// Env vars may be set in the shell, so a missing .env is not an error
	_ = godotenv.Load(".env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.PipelineMode != PipelineModeSpecialist && c.PipelineMode != PipelineModeBaseline {
		return fmt.Errorf("invalid PIPELINE_MODE %q: must be %q or %q",
			c.PipelineMode, PipelineModeSpecialist, PipelineModeBaseline)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: CHUNK_SIZE must be positive", ErrMissingRequired)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be non-negative and smaller than CHUNK_SIZE")
	}
	if c.SessionDataTTL > c.SessionMetaTTL {
		return fmt.Errorf("SESSION_DATA_TTL must not exceed SESSION_META_TTL")
	}
	return nil
}

// RequireKeys checks the API keys needed to reach external services.
// Kept separate from Validate so unit tests can build a Config without
// credentials.
func (c *Config) RequireKeys() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("%w: OPENAI_API_KEY", ErrMissingRequired)
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("%w: GEMINI_API_KEY", ErrMissingRequired)
	}
	if c.YouTubeAPIKey == "" {
		return fmt.Errorf("%w: YOUTUBE_API_KEY", ErrMissingRequired)
	}
	return nil
}
