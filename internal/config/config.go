package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Vector store backends.
const (
	BackendSQLite = "sqlite"
	BackendQdrant = "qdrant"
	BackendMemory = "memory"
)

// ConfigFileEnv names the environment variable pointing at an optional YAML file.
const ConfigFileEnv = "DOCRAG_CONFIG"

// Pipeline is the explicit configuration handed to each pipeline instance.
type Pipeline struct {
	StoreLocation string
	ChunkSize     int // in runes
	ChunkOverlap  int // in runes
	TopK          int
}

// Config holds all configuration for the application.
type Config struct {
	APIPort   string
	LogLevel  slog.Level
	LogFormat string

	DBPath string

	VectorBackend string
	StoreLocation string
	QdrantURL     string
	Collection    string
	VectorSize    int

	ChunkSize         int
	ChunkOverlap      int
	TopK              int
	ContextChunkLimit int
	DedupOnUnknown    string

	LLMBaseURL         string
	LLMModelName       string
	LLMAPIKey          string
	LLMTemperature     float32
	EmbeddingBaseURL   string
	EmbeddingModelName string

	FetchTimeout    time.Duration
	FetchRatePerSec float64
	MaxFetchBytes   int64

	MaxConcurrentIngests int
	MaxConcurrentQueries int
}

// Pipeline returns the pipeline-scoped subset of the configuration.
func (c *Config) Pipeline() Pipeline {
	return Pipeline{
		StoreLocation: c.StoreLocation,
		ChunkSize:     c.ChunkSize,
		ChunkOverlap:  c.ChunkOverlap,
		TopK:          c.TopK,
	}
}

// Load reads configuration and returns a Config struct.
//
// Values are resolved per key in this order: environment variables, then the
// YAML file named by DOCRAG_CONFIG, then built-in defaults. A .env file in the
// current directory or a parent is loaded first; variables already set take
// precedence over .env values.
func Load() (*Config, error) {
	loadDotEnv()

	file := map[string]string{}
	if path := os.Getenv(ConfigFileEnv); path != "" {
		var err error
		file, err = readConfigFile(path)
		if err != nil {
			return nil, err
		}
	}

	cfg, err := resolve(lookup{file: file})
	if err != nil {
		return nil, err
	}

	// Create data directory for the ledger database
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads the nearest .env file, searching up to five directories.
func loadDotEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// readConfigFile parses a flat YAML mapping. Keys match environment variable
// names case-insensitively, e.g. chunk_size for CHUNK_SIZE.
func readConfigFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v.(type) {
		case map[string]any, []any:
			return nil, fmt.Errorf("config key %q must be a scalar", k)
		case nil:
			continue
		}
		values[strings.ToUpper(k)] = fmt.Sprint(v)
	}
	return values, nil
}

type lookup struct {
	file map[string]string
}

// get gets a value from the environment, then the config file, then the default.
func (l lookup) get(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if value, ok := l.file[key]; ok && value != "" {
		return value
	}
	return defaultValue
}

func (l lookup) getInt(key string, defaultValue int) (int, error) {
	raw := l.get(key, strconv.Itoa(defaultValue))
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return v, nil
}

func resolve(l lookup) (*Config, error) {
	cfg := &Config{
		APIPort:            l.get("API_PORT", "9000"),
		LogFormat:          strings.ToLower(l.get("LOG_FORMAT", "text")),
		DBPath:             l.get("DB_PATH", "./data/docrag.db"),
		VectorBackend:      strings.ToLower(l.get("VECTOR_BACKEND", BackendSQLite)),
		StoreLocation:      l.get("STORE_LOCATION", "./vector_store"),
		QdrantURL:          l.get("QDRANT_URL", "http://localhost:6333"),
		Collection:         l.get("QDRANT_COLLECTION", "documents"),
		DedupOnUnknown:     strings.ToLower(l.get("DEDUP_ON_UNKNOWN", "proceed")),
		LLMBaseURL:         l.get("LLM_BASE_URL", "https://api.openai.com"),
		LLMModelName:       l.get("LLM_MODEL", "gpt-3.5-turbo"),
		LLMAPIKey:          l.get("LLM_API_KEY", ""),
		EmbeddingBaseURL:   l.get("EMBEDDING_BASE_URL", "https://api.openai.com"),
		EmbeddingModelName: l.get("EMBEDDING_MODEL_NAME", "text-embedding-3-small"),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(l.get("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}

	var err error
	ints := []struct {
		key string
		def int
		dst *int
	}{
		{"VECTOR_SIZE", 0, &cfg.VectorSize},
		{"CHUNK_SIZE", 500, &cfg.ChunkSize},
		{"CHUNK_OVERLAP", 100, &cfg.ChunkOverlap},
		{"TOP_K", 5, &cfg.TopK},
		{"CONTEXT_CHUNK_LIMIT", 500, &cfg.ContextChunkLimit},
		{"MAX_CONCURRENT_INGESTS", 4, &cfg.MaxConcurrentIngests},
		{"MAX_CONCURRENT_QUERIES", 8, &cfg.MaxConcurrentQueries},
	}
	for _, f := range ints {
		if *f.dst, err = l.getInt(f.key, f.def); err != nil {
			return nil, err
		}
	}

	temperature, err := strconv.ParseFloat(l.get("LLM_TEMPERATURE", "0"), 32)
	if err != nil {
		return nil, fmt.Errorf("LLM_TEMPERATURE must be a number: %w", err)
	}
	cfg.LLMTemperature = float32(temperature)

	if cfg.FetchTimeout, err = time.ParseDuration(l.get("FETCH_TIMEOUT", "30s")); err != nil {
		return nil, fmt.Errorf("FETCH_TIMEOUT must be a duration: %w", err)
	}
	if cfg.FetchRatePerSec, err = strconv.ParseFloat(l.get("FETCH_RATE_PER_SEC", "5"), 64); err != nil {
		return nil, fmt.Errorf("FETCH_RATE_PER_SEC must be a number: %w", err)
	}
	if cfg.MaxFetchBytes, err = strconv.ParseInt(l.get("MAX_FETCH_BYTES", strconv.Itoa(32<<20)), 10, 64); err != nil {
		return nil, fmt.Errorf("MAX_FETCH_BYTES must be a valid integer: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.VectorBackend {
	case BackendSQLite, BackendQdrant:
		if c.VectorSize <= 0 {
			return fmt.Errorf("VECTOR_SIZE is required and must be greater than 0 for the %s backend", c.VectorBackend)
		}
	case BackendMemory:
		if c.VectorSize < 0 {
			return fmt.Errorf("VECTOR_SIZE must not be negative")
		}
	default:
		return fmt.Errorf("VECTOR_BACKEND must be one of sqlite, qdrant, memory; got %q", c.VectorBackend)
	}

	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be greater than 0")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be at least 0 and less than CHUNK_SIZE")
	}
	if c.TopK <= 0 {
		return fmt.Errorf("TOP_K must be greater than 0")
	}
	if c.ContextChunkLimit <= 0 {
		return fmt.Errorf("CONTEXT_CHUNK_LIMIT must be greater than 0")
	}
	if c.DedupOnUnknown != "proceed" && c.DedupOnUnknown != "reject" {
		return fmt.Errorf("DEDUP_ON_UNKNOWN must be proceed or reject; got %q", c.DedupOnUnknown)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json; got %q", c.LogFormat)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	if c.FetchRatePerSec <= 0 {
		return fmt.Errorf("FETCH_RATE_PER_SEC must be positive")
	}
	if c.MaxFetchBytes <= 0 {
		return fmt.Errorf("MAX_FETCH_BYTES must be positive")
	}
	if c.MaxConcurrentIngests <= 0 || c.MaxConcurrentQueries <= 0 {
		return fmt.Errorf("MAX_CONCURRENT_INGESTS and MAX_CONCURRENT_QUERIES must be positive")
	}
	return nil
}

// NewLogger builds the process logger from the configured level and format.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	var handler slog.Handler
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
