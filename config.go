package medrag

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogFile         string  `yaml:"log"`
	CorpusRoot      string  `yaml:"corpus_root"`
	WriteDebounceMs int     `yaml:"write_debounce_ms"`
	ChunkSize       int     `yaml:"chunk_size"`
	ChunkOverlap    int     `yaml:"chunk_overlap"`
	Results         int     `yaml:"results"`
	MinScore        float32 `yaml:"min_score"`
	RequestSize     int     `yaml:"request_size"`
	IngestWorkers   int     `yaml:"ingest_workers"`
	ServerAddr      string  `yaml:"server_addr"`

	Chroma struct {
		Addr       string `yaml:"addr"`
		Collection string `yaml:"collection"`
	} `yaml:"chroma"`

	Embedding struct {
		BaseURL   string `yaml:"base_url"`
		Model     string `yaml:"model"`
		Dimension int    `yaml:"dimension"`
	} `yaml:"embedding"`

	Model ModelConfig `yaml:"model"`
}

// ModelConfig carries the generation backend and its sampling parameters.
// All of them are tunables, none are hardcoded in the synthesizer.
type ModelConfig struct {
	Provider      string  `yaml:"provider"`
	Name          string  `yaml:"name"`
	BaseURL       string  `yaml:"base_url"`
	TimeoutMs     int     `yaml:"timeout_ms"`
	Temperature   float32 `yaml:"temperature"`
	MaxTokens     int     `yaml:"max_tokens"`
	TopK          int     `yaml:"top_k"`
	TopP          float32 `yaml:"top_p"`
	RepeatPenalty float32 `yaml:"repeat_penalty"`
}

func ReadConfig(cfgPath string) (*Config, error) {
	cfgFile, err := os.Open(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("unable to open config file: %w", err)
	}
	defer cfgFile.Close()

	cfg := defaultConfig()
	dec := yaml.NewDecoder(cfgFile)
	err = dec.Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{
		LogFile:         "medrag.log",
		CorpusRoot:      "corpus",
		WriteDebounceMs: 500,
		ChunkSize:       500,
		ChunkOverlap:    20,
		Results:         3,
		MinScore:        0.25,
		RequestSize:     100,
		IngestWorkers:   4,
		ServerAddr:      "localhost:8700",
		Model: ModelConfig{
			Provider:      "ollama",
			Name:          "llama3.2",
			BaseURL:       "http://localhost:11434",
			TimeoutMs:     60000,
			Temperature:   0.3,
			MaxTokens:     512,
			TopK:          30,
			TopP:          0.85,
			RepeatPenalty: 1.2,
		},
	}
	cfg.Chroma.Addr = "http://localhost:8000"
	cfg.Chroma.Collection = "medical-corpus"
	cfg.Embedding.BaseURL = "http://localhost:11434/api/embeddings"
	cfg.Embedding.Model = "all-minilm"
	cfg.Embedding.Dimension = 384
	return cfg
}

// Validate rejects invalid configuration before any document is processed.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 || c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: size %d, overlap %d", ErrInvalidChunkConfig, c.ChunkSize, c.ChunkOverlap)
	}
	if c.Results <= 0 {
		return fmt.Errorf("results must be positive, got %d", c.Results)
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return fmt.Errorf("min_score must be within [0, 1], got %f", c.MinScore)
	}
	if c.RequestSize <= 0 {
		return fmt.Errorf("request_size must be positive, got %d", c.RequestSize)
	}
	if c.IngestWorkers <= 0 {
		return fmt.Errorf("ingest_workers must be positive, got %d", c.IngestWorkers)
	}
	if c.Embedding.Dimension <= 0 {
		return fmt.Errorf("embedding dimension must be positive, got %d", c.Embedding.Dimension)
	}
	if c.Model.Provider != "ollama" && c.Model.Provider != "openai" {
		return fmt.Errorf("unknown model provider: %s", c.Model.Provider)
	}
	return nil
}
