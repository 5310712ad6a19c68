package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config describes the application configuration loaded from YAML, a dotenv file and ENV.
type Config struct {
	Credentials CredentialsConfig `mapstructure:"credentials"`
	Catalog     CatalogConfig     `mapstructure:"catalog"`
	Chat        ChatConfig        `mapstructure:"chat"`
	Fallback    FallbackConfig    `mapstructure:"fallback"`
	Image       ImageConfig       `mapstructure:"image"`
	Output      OutputConfig      `mapstructure:"output"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

// CredentialsConfig holds bearer tokens. Values come from the bare variables
// ADMIN_TOKEN, TOGETHER_API_KEY, HF_TOKEN and GEMINI_API_KEY.
type CredentialsConfig struct {
	AdminToken     string `mapstructure:"admin_token"`
	TogetherAPIKey string `mapstructure:"together_api_key"`
	HFToken        string `mapstructure:"hf_token"`
	GeminiAPIKey   string `mapstructure:"gemini_api_key"`
}

// CatalogConfig points at the GitHub Models catalog.
type CatalogConfig struct {
	URL        string        `mapstructure:"url"`
	APIVersion string        `mapstructure:"api_version"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// ChatConfig configures the OpenAI-compatible inference endpoint.
type ChatConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIVersion   string        `mapstructure:"api_version"`
	DefaultModel string        `mapstructure:"default_model"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// ImageConfig selects the primary and secondary image backends.
type ImageConfig struct {
	Primary   string                         `mapstructure:"primary"`
	Secondary string                         `mapstructure:"secondary"`
	Providers map[string]ImageProviderConfig `mapstructure:"providers"`
}

// ImageProviderConfig describes a single image backend.
type ImageProviderConfig struct {
	Type    string        `mapstructure:"type"` // together, huggingface, gemini
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// OutputConfig lists output locations, all relative to Root.
type OutputConfig struct {
	Root       string `mapstructure:"root"`
	Readme     string `mapstructure:"readme"`
	ImagesDir  string `mapstructure:"images_dir"`
	OutputsDir string `mapstructure:"outputs_dir"`
	ModelsFile string `mapstructure:"models_file"`
	ImageName  string `mapstructure:"image_name"`
}

// LoggingConfig controls logger behaviour.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console or json
}

// MetricsConfig controls the end-of-run metrics dump.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"` // node-exporter textfile path; empty disables
}

// Image backend types understood by the builder.
const (
	ProviderTogether    = "together"
	ProviderHuggingFace = "huggingface"
	ProviderGemini      = "gemini"
)

// credentialEnv maps config keys to their unprefixed environment variables.
var credentialEnv = map[string]string{
	"credentials.admin_token":      "ADMIN_TOKEN",
	"credentials.together_api_key": "TOGETHER_API_KEY",
	"credentials.hf_token":         "HF_TOKEN",
	"credentials.gemini_api_key":   "GEMINI_API_KEY",
}

// Load reads configuration from the provided path, or configs/config.yaml when empty.
// Environment variables override file values (prefix: READMEART_, dots replaced with underscores).
// envFile names a dotenv file whose credentials fill variables missing from the environment.
func Load(path, envFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("READMEART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, name := range credentialEnv {
		if err := v.BindEnv(key, name); err != nil {
			return nil, fmt.Errorf("bind %s: %w", name, err)
		}
	}

	if err := readConfigFile(v, path); err != nil {
		return nil, err
	}
	if err := loadDotEnv(v, envFile); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("configs")
	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err == nil {
		return nil
	}
	if !errors.As(err, &notFound) {
		return fmt.Errorf("read config: %w", err)
	}

	v.SetConfigName("config.example")
	err = v.ReadInConfig()
	if err == nil || errors.As(err, &notFound) {
		// no file at all: run on defaults plus environment
		return nil
	}
	return fmt.Errorf("read config: %w", err)
}

// loadDotEnv copies credentials from a dotenv file without overriding the process environment.
func loadDotEnv(v *viper.Viper, path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat env file: %w", err)
	}

	dot := viper.New()
	dot.SetConfigFile(path)
	dot.SetConfigType("env")
	if err := dot.ReadInConfig(); err != nil {
		return fmt.Errorf("read env file: %w", err)
	}

	for key, name := range credentialEnv {
		if _, ok := os.LookupEnv(name); ok {
			continue
		}
		if val := strings.TrimSpace(dot.GetString(name)); val != "" {
			v.Set(key, val)
		}
	}
	return nil
}

// setDefaults populates built-in values so the CLI runs without a config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("catalog.url", "https://models.github.ai/catalog/models")
	v.SetDefault("catalog.api_version", "2022-11-28")
	v.SetDefault("catalog.timeout", 60*time.Second)

	v.SetDefault("chat.base_url", "https://models.github.ai/inference")
	v.SetDefault("chat.api_version", "2022-11-28")
	v.SetDefault("chat.default_model", "openai/gpt-4.1")
	v.SetDefault("chat.timeout", 60*time.Second)

	v.SetDefault("fallback.prompt_budget", 5)
	v.SetDefault("fallback.art_budget", 3)
	v.SetDefault("fallback.image_budget", 10)
	v.SetDefault("fallback.image_exhaustion", ExhaustionStrict)
	v.SetDefault("fallback.default_prompt", "a cat sitting on a computer keyboard")
	v.SetDefault("fallback.placeholder", "generated-image.png")

	v.SetDefault("image.primary", "together")
	v.SetDefault("image.secondary", "qwen")
	v.SetDefault("image.providers", map[string]interface{}{
		"together": map[string]interface{}{
			"type":     ProviderTogether,
			"base_url": "https://api.together.xyz/v1",
			"model":    "black-forest-labs/FLUX.1-schnell-Free",
			"timeout":  "60s",
		},
		"qwen": map[string]interface{}{
			"type":     ProviderHuggingFace,
			"base_url": "https://router.huggingface.co/fal-ai/fal-ai/qwen-image",
			"timeout":  "60s",
		},
		"imagen": map[string]interface{}{
			"type":     ProviderGemini,
			"base_url": "https://generativelanguage.googleapis.com/v1beta",
			"model":    "imagen-3.0-generate-002",
			"timeout":  "60s",
		},
	})

	v.SetDefault("output.root", ".")
	v.SetDefault("output.readme", "README.md")
	v.SetDefault("output.images_dir", "images")
	v.SetDefault("output.outputs_dir", "outputs")
	v.SetDefault("output.models_file", "models/github-models.json")
	v.SetDefault("output.image_name", "generated-image.png")

	v.SetDefault("metrics.textfile", "")
}

// Validate performs basic sanity checks on configuration values.
func (c *Config) Validate() error {
	if c.Fallback.PromptBudget <= 0 {
		return errors.New("fallback.prompt_budget must be > 0")
	}
	if c.Fallback.ArtBudget <= 0 {
		return errors.New("fallback.art_budget must be > 0")
	}
	if c.Fallback.ImageBudget <= 0 {
		return errors.New("fallback.image_budget must be > 0")
	}
	switch strings.ToLower(strings.TrimSpace(c.Fallback.ImageExhaustion)) {
	case "", ExhaustionStrict, ExhaustionPlaceholder:
	default:
		return fmt.Errorf("fallback.image_exhaustion must be one of strict or placeholder, got %q", c.Fallback.ImageExhaustion)
	}
	if strings.TrimSpace(c.Fallback.DefaultPrompt) == "" {
		return errors.New("fallback.default_prompt must be set")
	}

	if c.Catalog.Timeout <= 0 {
		return errors.New("catalog.timeout must be > 0")
	}
	if c.Chat.Timeout <= 0 {
		return errors.New("chat.timeout must be > 0")
	}
	if strings.TrimSpace(c.Chat.DefaultModel) == "" {
		return errors.New("chat.default_model must be set")
	}

	for name, p := range c.Image.Providers {
		switch p.Type {
		case ProviderTogether, ProviderHuggingFace, ProviderGemini:
		case "":
			return fmt.Errorf("image provider %q must define type", name)
		default:
			return fmt.Errorf("image provider %q has unknown type %q", name, p.Type)
		}
		if p.Timeout < 0 {
			return fmt.Errorf("image provider %q timeout cannot be negative", name)
		}
	}
	for _, ref := range []string{c.Image.Primary, c.Image.Secondary} {
		if strings.TrimSpace(ref) == "" {
			continue
		}
		if _, ok := c.Image.Providers[ref]; !ok {
			return fmt.Errorf("image backend references unknown provider %q", ref)
		}
	}
	if c.Image.Primary != "" && c.Image.Primary == c.Image.Secondary {
		return errors.New("image.secondary must differ from image.primary")
	}

	if strings.TrimSpace(c.Output.Readme) == "" {
		return errors.New("output.readme must be set")
	}
	if strings.TrimSpace(c.Output.ImageName) == "" {
		return errors.New("output.image_name must be set")
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be one of console or json, got %q", c.Logging.Format)
	}

	return nil
}

// ImageCredential returns the API key an image backend type authenticates with.
func (c *Config) ImageCredential(providerType string) string {
	switch providerType {
	case ProviderTogether:
		return c.Credentials.TogetherAPIKey
	case ProviderHuggingFace:
		return c.Credentials.HFToken
	case ProviderGemini:
		return c.Credentials.GeminiAPIKey
	default:
		return ""
	}
}

// StrictImageExhaustion reports whether a failed image step should end the run.
func (c *Config) StrictImageExhaustion() bool {
	return !strings.EqualFold(strings.TrimSpace(c.Fallback.ImageExhaustion), ExhaustionPlaceholder)
}
