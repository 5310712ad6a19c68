package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// unsetEnv clears a variable for the duration of the test.
func unsetEnv(t *testing.T, name string) {
	t.Helper()
	t.Setenv(name, "")
	require.NoError(t, os.Unsetenv(name))
}

func clearCredentials(t *testing.T) {
	t.Helper()
	for _, name := range credentialEnv {
		unsetEnv(t, name)
	}
}

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	clearCredentials(t)
	chdir(t, t.TempDir())

	cfg, err := Load("", "")
	require.NoError(t, err)
	require.Equal(t, 5, cfg.Fallback.PromptBudget)
	require.Equal(t, 3, cfg.Fallback.ArtBudget)
	require.Equal(t, 10, cfg.Fallback.ImageBudget)
	require.Equal(t, 60*time.Second, cfg.Chat.Timeout)
	require.Equal(t, "openai/gpt-4.1", cfg.Chat.DefaultModel)
	require.Equal(t, "together", cfg.Image.Primary)
	require.Equal(t, ProviderHuggingFace, cfg.Image.Providers["qwen"].Type)
	require.Equal(t, 60*time.Second, cfg.Image.Providers["together"].Timeout)
	require.Empty(t, cfg.Credentials.AdminToken)
	require.True(t, cfg.StrictImageExhaustion())
}

func TestLoadConfigFromFile(t *testing.T) {
	clearCredentials(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	configYAML := `
fallback:
  prompt_budget: 2
  art_budget: 4
  image_exhaustion: placeholder
chat:
  default_model: openai/gpt-4o-mini
  timeout: 15s
image:
  primary: imagen
  secondary: ""
  providers:
    imagen:
      type: gemini
      model: imagen-3.0-generate-002
output:
  root: out
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(configYAML), 0o644))

	cfg, err := Load(cfgPath, "")
	require.NoError(t, err)
	require.Equal(t, 2, cfg.Fallback.PromptBudget)
	require.Equal(t, 4, cfg.Fallback.ArtBudget)
	require.Equal(t, 15*time.Second, cfg.Chat.Timeout)
	require.Equal(t, "openai/gpt-4o-mini", cfg.Chat.DefaultModel)
	require.Equal(t, "imagen", cfg.Image.Primary)
	require.Equal(t, "out", cfg.Output.Root)
	require.False(t, cfg.StrictImageExhaustion())
}

func TestEnvOverrides(t *testing.T) {
	clearCredentials(t)
	chdir(t, t.TempDir())

	t.Setenv("READMEART_FALLBACK_ART_BUDGET", "7")
	t.Setenv("ADMIN_TOKEN", "ghp_env")
	t.Setenv("HF_TOKEN", "hf_env")

	cfg, err := Load("", "")
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Fallback.ArtBudget)
	require.Equal(t, "ghp_env", cfg.Credentials.AdminToken)
	require.Equal(t, "hf_env", cfg.ImageCredential(ProviderHuggingFace))
}

func TestDotEnvFillsMissingCredentials(t *testing.T) {
	clearCredentials(t)
	dir := t.TempDir()
	chdir(t, dir)

	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("ADMIN_TOKEN=ghp_file\nTOGETHER_API_KEY=tg_file\n"), 0o600))
	t.Setenv("TOGETHER_API_KEY", "tg_env")

	cfg, err := Load("", envPath)
	require.NoError(t, err)
	require.Equal(t, "ghp_file", cfg.Credentials.AdminToken)
	require.Equal(t, "tg_env", cfg.Credentials.TogetherAPIKey)
}

func TestMissingDotEnvIsIgnored(t *testing.T) {
	clearCredentials(t)
	chdir(t, t.TempDir())

	_, err := Load("", filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
}

func TestValidateFailsOnUnknownImageProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Image.Primary = "missing"

	require.Error(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(c *Config){
		"zero prompt budget": func(c *Config) { c.Fallback.PromptBudget = 0 },
		"bad exhaustion":     func(c *Config) { c.Fallback.ImageExhaustion = "retry" },
		"unknown type":       func(c *Config) { c.Image.Providers["together"] = ImageProviderConfig{Type: "dalle"} },
		"same backends":      func(c *Config) { c.Image.Secondary = c.Image.Primary },
		"zero chat timeout":  func(c *Config) { c.Chat.Timeout = 0 },
		"bad log format":     func(c *Config) { c.Logging.Format = "xml" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

func validConfig() Config {
	return Config{
		Catalog: CatalogConfig{Timeout: time.Second},
		Chat:    ChatConfig{Timeout: time.Second, DefaultModel: "openai/gpt-4.1"},
		Fallback: FallbackConfig{
			PromptBudget:  5,
			ArtBudget:     3,
			ImageBudget:   10,
			DefaultPrompt: "a cat sitting on a computer keyboard",
		},
		Image: ImageConfig{
			Primary:   "together",
			Secondary: "qwen",
			Providers: map[string]ImageProviderConfig{
				"together": {Type: ProviderTogether},
				"qwen":     {Type: ProviderHuggingFace},
			},
		},
		Output: OutputConfig{Readme: "README.md", ImageName: "generated-image.png"},
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
