package config

// FallbackConfig sets attempt budgets and exhaustion behaviour for each invocation.
type FallbackConfig struct {
	PromptBudget    int    `mapstructure:"prompt_budget"`    // distinct models tried for prompt generation
	ArtBudget       int    `mapstructure:"art_budget"`       // distinct models tried for ASCII art
	ImageBudget     int    `mapstructure:"image_budget"`     // image generation attempts
	ImageExhaustion string `mapstructure:"image_exhaustion"` // strict or placeholder
	DefaultPrompt   string `mapstructure:"default_prompt"`   // returned when prompt generation is exhausted
	Placeholder     string `mapstructure:"placeholder"`      // image name used when no image backend is configured
}

// Exhaustion policies for the image step.
const (
	ExhaustionStrict      = "strict"
	ExhaustionPlaceholder = "placeholder"
)
