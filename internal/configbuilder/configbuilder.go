package configbuilder

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/animus-coder/readmeart/internal/catalog"
	"github.com/animus-coder/readmeart/internal/config"
	"github.com/animus-coder/readmeart/internal/imagegen"
	"github.com/animus-coder/readmeart/internal/imagegen/providers/gemini"
	"github.com/animus-coder/readmeart/internal/imagegen/providers/huggingface"
	"github.com/animus-coder/readmeart/internal/imagegen/providers/together"
	"github.com/animus-coder/readmeart/internal/llm"
	llmopenai "github.com/animus-coder/readmeart/internal/llm/providers/openai"
	"github.com/animus-coder/readmeart/internal/logging"
)

// Clients are the network collaborators derived from config.
type Clients struct {
	// Catalog and Chat are nil when ADMIN_TOKEN is not set.
	Catalog catalog.Fetcher
	Chat    llm.Provider
	// Registry holds every image backend whose API key is set.
	Registry *imagegen.Registry
	// Images is the primary/secondary tiered generator, nil when neither tier is available.
	Images imagegen.Generator
	// HTTP downloads images returned by URL.
	HTTP *http.Client
}

const downloadTimeout = 60 * time.Second

// BuildClients constructs catalog, chat and image clients from config.
func BuildClients(cfg *config.Config, logger *zap.Logger) (*Clients, error) {
	logger = logging.OrNop(logger)
	out := &Clients{HTTP: &http.Client{Timeout: downloadTimeout}}

	if token := strings.TrimSpace(cfg.Credentials.AdminToken); token != "" {
		out.Catalog = catalog.NewClient(cfg.Catalog.URL, token, cfg.Catalog.APIVersion, cfg.Catalog.Timeout)
		out.Chat = llmopenai.NewProvider("github", cfg.Chat.BaseURL, token, cfg.Chat.APIVersion, cfg.Chat.Timeout)
	}

	reg, err := BuildImageRegistry(cfg, logger)
	if err != nil {
		return nil, err
	}
	out.Registry = reg
	out.Images = BuildTiered(cfg, reg, out.HTTP, logger)
	return out, nil
}

// BuildImageRegistry registers image backends that have credentials.
func BuildImageRegistry(cfg *config.Config, logger *zap.Logger) (*imagegen.Registry, error) {
	logger = logging.OrNop(logger)
	reg := imagegen.NewRegistry()

	names := make([]string, 0, len(cfg.Image.Providers))
	for name := range cfg.Image.Providers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		pCfg := cfg.Image.Providers[name]
		key := strings.TrimSpace(cfg.ImageCredential(pCfg.Type))
		if key == "" {
			logger.Debug("image provider has no API key; skipping", zap.String("provider", name), zap.String("type", pCfg.Type))
			continue
		}
		g, err := buildGenerator(name, pCfg, key)
		if err != nil {
			return nil, err
		}
		reg.Register(name, g)
	}
	return reg, nil
}

// BuildTiered wires the configured primary and secondary backends. hc
// downloads URL results inside each tier.
func BuildTiered(cfg *config.Config, reg *imagegen.Registry, hc *http.Client, logger *zap.Logger) imagegen.Generator {
	primary := reg.Lookup(cfg.Image.Primary)
	secondary := reg.Lookup(cfg.Image.Secondary)
	if primary == nil && secondary == nil {
		return nil
	}
	return &imagegen.Tiered{Primary: primary, Secondary: secondary, HTTP: hc, Logger: logger}
}

func buildGenerator(name string, cfg config.ImageProviderConfig, key string) (imagegen.Generator, error) {
	switch cfg.Type {
	case config.ProviderTogether:
		return together.New(name, cfg.BaseURL, key, cfg.Model, cfg.Timeout), nil
	case config.ProviderHuggingFace:
		return huggingface.New(name, cfg.BaseURL, key, cfg.Timeout), nil
	case config.ProviderGemini:
		return gemini.New(name, cfg.BaseURL, key, cfg.Model, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown image provider type %q for provider %s", cfg.Type, name)
	}
}
