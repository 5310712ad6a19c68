package flows

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/animus-coder/readmeart/internal/catalog"
	"github.com/animus-coder/readmeart/internal/config"
	"github.com/animus-coder/readmeart/internal/fallback"
	"github.com/animus-coder/readmeart/internal/imagegen"
	"github.com/animus-coder/readmeart/internal/llm"
	"github.com/animus-coder/readmeart/internal/logging"
	"github.com/animus-coder/readmeart/internal/output"
)

// Deps are the collaborators a Runner drives. Catalog and Chat are nil when
// ADMIN_TOKEN is missing; Images is nil when no image backend has a key.
type Deps struct {
	Config   *config.Config
	Catalog  catalog.Fetcher
	Chat     llm.Provider
	Images   imagegen.Generator
	Registry *imagegen.Registry
	Sink     *output.Sink
	HTTP     *http.Client
	Logger   *zap.Logger
	Metrics  fallback.Recorder
	Rand     *rand.Rand
	Out      io.Writer
	Now      func() time.Time
}

// Runner executes the CLI flows.
type Runner struct {
	cfg      *config.Config
	catalog  catalog.Fetcher
	chat     llm.Provider
	images   imagegen.Generator
	registry *imagegen.Registry
	sink     *output.Sink
	http     *http.Client
	logger   *zap.Logger
	metrics  fallback.Recorder
	rng      *rand.Rand
	out      io.Writer
	now      func() time.Time
}

// New validates deps and fills defaults.
func New(d Deps) (*Runner, error) {
	if d.Config == nil {
		return nil, errors.New("config is required")
	}
	if d.Sink == nil {
		return nil, errors.New("output sink is required")
	}
	r := &Runner{
		cfg:      d.Config,
		catalog:  d.Catalog,
		chat:     d.Chat,
		images:   d.Images,
		registry: d.Registry,
		sink:     d.Sink,
		http:     d.HTTP,
		logger:   d.Logger,
		metrics:  d.Metrics,
		rng:      d.Rand,
		out:      d.Out,
		now:      d.Now,
	}
	if r.registry == nil {
		r.registry = imagegen.NewRegistry()
	}
	if r.http == nil {
		r.http = &http.Client{Timeout: 60 * time.Second}
	}
	r.logger = logging.OrNop(r.logger)
	if r.rng == nil {
		r.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if r.out == nil {
		r.out = io.Discard
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r, nil
}

// hasModels reports whether the GitHub Models catalog and inference are usable.
func (r *Runner) hasModels() bool {
	return r.catalog != nil && r.chat != nil
}

// loadPool fetches the catalog and keeps models that answer with text.
func (r *Runner) loadPool(ctx context.Context) ([]catalog.Model, error) {
	if r.catalog == nil {
		return nil, catalog.ErrMissingToken
	}
	fmt.Fprintln(r.out, "Fetching models from GitHub Models catalog...")
	entries, err := r.catalog.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch models: %w", err)
	}
	pool := catalog.ToModels(catalog.TextModels(entries))
	fmt.Fprintf(r.out, "Found %d free models\n", len(pool))
	return pool, nil
}

// chatText is the execute step for text-producing invocations.
func (r *Runner) chatText(ctx context.Context, w fallback.WorkUnit) (string, error) {
	resp, err := r.chat.Chat(ctx, llm.UserPrompt(w.Model.ID, w.Prompt))
	if err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}

func newInvoker[T any](r *Runner, role string, budget int, policy fallback.Policy) *fallback.Invoker[T] {
	return &fallback.Invoker[T]{
		Role:    role,
		Budget:  budget,
		Policy:  policy,
		Rand:    r.rng,
		Logger:  r.logger,
		Metrics: r.metrics,
	}
}

// timestamp renders now as an ISO-8601 instant safe for file names.
func (r *Runner) timestamp() string {
	now := r.now().UTC()
	return fmt.Sprintf("%s-%03dZ", now.Format("2006-01-02T15-04-05"), now.Nanosecond()/int(time.Millisecond))
}
