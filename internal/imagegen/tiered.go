package imagegen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/animus-coder/readmeart/internal/logging"
)

// Tiered prefers Primary until it fails once; from then on every call goes
// straight to Secondary. The call in which Primary fails is retried on
// Secondary immediately. URL results are downloaded with HTTP inside the
// tier, so a failed download counts against the tier that produced it.
type Tiered struct {
	Primary   Generator
	Secondary Generator
	HTTP      *http.Client
	Logger    *zap.Logger

	mu            sync.Mutex
	primaryFailed bool
}

// Name joins both tiers.
func (t *Tiered) Name() string {
	switch {
	case t.Primary != nil && t.Secondary != nil:
		return t.Primary.Name() + ">" + t.Secondary.Name()
	case t.Primary != nil:
		return t.Primary.Name()
	case t.Secondary != nil:
		return t.Secondary.Name()
	}
	return "none"
}

// Generate runs the active tier.
func (t *Tiered) Generate(ctx context.Context, prompt string) (Image, error) {
	if t.Primary == nil && t.Secondary == nil {
		return Image{}, errors.New("no image generator configured")
	}

	if t.usePrimary() {
		img, err := t.generate(ctx, t.Primary, prompt)
		if err == nil {
			return img, nil
		}
		if t.Secondary == nil || ctx.Err() != nil {
			return Image{}, err
		}
		t.markPrimaryFailed()
		logging.OrNop(t.Logger).Warn("primary image generator failed; switching to secondary",
			zap.String("primary", t.Primary.Name()),
			zap.String("secondary", t.Secondary.Name()),
			zap.Error(err),
		)
	}

	return t.generate(ctx, t.Secondary, prompt)
}

// generate calls g and resolves its result to bytes.
func (t *Tiered) generate(ctx context.Context, g Generator, prompt string) (Image, error) {
	img, err := g.Generate(ctx, prompt)
	if err != nil {
		return Image{}, err
	}
	if img.Empty() {
		return Image{}, fmt.Errorf("%s: %w", g.Name(), ErrNoImage)
	}
	img, err = Normalize(ctx, t.HTTP, img)
	if err != nil {
		return Image{}, fmt.Errorf("%s: %w", g.Name(), err)
	}
	return img, nil
}

func (t *Tiered) usePrimary() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Primary != nil && !t.primaryFailed
}

func (t *Tiered) markPrimaryFailed() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.primaryFailed = true
}
