package fallback

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/animus-coder/readmeart/internal/catalog"
	"github.com/animus-coder/readmeart/internal/logging"
)

// Policy decides what happens once every candidate has failed.
type Policy int

const (
	// Silent returns the fallback value with no error.
	Silent Policy = iota
	// Strict returns the fallback value together with the last attempt's error.
	Strict
)

func (p Policy) String() string {
	if p == Strict {
		return "strict"
	}
	return "silent"
}

// ErrExhausted is wrapped into the error returned by a Strict invoker when no
// candidate succeeded.
var ErrExhausted = errors.New("all candidate models failed")

// WorkUnit is the request built for one candidate model.
type WorkUnit struct {
	Model  catalog.Model
	Prompt string
}

// Attempt records one failed call.
type Attempt struct {
	Model string
	Kind  Kind
	Err   error
}

// Result is the outcome of an invocation. Model is empty when the fallback
// value was returned.
type Result[T any] struct {
	Value     T
	Model     catalog.Model
	Exhausted bool
	Attempts  []Attempt
}

// Recorder receives per-attempt and per-invocation counters.
type Recorder interface {
	RecordModelUsage(role, model string)
	RecordModelFailure(role, model, kind string)
	RecordInvocation(role, outcome string, elapsed time.Duration)
}

// Invoker tries a shuffled subset of a model pool until one call succeeds.
type Invoker[T any] struct {
	// Role labels logs and metrics, e.g. "prompt" or "art".
	Role string
	// Budget caps the number of attempts; zero or less means the whole pool.
	Budget int
	Policy Policy
	Rand   *rand.Rand
	Logger *zap.Logger
	// Metrics may be nil.
	Metrics Recorder
	// Empty reports results that count as failures. Defaults to blank
	// strings and zero-length byte slices.
	Empty func(T) bool
}

// Invoke runs execute against at most Budget distinct models from pool, in
// random order, stopping at the first non-empty success. When the pool is
// empty or every attempt fails the fallback value is returned; a Strict
// invoker also returns an error wrapping ErrExhausted and the last failure.
// Cancellation of ctx stops the loop and is returned as is.
func (inv *Invoker[T]) Invoke(
	ctx context.Context,
	pool []catalog.Model,
	build func(catalog.Model) WorkUnit,
	execute func(context.Context, WorkUnit) (T, error),
	fallback T,
) (Result[T], error) {
	log := inv.logger()
	start := time.Now()

	candidates := Candidates(pool, inv.Budget, inv.rng())
	if len(candidates) == 0 {
		log.Warn("no candidate models; using fallback")
		inv.recordInvocation("fallback", start)
		return Result[T]{Value: fallback, Exhausted: true}, nil
	}

	var (
		attempts []Attempt
		lastErr  error
	)
	for i, model := range candidates {
		if err := ctx.Err(); err != nil {
			inv.recordInvocation("canceled", start)
			return Result[T]{Value: fallback, Exhausted: true, Attempts: attempts}, err
		}

		log.Info("trying model",
			zap.String("model", model.ID),
			zap.Int("attempt", i+1),
			zap.Int("of", len(candidates)),
		)

		value, err := execute(ctx, build(model))
		if err == nil && inv.isEmpty(value) {
			err = fmt.Errorf("%s: %w", model.ID, ErrEmpty)
		}
		if err == nil {
			log.Info("model succeeded", zap.String("model", model.ID))
			if inv.Metrics != nil {
				inv.Metrics.RecordModelUsage(inv.Role, model.ID)
			}
			inv.recordInvocation("success", start)
			return Result[T]{Value: value, Model: model, Attempts: attempts}, nil
		}

		// a canceled parent is not a model failure
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			inv.recordInvocation("canceled", start)
			return Result[T]{Value: fallback, Exhausted: true, Attempts: attempts}, ctxErr
		}

		kind := Classify(err)
		attempts = append(attempts, Attempt{Model: model.ID, Kind: kind, Err: err})
		lastErr = err
		log.Warn("model failed",
			zap.String("model", model.ID),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		if inv.Metrics != nil {
			inv.Metrics.RecordModelFailure(inv.Role, model.ID, string(kind))
		}
	}

	res := Result[T]{Value: fallback, Exhausted: true, Attempts: attempts}
	if inv.Policy == Strict {
		log.Error("all candidate models failed", zap.Int("attempts", len(attempts)))
		inv.recordInvocation("exhausted", start)
		return res, fmt.Errorf("%s: %w after %d attempts: %w", inv.Role, ErrExhausted, len(attempts), lastErr)
	}
	log.Warn("all candidate models failed; using fallback", zap.Int("attempts", len(attempts)))
	inv.recordInvocation("fallback", start)
	return res, nil
}

// Candidates returns a uniformly shuffled copy of pool truncated to budget.
// The input slice is never reordered.
func Candidates(pool []catalog.Model, budget int, rng *rand.Rand) []catalog.Model {
	shuffled := make([]catalog.Model, len(pool))
	copy(shuffled, pool)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	if budget > 0 && budget < len(shuffled) {
		shuffled = shuffled[:budget]
	}
	return shuffled
}

func (inv *Invoker[T]) isEmpty(v T) bool {
	if inv.Empty != nil {
		return inv.Empty(v)
	}
	switch val := any(v).(type) {
	case string:
		return strings.TrimSpace(val) == ""
	case []byte:
		return len(val) == 0
	}
	return false
}

func (inv *Invoker[T]) rng() *rand.Rand {
	if inv.Rand != nil {
		return inv.Rand
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func (inv *Invoker[T]) logger() *zap.Logger {
	return logging.OrNop(inv.Logger).With(zap.String("role", inv.Role), zap.String("policy", inv.Policy.String()))
}

func (inv *Invoker[T]) recordInvocation(outcome string, start time.Time) {
	if inv.Metrics != nil {
		inv.Metrics.RecordInvocation(inv.Role, outcome, time.Since(start))
	}
}
