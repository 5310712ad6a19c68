package fallback

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/animus-coder/readmeart/internal/llm"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), KindTimeout},
		{"net timeout", fmt.Errorf("dial: %w", timeoutErr{}), KindTimeout},
		{"forbidden", &llm.StatusError{Provider: "github", Code: http.StatusForbidden}, KindForbidden},
		{"other status", &llm.StatusError{Provider: "github", Code: http.StatusTooManyRequests}, KindGeneric},
		{"empty", fmt.Errorf("m: %w", ErrEmpty), KindEmpty},
		{"empty content", fmt.Errorf("github: %w", llm.ErrEmptyContent), KindEmpty},
		{"generic", errors.New("boom"), KindGeneric},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Classify(tc.err), tc.name)
	}
}
