package fallback

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/animus-coder/readmeart/internal/llm"
)

// Kind is the coarse category a failed attempt is logged and counted under.
type Kind string

const (
	KindTimeout   Kind = "timeout"
	KindForbidden Kind = "forbidden"
	KindEmpty     Kind = "empty"
	KindGeneric   Kind = "generic"
)

// ErrEmpty marks a call that succeeded at transport level but produced nothing usable.
var ErrEmpty = errors.New("empty result")

type httpStatuser interface {
	HTTPStatus() int
}

// Classify maps an attempt error to its Kind.
func Classify(err error) Kind {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	var statusErr httpStatuser
	if errors.As(err, &statusErr) && statusErr.HTTPStatus() == http.StatusForbidden {
		return KindForbidden
	}
	if errors.Is(err, ErrEmpty) || errors.Is(err, llm.ErrEmptyContent) {
		return KindEmpty
	}
	return KindGeneric
}
