package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"sync/atomic"

	"golang.org/x/crypto/blake2b"
)

// DefaultAPIKeyHeader is used when no header name is configured
const DefaultAPIKeyHeader = "X-API-Key"

// APIKeyPrincipal is attached to requests that presented the secret
const APIKeyPrincipal = "api-key"

// Decision is the outcome of the API key gate for one request
type Decision int

const (
	// DecisionDisabled means no secret is configured
	DecisionDisabled Decision = iota
	// DecisionPublic means the path is on the allow-list
	DecisionPublic
	// DecisionAuthenticated means the request carried the secret
	DecisionAuthenticated
	// DecisionRejected means the credential was missing or wrong
	DecisionRejected
)

func (d Decision) String() string {
	switch d {
	case DecisionDisabled:
		return "disabled"
	case DecisionPublic:
		return "public"
	case DecisionAuthenticated:
		return "authenticated"
	default:
		return "rejected"
	}
}

// publicPaths bypass the gate. Entries ending in "/**" match the prefix
// itself and everything below it.
var publicPaths = []string{
	"/",
	"/actuator/health",
	"/actuator/info",
	"/actuator/metrics",
	"/swagger-ui/**",
	"/v3/api-docs/**",
	"/h2-console/**",
}

// IsPublicPath reports whether path is on the gate's allow-list
func IsPublicPath(path string) bool {
	for _, p := range publicPaths {
		if prefix, ok := strings.CutSuffix(p, "/**"); ok {
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}

// GateConfig configures the API key gate. An empty Secret disables it.
type GateConfig struct {
	Secret string
	Header string
}

type gateState struct {
	enabled bool
	header  string
	digest  [blake2b.Size256]byte
}

// APIKeyGate rejects requests that do not present the shared secret.
// Its configuration can be swapped while requests are in flight.
type APIKeyGate struct {
	state    atomic.Pointer[gateState]
	observer func(Decision)
}

// NewAPIKeyGate creates a gate. observer, if non-nil, is called with every
// decision.
func NewAPIKeyGate(cfg GateConfig, observer func(Decision)) *APIKeyGate {
	g := &APIKeyGate{observer: observer}
	g.Update(cfg)
	return g
}

// Update replaces the gate configuration
func (g *APIKeyGate) Update(cfg GateConfig) {
	header := strings.TrimSpace(cfg.Header)
	if header == "" {
		header = DefaultAPIKeyHeader
	}
	s := &gateState{
		enabled: strings.TrimSpace(cfg.Secret) != "",
		header:  header,
	}
	if s.enabled {
		s.digest = blake2b.Sum256([]byte(cfg.Secret))
	}
	g.state.Store(s)
}

// Enabled reports whether a secret is configured
func (g *APIKeyGate) Enabled() bool {
	return g.state.Load().enabled
}

// Header returns the credential header name
func (g *APIKeyGate) Header() string {
	return g.state.Load().header
}

// Decide evaluates the gate for r without side effects
func (g *APIKeyGate) Decide(r *http.Request) Decision {
	s := g.state.Load()
	if !s.enabled {
		return DecisionDisabled
	}
	if IsPublicPath(r.URL.Path) {
		return DecisionPublic
	}

	values, present := r.Header[http.CanonicalHeaderKey(s.header)]
	if !present || len(values) == 0 {
		return DecisionRejected
	}
	// compare fixed-length digests in constant time
	provided := blake2b.Sum256([]byte(values[0]))
	if subtle.ConstantTimeCompare(provided[:], s.digest[:]) != 1 {
		return DecisionRejected
	}
	return DecisionAuthenticated
}

// Middleware enforces the gate. Rejected requests get 401 with no body.
func (g *APIKeyGate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := g.Decide(r)
		if g.observer != nil {
			g.observer(decision)
		}

		switch decision {
		case DecisionRejected:
			w.WriteHeader(http.StatusUnauthorized)
			return
		case DecisionAuthenticated:
			ctx := context.WithValue(r.Context(), PrincipalKey, APIKeyPrincipal)
			r = r.WithContext(ctx)
		}

		next.ServeHTTP(w, r)
	})
}

// GetPrincipal returns the authenticated principal, or "" when the request
// was not authenticated by the gate
func GetPrincipal(ctx context.Context) string {
	if p, ok := ctx.Value(PrincipalKey).(string); ok {
		return p
	}
	return ""
}
