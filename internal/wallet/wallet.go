package wallet

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rubixchain/rubix-dapp/pkg/operation"
)

// Registry correlates wallet popup messages with the connect requests
// waiting for them. At most one request may wait per wallet origin.
type Registry struct {
	mu      sync.Mutex
	pending map[string]*Pending
}

func NewRegistry() *Registry {
	return &Registry{pending: map[string]*Pending{}}
}

type Pending struct {
	origin   string
	registry *Registry
	tokens   chan string
}

// Register reserves the origin, a scheme://host[:port] value, for a
// single connect request.
func (r *Registry) Register(origin string) (*Pending, error) {
	expected, err := Origin(origin)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.pending[expected]; ok {
		return nil, operation.Errorf(operation.CodeConflict, "wallet connect already pending for %s", expected)
	}

	p := &Pending{
		origin:   expected,
		registry: r,
		tokens:   make(chan string, 1),
	}
	r.pending[expected] = p

	return p, nil
}

// Dispatch hands a token to the request registered for exactly the
// message origin. It reports whether one took the token.
func (r *Registry) Dispatch(origin string, token string) bool {
	actual, err := Origin(origin)
	if err != nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pending[actual]
	if !ok {
		return false
	}

	select {
	case p.tokens <- token:
		return true
	default:
		// already has a token, the first message wins
		return false
	}
}

// Origin normalizes a browser origin to lowercase scheme://host[:port].
// Paths, queries and credentials are rejected.
func Origin(origin string) (string, error) {
	if origin == "" {
		return "", operation.Errorf(operation.CodeValidation, "wallet origin required")
	}

	u, err := url.Parse(origin)
	if err != nil || u.Scheme == "" || u.Host == "" || u.User != nil || u.RawQuery != "" || u.Fragment != "" || (u.Path != "" && u.Path != "/") {
		return "", operation.Errorf(operation.CodeValidation, "invalid wallet origin %q", origin)
	}

	return strings.ToLower(u.Scheme + "://" + u.Host), nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.pending)
}

func (r *Registry) remove(p *Pending) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pending[p.origin] == p {
		delete(r.pending, p.origin)
	}
}

func (p *Pending) Origin() string {
	return p.origin
}

// Wait blocks until the wallet posts a token or ctx is done and returns
// the DID carried in the token subject. The origin is released on return.
func (p *Pending) Wait(ctx context.Context) (string, error) {
	defer p.registry.remove(p)

	select {
	case token := <-p.tokens:
		return DIDFromToken(token)
	case <-ctx.Done():
		return "", operation.ErrCancelled
	}
}

// DIDFromToken extracts the sub claim. The wallet signs the token for
// the node, not for us, so the signature is not verified here.
func DIDFromToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", operation.NewError(operation.CodeValidation, "invalid wallet token", err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", operation.Errorf(operation.CodeValidation, "wallet token has no subject")
	}

	return sub, nil
}
