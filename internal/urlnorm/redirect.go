package urlnorm

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/evanm/newslinker/internal/newsletters"
)

// DefaultRedirectParams is the ordered list of query parameter names that
// click-tracking wrappers use to carry the destination URL.
func DefaultRedirectParams() []string {
	return []string{"redirect", "url", "u", "target", "r", "to"}
}

// Resolver unwraps known tracking/redirect wrapper shapes into the URL they
// point to. It never fails: any decode problem means "no redirect found" and
// the input is returned unchanged.
type Resolver struct {
	endpoints  []newsletters.RedirectEndpoint
	paramNames []string
	parser     *jwt.Parser
}

// NewResolver builds a Resolver from explicit endpoint shapes and redirect
// parameter names. Use DefaultResolver for the stock configuration.
func NewResolver(endpoints []newsletters.RedirectEndpoint, paramNames []string) *Resolver {
	return &Resolver{
		endpoints:  endpoints,
		paramNames: paramNames,
		parser:     jwt.NewParser(),
	}
}

// DefaultResolver returns a Resolver configured with the known platform
// redirect endpoints and the standard redirect parameter names.
func DefaultResolver() *Resolver {
	return NewResolver(newsletters.RedirectEndpoints(), DefaultRedirectParams())
}

// Unwrap applies the two unwrap strategies in order and returns the result of
// the first one that matches, or the input unchanged. Unwrapping is a single
// level; the result is not unwrapped again.
func (r *Resolver) Unwrap(u *URL) *URL {
	if dest, ok := r.unwrapToken(u); ok {
		return dest
	}
	if dest, ok := r.unwrapParam(u); ok {
		return dest
	}
	return u
}

// unwrapToken handles wrapper-path redirects: the host and path match a known
// redirect endpoint shape and an opaque token parameter carries a signed
// payload naming the destination host. The signature is the platform's, not
// ours, so the token is decoded without verification.
func (r *Resolver) unwrapToken(u *URL) (*URL, bool) {
	for _, ep := range r.endpoints {
		if !strings.HasSuffix(strings.ToLower(u.Host), ep.HostSuffix) {
			continue
		}
		if !strings.HasPrefix(u.Path, ep.PathPrefix) {
			continue
		}

		token, ok := u.Param(ep.TokenParam)
		if !ok || token == "" {
			continue
		}

		claims := jwt.MapClaims{}
		if _, _, err := r.parser.ParseUnverified(token, claims); err != nil {
			continue
		}
		host, _ := claims[ep.HostClaim].(string)
		if host == "" {
			continue
		}

		dest, err := Parse("https://" + host)
		if err != nil {
			continue
		}
		return dest, true
	}
	return nil, false
}

// unwrapParam handles plain redirect query parameters: the first name in list
// order whose decoded value is itself a valid absolute URL replaces the whole
// URL. Later names are not consulted once one has matched.
func (r *Resolver) unwrapParam(u *URL) (*URL, bool) {
	for _, name := range r.paramNames {
		value, ok := u.Param(name)
		if !ok {
			continue
		}
		dest, err := Parse(value)
		if err != nil {
			continue
		}
		return dest, true
	}
	return nil, false
}
