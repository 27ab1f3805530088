package urlnorm

import "strings"

// DefaultTrackingParams lists the query parameters deleted by name before the
// remainder of the query is discarded. Kept as data so deployments can extend
// the list without touching normalization logic.
func DefaultTrackingParams() []string {
	return []string{
		"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content",
		"mc_cid", "mc_eid",
	}
}

// Normalizer reduces a raw URL to a canonical string so that cosmetically
// different but semantically identical URLs compare equal. Normalization is
// idempotent: feeding the output back in reproduces it unchanged.
type Normalizer struct {
	resolver *Resolver
	tracking map[string]struct{}
}

// NewNormalizer builds a Normalizer around the given redirect resolver and
// tracking parameter names.
func NewNormalizer(resolver *Resolver, trackingParams []string) *Normalizer {
	tracking := make(map[string]struct{}, len(trackingParams))
	for _, name := range trackingParams {
		tracking[name] = struct{}{}
	}
	return &Normalizer{resolver: resolver, tracking: tracking}
}

// DefaultNormalizer returns a Normalizer with the stock redirect resolver and
// tracking parameter list.
func DefaultNormalizer() *Normalizer {
	return NewNormalizer(DefaultResolver(), DefaultTrackingParams())
}

// Normalize canonicalizes a raw URL. The steps are strictly ordered: parse,
// unwrap redirects exactly once, strip tracking parameters then drop the rest
// of the query, lowercase the host and strip one leading "www.", strip
// trailing slashes (the bare root path is kept), drop the fragment, and
// reassemble as scheme://host with path only.
func (n *Normalizer) Normalize(raw string) (string, error) {
	u, err := Parse(raw)
	if err != nil {
		return "", err
	}

	u = n.resolver.Unwrap(u)

	u.Params = stripTracking(u.Params, n.tracking)

	// Whatever survived the tracking filter is discarded as well; the
	// canonical form carries no query string.
	u.Params = nil

	u.Host = strings.ToLower(u.Host)
	u.Host = strings.TrimPrefix(u.Host, "www.")

	for strings.HasSuffix(u.Path, "/") && u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	u.Fragment = ""

	return u.String(), nil
}

// stripTracking deletes parameters whose name appears in the tracking set.
func stripTracking(params []Param, tracking map[string]struct{}) []Param {
	kept := params[:0]
	for _, p := range params {
		if _, tracked := tracking[p.Name]; !tracked {
			kept = append(kept, p)
		}
	}
	return kept
}
