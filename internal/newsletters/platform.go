// Package newsletters centralizes knowledge about newsletter platforms: which
// hosts belong to which platform, what their long-form post URLs look like,
// and the tracking endpoints their mail infrastructure injects into messages.
// Everything here is data consumed by the junk, scoring and urlnorm packages.
package newsletters

import (
	"regexp"
	"strings"
)

// Platform represents a known newsletter publishing platform.
type Platform string

const (
	// PlatformSubstack is the Substack publishing platform
	PlatformSubstack Platform = "substack"
	// PlatformBeehiiv is the beehiiv publishing platform
	PlatformBeehiiv Platform = "beehiiv"
	// PlatformMailchimp is the Mailchimp campaign platform
	PlatformMailchimp Platform = "mailchimp"
	// PlatformGhost is the Ghost publishing platform
	PlatformGhost Platform = "ghost"
	// PlatformConvertKit is the ConvertKit/Kit platform
	PlatformConvertKit Platform = "convertkit"
	// PlatformButtondown is the Buttondown platform
	PlatformButtondown Platform = "buttondown"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the newsletter platform from a host name.
func DetectPlatform(host string) Platform {
	host = strings.ToLower(host)

	switch {
	case strings.Contains(host, "substack.com") || strings.Contains(host, "substackcdn.com"):
		return PlatformSubstack
	case strings.Contains(host, "beehiiv.com"):
		return PlatformBeehiiv
	case strings.Contains(host, "list-manage.com") || strings.Contains(host, "campaign-archive.com") ||
		strings.Contains(host, "mailchi.mp"):
		return PlatformMailchimp
	case strings.Contains(host, "ghost.io"):
		return PlatformGhost
	case strings.Contains(host, "convertkit") || strings.Contains(host, "kit.com"):
		return PlatformConvertKit
	case strings.Contains(host, "buttondown.email") || strings.Contains(host, "buttondown.com"):
		return PlatformButtondown
	}

	return PlatformUnknown
}

// longFormPaths maps a host suffix to the path shape of a long-form post on
// that platform. Custom-domain publications are not detectable this way and
// simply miss the bonus.
var longFormPaths = []struct {
	hostPart string
	path     *regexp.Regexp
}{
	{"substack.com", regexp.MustCompile(`^/p/[^/]+`)},
	{"beehiiv.com", regexp.MustCompile(`^/p/[^/]+`)},
	{"medium.com", regexp.MustCompile(`^/(@[^/]+/)?[a-z0-9-]+-[0-9a-f]{8,}$`)},
	{"ghost.io", regexp.MustCompile(`^/[a-z0-9][a-z0-9-]{6,}/?$`)},
	{"buttondown.email", regexp.MustCompile(`^/[^/]+/archive/`)},
	{"buttondown.com", regexp.MustCompile(`^/[^/]+/archive/`)},
}

// IsLongFormPostPath reports whether host/path looks like a long-form post
// URL on a known platform.
func IsLongFormPostPath(host, path string) bool {
	host = strings.ToLower(host)
	for _, lf := range longFormPaths {
		if strings.Contains(host, lf.hostPart) && lf.path.MatchString(path) {
			return true
		}
	}
	return false
}

// RedirectEndpoint describes a click-tracking redirect URL shape used by a
// platform's mail infrastructure. The token parameter carries a dot-delimited
// signed payload whose claims include the destination host.
type RedirectEndpoint struct {
	HostSuffix string // matched against the end of the URL host
	PathPrefix string // matched against the start of the URL path
	TokenParam string // query parameter carrying the encoded token
	HostClaim  string // claim key holding the destination host
}

// RedirectEndpoints returns the known wrapper-redirect endpoint shapes.
func RedirectEndpoints() []RedirectEndpoint {
	return []RedirectEndpoint{
		{HostSuffix: "substack.com", PathPrefix: "/redirect/", TokenParam: "j", HostClaim: "h"},
		{HostSuffix: "link.mail.beehiiv.com", PathPrefix: "/ss/c/", TokenParam: "token", HostClaim: "host"},
	}
}

// TrackingPixelPatterns returns URL patterns of open-tracking pixels.
func TrackingPixelPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`(?i)/ss/o/`),                      // beehiiv open pixel
		regexp.MustCompile(`(?i)substack\.com/o/`),            // Substack open pixel
		regexp.MustCompile(`(?i)list-manage\.com/track/open`), // Mailchimp open pixel
		regexp.MustCompile(`(?i)/track/open\.php`),
	}
}

// BrokenRedirectPatterns returns URL patterns of click-tracking redirect
// endpoints that no longer resolve and must never be selected.
func BrokenRedirectPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`(?i)/CL0/`),
		regexp.MustCompile(`(?i)/ss/c/u001\.`),
	}
}

// AppLinkPatterns returns URL patterns of app-install prompts and app-link
// redirects.
func AppLinkPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`(?i)/app-link/`),
		regexp.MustCompile(`(?i)apps\.apple\.com`),
		regexp.MustCompile(`(?i)itunes\.apple\.com`),
		regexp.MustCompile(`(?i)play\.google\.com/store`),
	}
}
