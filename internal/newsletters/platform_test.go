package newsletters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		expected Platform
	}{
		{"Substack subdomain", "myletter.substack.com", PlatformSubstack},
		{"Substack CDN", "img.substackcdn.com", PlatformSubstack},
		{"Beehiiv link host", "link.mail.beehiiv.com", PlatformBeehiiv},
		{"Mailchimp list-manage", "us1.list-manage.com", PlatformMailchimp},
		{"Mailchimp short domain", "mailchi.mp", PlatformMailchimp},
		{"Mailchimp archive", "us1.campaign-archive.com", PlatformMailchimp},
		{"Ghost", "blog.ghost.io", PlatformGhost},
		{"ConvertKit", "ck.convertkit-mail.com", PlatformConvertKit},
		{"Kit domain", "world.kit.com", PlatformConvertKit},
		{"Buttondown email", "buttondown.email", PlatformButtondown},
		{"Buttondown com", "buttondown.com", PlatformButtondown},
		{"Case insensitive", "MyLetter.SUBSTACK.com", PlatformSubstack},
		{"Custom domain", "news.example", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectPlatform(tt.host))
		})
	}
}

func TestIsLongFormPostPath(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		path     string
		longForm bool
	}{
		{"Substack post", "myletter.substack.com", "/p/the-big-story", true},
		{"Substack non-post", "myletter.substack.com", "/about", false},
		{"Beehiiv post", "myletter.beehiiv.com", "/p/weekly-digest-42", true},
		{"Medium story", "medium.com", "/@author/a-great-story-9f8a7b6c5d4e", true},
		{"Medium without hash", "medium.com", "/@author/just-a-profile", false},
		{"Ghost post", "blog.ghost.io", "/a-long-article-slug", true},
		{"Ghost too short", "blog.ghost.io", "/tag", false},
		{"Buttondown archive", "buttondown.email", "/letter/archive/issue-42/", true},
		{"Custom domain misses the bonus", "news.example", "/p/the-big-story", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.longForm, IsLongFormPostPath(tt.host, tt.path))
		})
	}
}

func TestRedirectEndpoints(t *testing.T) {
	endpoints := RedirectEndpoints()
	assert.NotEmpty(t, endpoints)
	for _, ep := range endpoints {
		assert.NotEmpty(t, ep.HostSuffix)
		assert.NotEmpty(t, ep.PathPrefix)
		assert.NotEmpty(t, ep.TokenParam)
		assert.NotEmpty(t, ep.HostClaim)
	}
}
