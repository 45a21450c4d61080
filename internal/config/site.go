package config

// SiteConfig holds site-specific configuration for a single wiki host.
// This allows customizing crawl behavior per site without changing flags,
// which matters when the same config file drives archives of several wikis.
type SiteConfig struct {
	// Cookie is an HTTP cookie to send when crawling this site.
	// Format: "name=value" or "name1=value1; name2=value2".
	// Useful for wikis that gate content behind an accepted-terms cookie.
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// CrawlDelay overrides the politeness delay for this site.
	// Go duration syntax (e.g. "500ms", "2s"). Empty means no override.
	CrawlDelay string `yaml:"crawlDelay,omitempty"`

	// MaxPages overrides the page cap for this site.
	// Zero means no override.
	MaxPages int `yaml:"maxPages,omitempty"`

	// IgnorePrefixes are additional URL path prefixes to treat as out of
	// scope for this site, on top of the built-in namespace deny list.
	IgnorePrefixes []string `yaml:"ignorePrefixes,omitempty"`
}

// File represents the structure of the .wikidump configuration file.
type File struct {
	// Sites maps wiki hosts to their site-specific configurations.
	// Keys are bare hosts without a scheme (e.g. "example.fandom.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific wiki host.
// It merges the site-specific configuration with defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	// Start with defaults
	result := cf.Defaults

	// Override with site-specific configuration if present
	if siteConfig, ok := cf.Sites[host]; ok {
		if siteConfig.Cookie != "" {
			result.Cookie = siteConfig.Cookie
		}
		if siteConfig.CrawlDelay != "" {
			result.CrawlDelay = siteConfig.CrawlDelay
		}
		if siteConfig.MaxPages != 0 {
			result.MaxPages = siteConfig.MaxPages
		}
		if len(siteConfig.Headers) > 0 {
			// Copy rather than write into the defaults map, which the
			// result would otherwise alias.
			merged := make(map[string]string, len(cf.Defaults.Headers)+len(siteConfig.Headers))
			for k, v := range cf.Defaults.Headers {
				merged[k] = v
			}
			for k, v := range siteConfig.Headers {
				merged[k] = v
			}
			result.Headers = merged
		}
		if len(siteConfig.IgnorePrefixes) > 0 {
			result.IgnorePrefixes = siteConfig.IgnorePrefixes
		}
	}

	return result
}
