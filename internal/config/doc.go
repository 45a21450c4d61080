// Package config provides configuration structures and utilities for wikidump.
// It defines the crawl options (concurrency, timeouts, output location),
// validation of those options, and the optional .wikidump YAML file with
// per-site overrides.
package config
