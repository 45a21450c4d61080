// Package main provides the entry point for the wikidump CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for wikidump.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wikidump",
		Short: "Archive a wiki site as plain text files",
		Long: `Wikidump archives a single MediaWiki-style site as plain text files.

Starting from one seed page, it follows article links within the same host,
extracts the readable text of each page, and writes one .txt file per page.
The crawl respects the site's robots.txt and never leaves the seed's host.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
