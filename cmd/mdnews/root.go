// ABOUTME: Root Cobra command and global flags
// ABOUTME: Sets up CLI structure, logging verbosity, and shared path configuration

package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/harper/mdnews/internal/config"
)

var (
	feedsPath string
	buildDir  string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "mdnews",
	Short: "Daily RSS digest and e-book builder",
	Long: `mdnews ingests a configured set of RSS feeds, extracts and cleans the
full text of each linked article, normalizes embedded media, and renders the
result into a browsable page digest and an EPUB e-book.

Fetched pages, extracted text, and transcoded images are cached by content
identity under the build directory, so repeated runs never re-download and
always reproduce the same output.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

// paths returns the build tree configuration for the current flags.
func paths() config.Paths {
	return config.Paths{Build: buildDir}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&feedsPath, "feeds", "feeds.yml", "feed configuration file")
	rootCmd.PersistentFlags().StringVar(&buildDir, "build", "build", "build directory for cache and rendered output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
