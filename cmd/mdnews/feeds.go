// ABOUTME: Feeds command listing the configured feed sources
// ABOUTME: Shows name, format tag, URL, and skip status with color formatting

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/mdnews/internal/config"
)

var feedsCmd = &cobra.Command{
	Use:   "feeds",
	Short: "List configured feeds",
	Long:  "List the feeds from the configuration file with their format tags and skip status.",
	RunE: func(cmd *cobra.Command, args []string) error {
		feeds, err := config.LoadFeeds(feedsPath)
		if err != nil {
			return err
		}

		if len(feeds) == 0 {
			fmt.Println("No feeds configured.")
			return nil
		}

		bold := color.New(color.Bold).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()

		for _, fc := range feeds {
			marker := " "
			if fc.Skip {
				marker = faint("s")
			}
			fmt.Printf("%s %s %s\n", marker, bold(fc.Name), faint("["+fc.Format+"]"))
			fmt.Printf("    %s\n", fc.URL)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(feedsCmd)
}
