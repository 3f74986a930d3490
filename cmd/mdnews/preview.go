// ABOUTME: Preview command rendering the digest page in the terminal
// ABOUTME: Uses glamour for styled markdown with a plain-text fallback

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview the rendered digest page",
	Long:  "Render the last run's digest page in the terminal. Run 'mdnews run' first.",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join(paths().ContentDir(), "README.md")
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("no digest page at %s; run 'mdnews run' first", path)
			}
			return err
		}

		rendered, err := glamour.Render(string(data), "dark")
		if err != nil {
			faint := color.New(color.Faint).SprintFunc()
			fmt.Printf("%s\n", faint("(markdown rendering unavailable, showing plain text)"))
			fmt.Printf("\n%s\n", string(data))
			return nil
		}

		fmt.Print(rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}
