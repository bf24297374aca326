package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pqpriv-whitepaper/internal/outline"
)

var outlineCmd = &cobra.Command{
	Use:   "outline",
	Short: "Print the section outline of one language",
	RunE: func(cmd *cobra.Command, args []string) error {
		locale, _ := cmd.Flags().GetString("locale")
		query, _ := cmd.Flags().GetString("query")
		active, _ := cmd.Flags().GetString("active")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cat, err := openCatalog(cfg)
		if err != nil {
			return err
		}
		if locale == "" {
			locale = cat.DefaultLocale()
		}
		doc, err := cat.Lookup(locale)
		if err != nil {
			return err
		}

		sections := doc.Outline()
		matched := outline.Filter(query, sections)
		if len(matched) == 0 {
			fmt.Fprintln(os.Stderr, doc.Labels.NoMatches)
			return nil
		}
		for _, s := range matched {
			marker := " "
			if s.ID == active {
				marker = "*"
			}
			fmt.Printf("%s %s%-20s %s\n", marker, strings.Repeat("  ", s.Level-1), s.ID, s.Title)
		}
		if active != "" {
			fmt.Printf("\n%s: %d%%\n", doc.Labels.Progress, outline.ProgressPercent(active, outline.IDs(sections)))
		}
		return nil
	},
}

func init() {
	outlineCmd.Flags().StringP("locale", "l", "", "language code (defaults to content.default_locale)")
	outlineCmd.Flags().StringP("query", "q", "", "filter sections by title")
	outlineCmd.Flags().String("active", "", "mark a section as active and show progress")
	rootCmd.AddCommand(outlineCmd)
}
