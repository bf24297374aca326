package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pqpriv-whitepaper/internal/progress"
	"github.com/ziadkadry99/pqpriv-whitepaper/internal/site"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the whitepaper as static pages",
	Long: `Writes one self-contained page per language plus outline.json. Static
pages track the active section in the browser without a server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir, _ := cmd.Flags().GetString("output")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cat, err := openCatalog(cfg)
		if err != nil {
			return err
		}
		renderer, err := site.NewRenderer(cat)
		if err != nil {
			return fmt.Errorf("rendering content: %w", err)
		}

		pages, err := renderer.Export(outDir, progress.NewReporter("Exporting"))
		if err != nil {
			return fmt.Errorf("exporting: %w", err)
		}
		fmt.Printf("Exported %d pages to %s\n", pages, outDir)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "dist", "output directory")
	rootCmd.AddCommand(exportCmd)
}
