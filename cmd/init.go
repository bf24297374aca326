package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pqpriv-whitepaper/internal/config"
	"github.com/ziadkadry99/pqpriv-whitepaper/internal/content"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize reader configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the reader and generates a .whitepaper.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := content.Open("", content.DefaultLocale)
		if err != nil {
			return err
		}
		_, err = config.RunWizard(cfgFile, cat.Locales())
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
