package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pqpriv-whitepaper/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "whitepaper",
	Short: "Interactive reader for the PQ-PRIV whitepaper",
	Long: `Serves the PQ-PRIV whitepaper as a single scrolling page with a live
outline: the active section is tracked as you scroll, outline clicks open
the target section and scroll to it, and the whole document is available
in English, Czech and German.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
