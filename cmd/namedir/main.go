package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/autobrr/namedir/cmd"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "namedir",
		Short: "A paginated, searchable name directory",
		Long: `A CLI application that loads a large, pre-sorted list of names once and serves
paginated browsing, alphabet-letter jumps and prefix search over it.
`,
	}

	// Parse persistent flags
	rootCmd.PersistentFlags().StringVar(&cmd.FlagConfigFolder, "config-dir", cmd.FlagConfigFolder, "Config folder")
	rootCmd.PersistentFlags().StringVarP(&cmd.FlagConfigFile, "config", "c", cmd.FlagConfigFile, "Config file")
	rootCmd.PersistentFlags().StringVarP(&cmd.FlagLogFile, "log", "l", cmd.FlagLogFile, "Log file (relative to the config folder)")
	rootCmd.PersistentFlags().CountVarP(&cmd.FlagLogLevel, "verbose", "v", "Verbose level")
	rootCmd.PersistentFlags().StringVar(&cmd.FlagCorpus, "corpus", "", "Corpus path or URL (overrides config)")

	rootCmd.AddCommand(cmd.ServeCommand())
	rootCmd.AddCommand(cmd.QueryCommand())
	rootCmd.AddCommand(cmd.CheckCommand())
	rootCmd.AddCommand(cmd.UpdateCommand())
	rootCmd.AddCommand(cmd.VersionCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
