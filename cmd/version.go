package cmd

import (
	"fmt"
	goruntime "runtime"

	"github.com/spf13/cobra"

	"github.com/autobrr/namedir/pkg/runtime"
)

func VersionCommand() *cobra.Command {
	var short bool

	command := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Long:  `Print the release, commit and toolchain namedir was built from.`,
		Example: `  namedir version
  namedir version --short`,
		Args: cobra.NoArgs,
	}

	command.Flags().BoolVar(&short, "short", false, "Print only the release")

	command.RunE = func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if short {
			fmt.Fprintln(out, runtime.Version)
			return nil
		}

		fmt.Fprintf(out, "namedir %s\n", runtime.Version)
		fmt.Fprintf(out, "  commit: %s\n", orUnknown(runtime.GitCommit))
		fmt.Fprintf(out, "  built:  %s\n", orUnknown(runtime.Timestamp))
		fmt.Fprintf(out, "  go:     %s %s/%s\n", goruntime.Version(), goruntime.GOOS, goruntime.GOARCH)
		return nil
	}

	return command
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
