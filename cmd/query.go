package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/autobrr/namedir/pkg/config"
	"github.com/autobrr/namedir/pkg/directory"
	"github.com/autobrr/namedir/pkg/logger"
)

var (
	queryOffset int
	queryLimit  int
)

func QueryCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "query",
		Short: "Load the corpus and run a single directory query",
		Long:  `This command loads the name corpus and prints the result of one query as JSON, without starting a server.`,
		Example: `  namedir query count
  namedir query range --offset 100 --limit 10
  namedir query letter M --limit 20
  namedir query search john`,
	}

	command.PersistentFlags().IntVar(&queryOffset, "offset", 0, "Offset into the corpus or letter bucket")
	command.PersistentFlags().IntVar(&queryLimit, "limit", 0, "Maximum results (0 uses the configured default)")

	command.AddCommand(
		queryRunner("count", "Print the number of names", cobra.NoArgs, func(idx *directory.Index, _ []string) (any, error) {
			return map[string]int{"count": idx.Count()}, nil
		}),
		queryRunner("index", "Print the letter offsets", cobra.NoArgs, func(idx *directory.Index, _ []string) (any, error) {
			return idx.LetterIndex(), nil
		}),
		queryRunner("range", "Print a page of names", cobra.NoArgs, func(idx *directory.Index, _ []string) (any, error) {
			return idx.Range(queryOffset, limitOr(config.Config.Defaults.PageLimit))
		}),
		queryRunner("letter LETTER", "Print a page of names under a letter", cobra.ExactArgs(1), func(idx *directory.Index, args []string) (any, error) {
			return idx.Letter(args[0], queryOffset, limitOr(config.Config.Defaults.PageLimit))
		}),
		queryRunner("search PREFIX", "Print names starting with a prefix", cobra.ExactArgs(1), func(idx *directory.Index, args []string) (any, error) {
			return idx.Search(args[0], limitOr(config.Config.Defaults.SearchLimit))
		}),
		queryRunner("name ID", "Print the name at an id", cobra.ExactArgs(1), func(idx *directory.Index, args []string) (any, error) {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return nil, fmt.Errorf("parse id: %w", err)
			}
			name, ok := idx.Name(id)
			if !ok {
				return nil, fmt.Errorf("%w: %d", directory.ErrInvalidOffset, id)
			}
			return directory.Entry{ID: id, Name: name}, nil
		}),
	)

	return command
}

type queryFunc func(idx *directory.Index, args []string) (any, error)

func queryRunner(use string, short string, args cobra.PositionalArgs, fn queryFunc) *cobra.Command {
	return &cobra.Command{
		Use:          use,
		Short:        short,
		Args:         args,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			initCore(false)
			// keep stdout for the JSON result
			logger.Logger.SetOutput(os.Stderr)

			idx, _, err := loadIndex(cmd.Context(), logger.GetLogger("query"), false)
			if err != nil {
				return fmt.Errorf("load corpus: %w", err)
			}

			result, err := fn(idx, args)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}

func limitOr(def int) int {
	if queryLimit > 0 {
		return queryLimit
	}
	return def
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
