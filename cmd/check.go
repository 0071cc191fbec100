package cmd

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/autobrr/namedir/pkg/config"
	"github.com/autobrr/namedir/pkg/corpus"
	"github.com/autobrr/namedir/pkg/directory"
	"github.com/autobrr/namedir/pkg/logger"
)

func CheckCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "check",
		Short: "Verify the corpus is sorted the way the directory expects",
		Long: `This command reads the whole corpus and reports names out of case-insensitive order
and letters whose names appear in more than one block. It exits non-zero on any finding.`,
		Example: `  namedir check
  namedir check --corpus names.txt.gz`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	command.RunE = func(cmd *cobra.Command, args []string) error {
		initCore(false)

		log := logger.GetLogger("check")
		path := config.Config.Corpus.Path

		filter, err := corpusFilter(log)
		if err != nil {
			return err
		}

		rc, err := corpus.Open(cmd.Context(), path, corpusOptions()...)
		if err != nil {
			log.WithError(err).Fatal("Failed opening corpus")
		}
		defer rc.Close()

		audit := directory.NewAudit()
		scanner := corpus.NewScanner(rc)
		for scanner.Scan() {
			name := strings.TrimSpace(scanner.Text())
			if name == "" {
				continue
			}

			// audit what serve would index
			if filter != nil {
				skip, err := filter(name)
				if err != nil {
					return err
				}
				if skip {
					continue
				}
			}

			audit.Add(name)
		}
		if err := scanner.Err(); err != nil {
			log.WithError(err).Fatal("Failed reading corpus")
		}

		report := audit.Report()
		log.Infof("Checked %s names from %q", humanize.Comma(int64(report.Count)), path)

		if report.Sorted() {
			log.Info("Corpus is sorted")
			return nil
		}

		for _, d := range report.Samples {
			log.Warnf("Out of order at %s: %q after %q", humanize.Comma(int64(d.Position)), d.Name, d.Previous)
		}
		if len(report.SplitLetters) > 0 {
			log.Warnf("Letters split across blocks: %s", strings.Join(report.SplitLetters, ", "))
		}

		return fmt.Errorf("%w: %s descents, %d split letters", directory.ErrUnsorted,
			humanize.Comma(int64(report.Descents)), len(report.SplitLetters))
	}

	return command
}
