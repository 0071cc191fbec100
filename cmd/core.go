package cmd

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"

	"github.com/autobrr/namedir/pkg/config"
	"github.com/autobrr/namedir/pkg/corpus"
	"github.com/autobrr/namedir/pkg/directory"
	"github.com/autobrr/namedir/pkg/expression"
	"github.com/autobrr/namedir/pkg/httputils"
	"github.com/autobrr/namedir/pkg/logger"
)

var (
	// Global flags
	FlagLogLevel     = 0
	FlagConfigFile   = "config.yaml"
	FlagConfigFolder = config.GetDefaultConfigDirectory("namedir", FlagConfigFile)
	FlagLogFile      = "activity.log"
	FlagCorpus       string

	// Global vars
	log         *logrus.Entry
	initialized bool
)

func initCore(fileLogging bool) {
	if initialized {
		return
	}

	logFile := ""
	if fileLogging && FlagLogFile != "" {
		logFile = filepath.Join(FlagConfigFolder, FlagLogFile)
	}

	if err := logger.Init(logger.Config{File: logFile, Verbosity: FlagLogLevel}); err != nil {
		logrus.WithError(err).Fatal("Failed initializing logger")
	}
	log = logger.GetLogger("app")

	if err := config.Init(filepath.Join(FlagConfigFolder, FlagConfigFile)); err != nil {
		log.WithError(err).Fatal("Failed initializing config")
	}

	if FlagCorpus != "" {
		config.Config.Corpus.Path = FlagCorpus
	}

	initialized = true
}

// loadIndex reads the configured corpus into a new Index. Errors are load failures.
func loadIndex(ctx context.Context, log *logrus.Entry, verifySorted bool) (*directory.Index, time.Duration, error) {
	cfg := config.Config.Corpus
	start := time.Now()

	opts := []directory.BuilderOption{
		directory.WithProgress(cfg.ProgressEvery, func(count int) {
			log.Infof("Loaded %s names...", humanize.Comma(int64(count)))
		}),
		directory.WithLetterObserver(func(letter string, offset int) {
			log.Debugf("Letter %s starts at index %s", letter, humanize.Comma(int64(offset)))
		}),
	}

	if verifySorted || cfg.VerifySorted {
		opts = append(opts, directory.WithVerifySorted())
	}

	filter, err := corpusFilter(log)
	if err != nil {
		return nil, 0, err
	}
	if filter != nil {
		opts = append(opts, directory.WithFilter(filter))
	}

	log.Infof("Loading names from %q", cfg.Path)

	idx, err := corpus.Load(ctx, cfg.Path, corpusOptions(), opts...)
	if err != nil {
		return nil, 0, err
	}

	took := time.Since(start)
	log.WithField("letters", len(idx.Letters())).
		Infof("Loaded %s names in %s", humanize.Comma(int64(idx.Count())), took.Round(time.Millisecond))

	return idx, took, nil
}

// corpusOptions applies the corpus.http settings to remote locations.
func corpusOptions() []corpus.Option {
	cfg := config.Config.Corpus.HTTP

	var limiter ratelimit.Limiter
	if cfg.RatePerSecond > 0 {
		limiter = ratelimit.New(cfg.RatePerSecond, ratelimit.WithoutSlack)
	}

	opts := []corpus.Option{corpus.WithHTTPClient(httputils.NewRetryableHttpClient(cfg.Timeout, limiter))}

	if len(cfg.Query) > 0 {
		query := url.Values{}
		for k, v := range cfg.Query {
			query.Set(k, v)
		}
		opts = append(opts, corpus.WithQuery(query))
	}

	return opts
}

// corpusFilter compiles corpus.filters. A nil filter means every name is kept.
func corpusFilter(log *logrus.Entry) (directory.NameFilter, error) {
	filters := config.Config.Corpus.Filters
	if len(filters) == 0 {
		return nil, nil
	}

	compiled, err := expression.Compile(filters)
	if err != nil {
		return nil, fmt.Errorf("compile corpus filters: %w", err)
	}
	log.Debugf("Compiled %d corpus filters", len(compiled))

	return expression.NameFilter(compiled, log), nil
}
