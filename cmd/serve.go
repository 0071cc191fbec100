package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/autobrr/namedir/pkg/api"
	"github.com/autobrr/namedir/pkg/config"
	"github.com/autobrr/namedir/pkg/directory"
	"github.com/autobrr/namedir/pkg/logger"
)

func ServeCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "serve",
		Short: "Load the corpus and serve the directory over HTTP",
		Long:  `This command loads the name corpus once and serves pagination, letter and prefix search endpoints.`,
		Example: `  namedir serve
  namedir serve --corpus /data/usernames.txt.zst`,
		Args: cobra.NoArgs,
	}

	command.Run = func(cmd *cobra.Command, args []string) {
		initCore(true)

		log := logger.GetLogger("serve")
		cfg := config.Config

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		dir := &directory.Directory{}
		server := api.NewServer(api.Config{
			Bind:               cfg.Server.Bind,
			ReadHeaderTimeout:  cfg.Server.ReadHeaderTimeout,
			ShutdownTimeout:    cfg.Server.ShutdownTimeout,
			DefaultPageLimit:   cfg.Defaults.PageLimit,
			DefaultSearchLimit: cfg.Defaults.SearchLimit,
		}, dir, logger.GetLogger("api"))

		if err := serve(ctx, log, server, dir, cfg.Server.ListenDuringLoad); err != nil {
			log.WithError(err).Fatal("Failed serving")
		}
	}

	return command
}

// serve loads the corpus and runs server until ctx is done. With listenDuringLoad,
// queries answer 503 until publish completes and a load failure stops the server.
// A shutdown signal, even mid-load, is a clean exit.
func serve(ctx context.Context, log *logrus.Entry, server *api.Server, dir *directory.Directory, listenDuringLoad bool) error {
	if !listenDuringLoad {
		if err := publish(ctx, log, dir); err != nil {
			return ignoreCanceled(err)
		}
		return ignoreCanceled(server.Start(ctx))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx)
	})
	g.Go(func() error {
		return publish(gctx, log, dir)
	})

	return ignoreCanceled(g.Wait())
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func publish(ctx context.Context, log *logrus.Entry, dir *directory.Directory) error {
	idx, took, err := loadIndex(ctx, log, false)
	if err != nil {
		return err
	}

	if err := dir.Publish(idx); err != nil {
		return err
	}

	api.ObserveLoad(idx.Count(), len(idx.Letters()), took)
	log.Info("Directory ready")

	return nil
}
