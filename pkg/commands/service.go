package commands

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tableflip.dev/tierit/pkg/app"
	"tableflip.dev/tierit/pkg/store"
)

const logFile = "tierit.log"

// openService wires config, persistence and logging into a ready service.
// With toFile set the log goes to a file beside the store instead of stderr.
func openService(ctx context.Context, toFile bool) (*app.Service, func(), error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	p, err := store.Load(cfg)
	if err != nil {
		return nil, nil, err
	}

	var outputs []string
	if toFile {
		outputs = append(outputs, filepath.Join(cfg.BasePath(), logFile))
	}
	logger, err := app.NewLogger(cfg, outputs...)
	if err != nil {
		return nil, nil, err
	}

	svc := app.New(p, cfg, logger)
	if err := svc.Open(ctx); err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	logger.Debug("service open", zap.String("path", cfg.BasePath()))
	return svc, func() { _ = logger.Sync() }, nil
}

func tierCompletions(toComplete string) []string {
	svc, done, err := openService(context.Background(), true)
	if err != nil {
		return nil
	}
	defer done()

	ids := make([]string, 0)
	for _, t := range svc.Board().Tiers() {
		if strings.HasPrefix(t.ID, toComplete) {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

func registerTierCompletion(cmd *cobra.Command, flagName string) {
	_ = cmd.RegisterFlagCompletionFunc(flagName, func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return tierCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})
}
