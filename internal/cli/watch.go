package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/runar-labs/runar-sqlite/sqlite"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the database for external changes",
	Long: `Subscribes to database/changed events and prints one line per
observed external write. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stopSignals := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	svcCfg := cfg.serviceConfig()
	svcCfg.WatchExternal = true
	svc := sqlite.New(svcCfg)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop(context.Background()) //nolint:errcheck

	svc.Bus().Subscribe(sqlite.TopicDatabaseChanged, func(_ context.Context, _ string, payload any) {
		change, ok := payload.(sqlite.ExternalChange)
		if !ok {
			return
		}
		cmd.Printf("%s changed %s\n", change.Path, change.At.Format(time.RFC3339))
	})

	cmd.Printf("Watching %s (ctrl-c to stop)\n", cfg.Database)
	<-ctx.Done()
	return nil
}
