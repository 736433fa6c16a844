package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func newDrainCMD() *cobra.Command {
	return &cobra.Command{
		Use:   "drain",
		Short: "Generate one scheduled topic for every known user and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.wireBot(); err != nil {
				return err
			}

			report, err := a.drainer.Drain(ctx)
			if err != nil {
				return err
			}

			a.log.Info("drain finished",
				slog.Int("users", report.Users),
				slog.Int("drained", report.Drained),
				slog.Int("empty", report.Empty),
				slog.Int("invalid", report.Invalid),
				slog.Int("failed", report.Failed),
			)
			return nil
		},
	}
}
