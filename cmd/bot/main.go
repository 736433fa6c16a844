// Command bot runs the creator bot: the webhook server with its update
// worker and topic scheduler, plus a few maintenance subcommands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCMD := &cobra.Command{
		Use:           "bot",
		Short:         "Telegram creator bot",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCMD.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./configs/$APP_ENV.yaml)")

	rootCMD.AddCommand(
		newServeCMD(),
		newDrainCMD(),
		newSetWebhookCMD(),
		newScheduleCMD(),
	)

	if err := rootCMD.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
