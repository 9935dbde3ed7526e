package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"retailsync/internal/client"
	"retailsync/internal/simulator"
)

func init() {
	flags := rootCmd.Flags()
	flags.String("api", "http://127.0.0.1:8000", "base URL of the ingestion API")
	flags.String("terminal", "T-DELHI-001", "terminal id used for every event of this run")
	flags.String("currency", "INR", "currency code sent with each event")
	flags.Int("count", 5, "number of events to send")
	flags.Duration("interval", time.Second, "delay between events")
	flags.Float64("min-amount", 100, "lowest generated amount")
	flags.Float64("max-amount", 2000, "highest generated amount")
	flags.Duration("timeout", 5*time.Second, "per-request timeout")

	viper.SetEnvPrefix("TERMINALSIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlags(flags)
}

var rootCmd = &cobra.Command{
	Use:   "terminalsim",
	Short: "Post synthetic sale events to the ingestion API",
	Long: `Simulates a point-of-sale terminal sending sale events.

Each event carries the same terminal id, a random receipt id and an amount
drawn uniformly between --min-amount and --max-amount.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		c := client.NewEventsClient(viper.GetString("api"), viper.GetDuration("timeout"))
		defer c.Close()

		sim, err := simulator.New(simulator.Config{
			TerminalID: viper.GetString("terminal"),
			Currency:   viper.GetString("currency"),
			MinAmount:  viper.GetFloat64("min-amount"),
			MaxAmount:  viper.GetFloat64("max-amount"),
			Count:      viper.GetInt("count"),
			Interval:   viper.GetDuration("interval"),
		}, c, rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)), cmd.OutOrStdout())
		if err != nil {
			return err
		}

		sent, err := sim.Run(ctx)
		fmt.Fprintf(cmd.OutOrStdout(), "sent %d/%d events\n", sent, viper.GetInt("count"))
		if err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}
