// Command fplctl queries the prediction backend from a terminal using the same
// page controllers as the dashboard.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fpl-go-dashboard/internal/config"
	"fpl-go-dashboard/internal/logging"
	"fpl-go-dashboard/pkg/fplapi"
)

// app is what every subcommand needs, set up by the root command
type app struct {
	cfg    *config.Config
	client *fplapi.Client
}

func rootCommand() *cobra.Command {
	v := viper.New()
	a := &app{}

	root := &cobra.Command{
		Use:           "fplctl",
		Short:         "FPL prediction backend CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("api-url", fplapi.DefaultBaseURL, "Prediction backend base URL")
	root.PersistentFlags().Duration("timeout", 0, "Backend request timeout (0 means none)")
	root.PersistentFlags().Bool("verbose", false, "Log backend calls")
	_ = v.BindPFlag("FPL_API_BASE_URL", root.PersistentFlags().Lookup("api-url"))
	_ = v.BindPFlag("FPL_API_TIMEOUT", root.PersistentFlags().Lookup("timeout"))

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromViper(v)
		if err != nil {
			return err
		}
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logging.Init("debug", "text", true)
		} else {
			logging.Discard()
		}
		a.cfg = cfg
		a.client = fplapi.NewClient(cfg.APIBaseURL, cfg.APITimeout)
		return nil
	}

	root.AddCommand(
		picksCommand(a),
		squadCommand(a),
		transfersCommand(a),
		insightsCommand(a),
		newsCommand(a),
		gameweekCommand(a),
	)
	return root
}

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
