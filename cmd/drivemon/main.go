package main

import (
	"os"

	"codeberg.org/mutker/drivemon/internal/config"
	"codeberg.org/mutker/drivemon/internal/errors"
	"codeberg.org/mutker/drivemon/internal/logger"
	"github.com/spf13/cobra"
)

// cli carries the configuration loaded before any subcommand runs.
type cli struct {
	cfg      *config.Config
	contacts contactFlags
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "drivemon",
		Short:         "Simulated driver biometric monitor",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			c.cfg = cfg

			logger.Init(cfg.LogLevel, logger.IsService())
			logger.Debug().Msg("Config loaded")

			return nil
		},
	}

	config.RegisterFlags(root.PersistentFlags())
	c.contacts.register(root)

	root.AddCommand(
		newRunCmd(c),
		newSimulateCmd(c),
		newHistoryCmd(c),
		newStatsCmd(),
		newLearnCmd(),
		newContactsCmd(&c.contacts),
	)

	return root
}

func main() {
	c := &cli{}
	if err := newRootCmd(c).Execute(); err != nil {
		var coded errors.Error
		if errors.As(err, &coded) {
			if c.cfg == nil {
				logger.Init(config.DefaultLogLevel, logger.IsService())
			}
			logger.ErrorWithCode(coded).Msg("drivemon failed")
		} else {
			os.Stderr.WriteString("Error: " + err.Error() + "\n")
		}
		os.Exit(1)
	}
}
