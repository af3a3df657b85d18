package main

import (
	"fmt"

	"codeberg.org/mutker/drivemon/internal/alert"
	"codeberg.org/mutker/drivemon/internal/display"
	"codeberg.org/mutker/drivemon/internal/errors"
	"github.com/spf13/cobra"
)

func newSimulateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "simulate <drowsiness|health>",
		Short:     "Raise an alert on demand",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{alert.KindDrowsiness.String(), alert.KindHealth.String()},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := alert.ParseKind(args[0])
			if !ok {
				return errors.New().WithData(errors.ErrInvalidArgument, "unknown alert kind "+args[0])
			}

			registry, err := c.contacts.registry()
			if err != nil {
				return err
			}

			ctrl, err := newController(c.cfg, registry)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			fmt.Fprintln(cmd.OutOrStdout(), display.Alert(ctrl.RaiseAlert(kind)))

			return nil
		},
	}
}
