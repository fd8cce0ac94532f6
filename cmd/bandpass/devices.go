package main

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/go-audio-bandpass/internal/device"
)

func newDevicesCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List available audio devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := device.Initialize(); err != nil {
				return err
			}
			defer func() { _ = device.Terminate() }()

			return device.ListDevices(cmd.OutOrStdout())
		},
	}
}
