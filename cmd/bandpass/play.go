package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tphakala/go-audio-bandpass/internal/device"
	"github.com/tphakala/go-audio-bandpass/internal/wavio"
)

func newPlayCmd(a *app) *cobra.Command {
	var (
		ff       filterFlags
		output   string
		deviceID int
		noPlay   bool
	)

	cmd := &cobra.Command{
		Use:   "play [FILE]",
		Short: "Play a WAV file, optionally through the bandpass filter",
		Long: `Play loads FILE (default: the recorded sample in the data directory),
prints its format and plays it. With --filter (or apply_filter: true in the
config) it is bandpassed first and the filtered result is saved. Press
Ctrl-C to stop playback.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ff.apply(cmd, &a.cfg.Filter)
			if cmd.Flags().Changed("device") {
				a.cfg.Playback.OutputDevice = deviceID
			}
			if err := a.revalidate(); err != nil {
				return err
			}

			path := a.cfg.DataPath(a.cfg.Playback.InputFile)
			if len(args) == 1 {
				path = args[0]
			}

			buf, info, err := wavio.Read(path)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Loaded %s\n  %s\n", path, info)

			if a.cfg.Filter.Apply {
				buf, err = filterBuffer(a, buf)
				if err != nil {
					return err
				}

				if output == "" {
					output = a.cfg.DataPath(a.cfg.Playback.OutputFile)
				}
				if err := saveWAV(output, buf, a.cfg.Playback.BitDepth); err != nil {
					return err
				}
				fmt.Fprintf(w, "Filtered %g-%g Hz, saved to %s\n",
					a.cfg.Filter.LowCutoffHz, a.cfg.Filter.HighCutoffHz, output)
			}

			if noPlay {
				return nil
			}

			if err := device.Initialize(); err != nil {
				return err
			}
			defer func() { _ = device.Terminate() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			player := device.NewPlayer(a.cfg.Playback.OutputDevice, a.cfg.Playback.FramesPerBuffer, a.logger)
			fmt.Fprintf(w, "Playing %.1fs (Ctrl-C to stop)\n", buf.Duration().Seconds())
			if err := player.Play(ctx, buf); err != nil {
				if errors.Is(err, context.Canceled) {
					fmt.Fprintln(w, "Stopped")
					return nil
				}
				return err
			}
			return nil
		},
	}

	ff.register(cmd, false)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Where to save the filtered audio (default: data dir telephone_effect.wav)")
	cmd.Flags().IntVarP(&deviceID, "device", "d", device.DefaultDeviceID, "Output device ID (see 'devices')")
	cmd.Flags().BoolVar(&noPlay, "no-play", false, "Filter and save only, skip playback")
	return cmd
}
