package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Lundis/go-ndsp/internal/conf"
	"github.com/Lundis/go-ndsp/internal/logging"
	"github.com/Lundis/go-ndsp/sfx"
)

// RootCommand creates and returns the root command
func RootCommand() *cobra.Command {
	v := viper.New()
	var configFile string
	var settings *conf.Settings
	var logFile *os.File

	rootCmd := &cobra.Command{
		Use:   "ndsp-play [files...]",
		Short: "Play WAV and Ogg Vorbis files on a DSP channel",
		Long: `Plays the given files one after another on one channel of the DSP.
Settings come from flags, NDSP_* environment variables and an optional
ndsp.yaml, in that order of precedence.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			settings, err = conf.Load(v, configFile)
			if err != nil {
				return err
			}
			logFile, err = logging.ConfigureDefaultLogger(settings.LogLevel, settings.LogFile, slog.HandlerOptions{})
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logFile != nil {
				_ = logFile.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return playFiles(cmd.Context(), settings, args)
		},
	}

	setupFlags(rootCmd, v, &configFile)

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "playlist <folder> <id>",
			Short: "Play a playlist from a folder holding playlist.json",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return playPlaylist(cmd.Context(), settings, args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "sfx-constants <folder>",
			Short: "Print Go constants for the sound effects in a folder holding sfx.json",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := sfx.LoadFolder(args[0]); err != nil {
					return err
				}
				return printConstants(cmd, sfx.ExportConstants())
			},
		},
	)
	return rootCmd
}

func setupFlags(cmd *cobra.Command, v *viper.Viper, configFile *string) {
	flags := cmd.PersistentFlags()
	flags.StringVar(configFile, "config", "", "config file (default ./ndsp.yaml)")
	flags.String("driver", "auto", "output driver: auto, oto or null")
	flags.Int("sample-rate", 48000, "output sample rate in Hz")
	flags.Duration("buffer-size", 0, "device buffer size")
	flags.Int("channel", 0, "DSP channel to play on")
	flags.String("output-mode", "stereo", "mono, stereo or surround")
	flags.String("interpolation", "polyphase", "polyphase, linear or none")
	flags.Float32("master-volume", 1, "master volume")
	flags.Bool("loop", false, "repeat the files until interrupted")
	flags.String("log-level", "info", "none, error, warn, info or debug")
	flags.String("log-file", "", "write JSON logs to this file")
	flags.String("metrics-addr", "", "serve prometheus metrics on this address")

	for _, name := range []string{
		"driver", "sample-rate", "buffer-size", "channel", "output-mode", "interpolation",
		"master-volume", "loop", "log-level", "log-file", "metrics-addr",
	} {
		if err := v.BindPFlag(strings.ReplaceAll(name, "-", "_"), flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", name, err))
		}
	}
}

func printConstants(cmd *cobra.Command, constants map[string]string) error {
	names := make([]string, 0, len(constants))
	for name := range constants {
		names = append(names, name)
	}
	sort.Strings(names)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "const (")
	for _, name := range names {
		fmt.Fprintf(out, "\t%s sfx.Id = %q\n", name, constants[name])
	}
	_, err := fmt.Fprintln(out, ")")
	return err
}
