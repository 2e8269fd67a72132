// Package cli implements the primify command-line interface: run a
// single-shot local approximation, or serve the job API over HTTP.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	logLevel string
	logger   *slog.Logger
)

// Root is the program's top-level cobra command.
var Root = &cobra.Command{
	Use:   "primify",
	Short: "Approximate images with translucent geometric primitives",
	Long: `primify iteratively approximates a target image by adding
translucent triangles, rectangles, ellipses, lines, and other
primitives chosen by a deterministic parallel hill climber.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var level slog.Level
		switch logLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		logger = slog.New(handler)
		slog.SetDefault(logger)
	},
}

func init() {
	Root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}
