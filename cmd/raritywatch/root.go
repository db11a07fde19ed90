package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. A fresh tree per call keeps flag
// state out of package globals.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "raritywatch",
		Short: "Watch an OpenSea collection for rare listings",
		Long: `raritywatch follows OpenSea item_listed events for one collection,
looks up each listed token's traits and sends a Telegram alert when a
listing carries one of the configured rare trait types.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// newLogger returns a text logger at debug or info level.
func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}
