package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wippyai/hotreload/errors"
	"github.com/wippyai/hotreload/gamemod"
)

func newBuildGameCommand() *cobra.Command {
	var (
		glyphs string
		width  int
		out    string
	)

	cmd := &cobra.Command{
		Use:   "build-game",
		Short: "Write the spinner game module",
		Long: "Assembles the console spinner game module. Rebuild with other " +
			"glyphs while run is active to watch the game reload.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bin, err := gamemod.Build(gamemod.WithGlyphs(glyphs), gamemod.WithWidth(width))
			if err != nil {
				return err
			}
			if err := writeAtomic(out, bin); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(bin), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&glyphs, "glyphs", "g", gamemod.DefaultGlyphs, "spinner rotation")
	cmd.Flags().IntVarP(&width, "width", "w", gamemod.DefaultWidth, "glyph copies per frame")
	cmd.Flags().StringVarP(&out, "out", "o", "./libgame.wasm", "output path")

	return cmd
}

// writeAtomic writes data next to path and renames it into place, so a
// watcher never observes a partial module.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return errors.IO(errors.PhaseStage, path, "create temp file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.IO(errors.PhaseStage, tmp.Name(), "write", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.IO(errors.PhaseStage, tmp.Name(), "close", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.IO(errors.PhaseStage, tmp.Name(), "chmod", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.IO(errors.PhaseStage, path, "rename", err)
	}
	return nil
}
