package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wippyai/hotreload/engine"
	"github.com/wippyai/hotreload/event"
)

func newEventsCommand() *cobra.Command {
	var keys bool

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print the event table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if keys {
				for _, b := range engine.Bindings {
					fmt.Fprintf(w, "%-8s %-16s %s\n", b.Name, b.Pressed, b.Released)
				}
				return nil
			}
			for _, e := range event.All() {
				fmt.Fprintf(w, "%2d %s\n", uint8(e), e)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&keys, "keys", "k", false, "print the key bindings instead")
	return cmd
}
