package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move <dir>",
	Short: "Relocate the cache directory",
	Long:  "Move every cached file to a new directory and remember it as the default cache location.",
	Args:  cobra.ExactArgs(1),
	RunE:  runMove,
}

func init() {
	rootCmd.AddCommand(moveCmd)
}

func runMove(cmd *cobra.Command, args []string) error {
	cache, err := openCache()
	if err != nil {
		return err
	}

	from := cache.Dir()
	if !cache.MoveDefaultCache(args[0]) {
		return fmt.Errorf("could not move cache from %s to %s", from, args[0])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "moved %s -> %s\n", from, cache.Dir())
	return nil
}
