package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached files",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cache, err := openCache()
	if err != nil {
		return err
	}

	entries, err := cache.Entries()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "(no entries)")
		return nil
	}

	var total int64
	for _, e := range entries {
		fmt.Fprintf(out, "%s\t%d\t%s\n", e.Hash, e.Size, e.Description)
		total += e.Size
	}
	fmt.Fprintf(out, "%d files, %d bytes in %s\n", len(entries), total, cache.Dir())
	return nil
}
