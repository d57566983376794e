package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Shrink or empty the cache",
	Long:  "Remove the oldest cached files until the cache fits within --limit bytes, or everything with --all.",
	Args:  cobra.NoArgs,
	RunE:  runPurge,
}

func init() {
	purgeCmd.Flags().Int64("limit", 0, "maximum cache size in bytes")
	purgeCmd.Flags().Bool("all", false, "remove every cached file")
	rootCmd.AddCommand(purgeCmd)
}

func runPurge(cmd *cobra.Command, args []string) error {
	cache, err := openCache()
	if err != nil {
		return err
	}

	if all, _ := cmd.Flags().GetBool("all"); all {
		if err := cache.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
		return nil
	}

	if !cmd.Flags().Changed("limit") {
		return fmt.Errorf("one of --limit or --all is required")
	}
	limit, _ := cmd.Flags().GetInt64("limit")

	removed, err := cache.EnforceSizeLimit(limit)
	if err != nil {
		return err
	}
	size, count, err := cache.Size()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d files, %d files (%d bytes) remain\n", removed, count, size)
	return nil
}
