package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aweris/modcache"
)

var storeCmd = &cobra.Command{
	Use:   "store <url> <file>",
	Short: "Add a downloaded file to the cache",
	Long:  "Cache a downloaded file under the URL it was fetched from, replacing any earlier copy.",
	Args:  cobra.ExactArgs(2),
	RunE:  runStore,
}

func init() {
	storeCmd.Flags().String("description", "", "name suffix for the cached file (default: source file name)")
	storeCmd.Flags().Bool("move", false, "move the file into the cache instead of copying it")
	rootCmd.AddCommand(storeCmd)
}

func runStore(cmd *cobra.Command, args []string) error {
	cache, err := openCache()
	if err != nil {
		return err
	}

	var opts []modcache.StoreOption
	if d, _ := cmd.Flags().GetString("description"); d != "" {
		opts = append(opts, modcache.WithDescription(d))
	}
	if move, _ := cmd.Flags().GetBool("move"); move {
		opts = append(opts, modcache.WithMove())
	}

	path, err := cache.Store(args[0], args[1], opts...)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
