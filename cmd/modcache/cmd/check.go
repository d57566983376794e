package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <url>",
	Short: "Verify the cached archive for a URL",
	Long:  "Report whether a URL is cached and whether the cached zip passes a full integrity check.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cache, err := openCache()
	if err != nil {
		return err
	}

	url := args[0]
	out := cmd.OutOrStdout()

	path, ok := cache.GetCachedFilename(url)
	if !ok {
		return fmt.Errorf("%s is not cached", url)
	}
	if !cache.IsCachedZip(url) {
		return fmt.Errorf("%s is cached at %s but is not a valid zip", url, path)
	}

	sum, err := cache.Checksum(url)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\tok\tsha256:%s\n", path, sum)
	return nil
}
