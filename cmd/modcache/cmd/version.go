package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aweris/modcache/compat"
	"github.com/aweris/modcache/relationship"
	"github.com/aweris/modcache/version"
)

var compareCmd = &cobra.Command{
	Use:   "compare <a> <b>",
	Short: "Compare two mod versions",
	Args:  cobra.ExactArgs(2),
	RunE:  runCompare,
}

var satisfiesCmd = &cobra.Command{
	Use:   "satisfies <version>",
	Short: "Check a version against a relationship constraint",
	Args:  cobra.ExactArgs(1),
	RunE:  runSatisfies,
}

var specCmd = &cobra.Command{
	Use:   "spec-check <spec_version>",
	Short: "Check whether a metadata spec version is supported",
	Args:  cobra.ExactArgs(1),
	RunE:  runSpecCheck,
}

func init() {
	satisfiesCmd.Flags().String("exact", "", "exact version")
	satisfiesCmd.Flags().String("min", "", "inclusive minimum version")
	satisfiesCmd.Flags().String("max", "", "inclusive maximum version")

	rootCmd.AddCommand(compareCmd, satisfiesCmd, specCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	a, b := version.Parse(args[0]), version.Parse(args[1])

	op := "=="
	switch a.Compare(b) {
	case -1:
		op = "<"
	case 1:
		op = ">"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", a, op, b)
	return nil
}

func runSatisfies(cmd *cobra.Command, args []string) error {
	exact, _ := cmd.Flags().GetString("exact")
	lo, _ := cmd.Flags().GetString("min")
	hi, _ := cmd.Flags().GetString("max")

	d := relationship.Descriptor{Name: "module", Version: exact, MinVersion: lo, MaxVersion: hi}
	v := version.Parse(args[0])
	if !d.Satisfies(v) {
		return fmt.Errorf("%s does not satisfy %s", v, d)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s satisfies %s\n", v, d)
	return nil
}

func runSpecCheck(cmd *cobra.Command, args []string) error {
	if err := compat.Check("module", args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "spec %s is supported (max %s)\n", args[0], compat.MaxSpecVersion)
	return nil
}
