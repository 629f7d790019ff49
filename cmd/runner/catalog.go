package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pingu-runner/internal/config"
	"github.com/vovakirdan/pingu-runner/internal/level"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Validate or inspect a segment catalog",
	Long: `Work with segment catalogs. Without a path the catalog named by the
runner config is used, falling back to ~/.runner/configs/catalog.yaml,
./configs/catalog.yaml and the built-in catalog.

Examples:
  runner catalog validate ./my-catalog.yaml
  runner catalog show
  runner catalog default > my-catalog.yaml`,
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check that a catalog can stream forever",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := loadCatalog(args)
		if err := c.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "Catalog is invalid:")
			for _, e := range flatten(err) {
				fmt.Fprintf(os.Stderr, "  - %v\n", e)
			}
			os.Exit(1)
		}
		fmt.Printf("Catalog OK: %d segments, %d transitions, %d reachable keys\n",
			len(c.Segments), len(c.Transitions), len(c.ReachableKeys()))
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "List the templates of a catalog",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := loadCatalog(args)

		fmt.Printf("Start key: %s\n", c.Start)
		fmt.Println()
		for _, transition := range []bool{false, true} {
			templates := c.Templates(transition)
			if transition {
				fmt.Printf("Transitions (%d):\n", len(templates))
			} else {
				fmt.Printf("Segments (%d):\n", len(templates))
			}
			fmt.Printf("  %-4s  %-16s  %-6s  %-10s  %-10s  %-9s  %s\n", "ID", "Name", "Length", "Begin", "End", "Obstacles", "Coins")
			fmt.Printf("  %-4s  %-16s  %-6s  %-10s  %-10s  %-9s  %s\n", "--", "----", "------", "-----", "---", "---------", "-----")
			for _, t := range templates {
				fmt.Printf("  %-4d  %-16s  %-6d  %-10s  %-10s  %-9d  %d\n",
					t.ID, t.Name, t.Length, t.Begin, t.End, len(t.Obstacles), len(t.Coins))
			}
			fmt.Println()
		}

		fmt.Println("Reachable keys:")
		for _, k := range c.ReachableKeys() {
			fmt.Printf("  %s\n", k)
		}
	},
}

var catalogDefaultCmd = &cobra.Command{
	Use:   "default",
	Short: "Print the built-in catalog",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		os.Stdout.Write(config.DefaultCatalogYAML())
	},
}

func init() {
	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogDefaultCmd)
}

// loadCatalog parses the catalog at args[0], or the configured one.
func loadCatalog(args []string) *level.Catalog {
	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		path = loadConfig().Level.CatalogPath
	}

	data, err := config.LoadCatalogData(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	c, err := level.ParseCatalog(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return c
}

// flatten splits an errors.Join result into its parts.
func flatten(err error) []error {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return joined.Unwrap()
	}
	return []error{err}
}
