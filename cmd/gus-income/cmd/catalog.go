package cmd

import (
	"fmt"
	"io"

	"github.com/pigeonworks-llc/gus-income/pkg/catalog"
	"github.com/spf13/cobra"
)

// catalogCmd represents the catalog command.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List regions and budget categories",
	Long: `List the region and budget category names accepted by collect,
with their GUS identifiers.

The built-in tables can be replaced with CATALOG_FILE (YAML).

Example:
  gus-income catalog`,
	Run: runCatalog,
}

func runCatalog(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	catalogs, err := catalog.Load(cfg.GUS.CatalogFile)
	exitOnError(err, "failed to load catalogs")

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\n=== Województwa ===")
	printCatalog(out, catalogs.Regions)
	fmt.Fprintln(out, "\n=== Działy ===")
	printCatalog(out, catalogs.Categories)
	fmt.Fprintln(out)
}

func printCatalog(out io.Writer, c *catalog.Catalog) {
	for i, e := range c.Entries() {
		fmt.Fprintf(out, "%3d. %-32s %d\n", i+1, e.Name, e.ID)
	}
}
