package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/cmdpal/internal/catalog"
)

var catalogExport bool

var catalogCmd = &cobra.Command{
	Use:     "catalog",
	Short:   "Validate and summarize the command catalog",
	GroupID: groupSetup,
	Long: `Load the command catalog, validate it and print a summary.

With --export the catalog is written to stdout as YAML, which converts a
text catalog into the YAML format.

Examples:
  cmdpal catalog                             # Check the configured catalog
  cmdpal catalog --catalog cmds.txt --export # Convert text to YAML`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().BoolVar(&catalogExport, "export", false, "write the catalog to stdout as YAML")
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, _ []string) error {
	s, err := openSession("catalog")
	if err != nil {
		return err
	}
	defer s.Close()

	cat, _, err := s.loadCatalog()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if catalogExport {
		return catalog.WriteYAML(out, cat)
	}
	writeCatalogSummary(out, s.cfg.CatalogFile(), cat)
	return nil
}

func writeCatalogSummary(w io.Writer, path string, cat *catalog.Catalog) {
	fmt.Fprintf(w, "Catalog:    %s\n", path)
	fmt.Fprintf(w, "Commands:   %d\n", len(cat.Commands))
	fmt.Fprintf(w, "Recent:     %d\n", len(cat.Recent))

	categories := dimStyle.Render("(none)")
	if c := cat.Categories(); len(c) > 0 {
		categories = strings.Join(c, ", ")
	}
	fmt.Fprintf(w, "Categories: %s\n", categories)

	var unknown []string
	for _, id := range cat.Recent {
		if _, ok := cat.Lookup(id); !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		fmt.Fprintf(w, "%s recent IDs not in catalog: %s\n", warnStyle.Render("Warning:"), strings.Join(unknown, ", "))
	}
}
