// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/notebook-md/internal/library"
	"github.com/pdiddy/notebook-md/internal/notebook"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the highlight library (add, search, export, list)",
	Long: `Library keeps parsed notebooks in a local SQLite database with a
full-text index over highlight headings and text. Use subcommands to add
notebook exports, search highlights across books, or export everything.`,
}

// --- add subcommand ---

var libraryAddCmd = &cobra.Command{
	Use:   "add <files...>",
	Short: "Parse notebook exports and store them in the library",
	Long: `Add parses each notebook export and stores its highlights. A notebook
whose content is unchanged since the last add is skipped; a changed one
replaces the stored copy.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLibraryAdd,
}

func runLibraryAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	parser, err := notebook.NewParser(cfg.Parser)
	if err != nil {
		return err
	}

	store, err := library.Open(cfg.Library)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(cmd.Context(), parser, args, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d notebook(s) failed", summary.Failed)
	}
	return nil
}

// --- search subcommand ---

var librarySearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search over stored highlights",
	Long: `Search matches highlight headings and text using SQLite full-text
syntax ("justice", "heading:chapter", "life NOT death"). Use --notebook to
restrict results to one notebook, or on its own to list its highlights.`,
	RunE: runLibrarySearch,
}

func runLibrarySearch(cmd *cobra.Command, args []string) error {
	notebookID, _ := cmd.Flags().GetString("notebook")
	limit, _ := cmd.Flags().GetInt("limit")
	opts := library.QueryOptions{
		Query:      strings.Join(args, " "),
		NotebookID: notebookID,
		MaxResults: limit,
	}
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query or --notebook")
	}

	store, err := openLibrary(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Search(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(cmd.OutOrStdout(), results, jsonOutput)
}

func formatSearchOutput(w io.Writer, results []library.SearchResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-20s  %-20s  %s\n", "Rank", "Notebook", "Heading", "Text")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, r := range results {
		fmt.Fprintf(w, "%-4d  %-20s  %-20s  %s\n",
			i+1, truncate(r.NotebookID, 20), truncate(r.Heading, 20), truncate(r.Text, 50))
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// --- export subcommand ---

var libraryExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the library to YAML or JSON",
	Long: `Export writes every stored notebook, with its highlights, to stdout or
to the file given by --output.`,
	RunE: runLibraryExport,
}

func runLibraryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	store, err := openLibrary(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if output == "" {
		return store.Export(cmd.Context(), cmd.OutOrStdout(), format)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}
	if err := store.Export(cmd.Context(), f, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", output, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", output)
	return nil
}

// --- list subcommand ---

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored notebooks",
	RunE:  runLibraryList,
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	store, err := openLibrary(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	return listNotebooks(cmd.Context(), store, cmd.OutOrStdout())
}

func listNotebooks(ctx context.Context, store *library.Store, w io.Writer) error {
	summaries, err := store.Notebooks(ctx)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Fprintln(w, "Library is empty.")
		return nil
	}

	fmt.Fprintf(w, "%-24s  %-40s  %-10s  %s\n", "ID", "Title", "Highlights", "Imported")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, s := range summaries {
		fmt.Fprintf(w, "%-24s  %-40s  %-10d  %s\n",
			truncate(s.ID, 24), truncate(s.Title, 40), s.Highlights, s.ImportedAt)
	}
	return nil
}

// --- shared helpers ---

func openLibrary(cmd *cobra.Command) (*library.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return library.Open(cfg.Library)
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	libraryCmd.PersistentFlags().String("db", "", "library database file (default: notebooks.db)")
	viper.BindPFlag("library.path", libraryCmd.PersistentFlags().Lookup("db"))

	// Search flags.
	librarySearchCmd.Flags().String("notebook", "", "restrict results to a notebook ID")
	librarySearchCmd.Flags().Int("limit", 0, "maximum results (0 = use library.max_results)")
	librarySearchCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	libraryExportCmd.Flags().String("format", library.FormatYAML, "export format: yaml or json")
	libraryExportCmd.Flags().String("output", "", "write the export to this file instead of stdout")

	// Wire subcommands.
	libraryCmd.AddCommand(libraryAddCmd)
	libraryCmd.AddCommand(librarySearchCmd)
	libraryCmd.AddCommand(libraryExportCmd)
	libraryCmd.AddCommand(libraryListCmd)

	rootCmd.AddCommand(libraryCmd)
}
