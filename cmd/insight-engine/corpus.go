// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/insight-engine/internal/corpus"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage the curated corpus (ingest, import, export, search)",
	Long: `Corpus manages the SQLite index built from curated YAML files. Ingest
reads every file under corpus.dir; unchanged files are skipped by digest.`,
}

var corpusIngestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index the curated YAML corpus into SQLite",
	RunE:  runCorpusIngest,
}

var corpusImportCmd = &cobra.Command{
	Use:   "import-xlsx [workbook]",
	Short: "Index records from a spreadsheet workbook",
	Long: `Import-xlsx reads every sheet of a workbook whose header row names at
least the persona, axis_value, and text columns (record_type, category,
support_tags, challenge_tags, and source_id are optional), then indexes the
rows grouped by persona and record type like curated YAML files.`,
	Args: cobra.ExactArgs(1),
	RunE: runCorpusImport,
}

var corpusExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every indexed record to index/export.yaml or export.json",
	RunE:  runCorpusExport,
}

var corpusSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search over indexed records",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCorpusSearch,
}

var corpusPrewarmCmd = &cobra.Command{
	Use:   "prewarm",
	Short: "Load the configured persona and axis cross product and report cache stats",
	RunE:  runCorpusPrewarm,
}

func init() {
	corpusExportCmd.Flags().String("format", "yaml", "output format (yaml or json)")
	corpusSearchCmd.Flags().Int("limit", 20, "maximum results")

	corpusCmd.AddCommand(corpusIngestCmd, corpusImportCmd, corpusExportCmd, corpusSearchCmd, corpusPrewarmCmd)
	rootCmd.AddCommand(corpusCmd)
}

func openStore() (*corpus.SQLiteStore, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return corpus.NewSQLiteStore(cfg.Corpus)
}

func checkFailures(s corpus.IngestSummary) error {
	if s.Failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed indexing", s.Failed, s.Total())
	}
	return nil
}

func runCorpusIngest(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(context.Background(), os.Stdout)
	if err != nil {
		return err
	}
	return checkFailures(summary)
}

func runCorpusImport(cmd *cobra.Command, args []string) error {
	files, err := corpus.ReadXLSX(args[0])
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.IngestFiles(context.Background(), os.Stdout, files)
	if err != nil {
		return err
	}
	fmt.Printf("\n%d sheet group(s): %d indexed, %d updated, %d skipped, %d failed (%d records)\n",
		summary.Total(), summary.Indexed, summary.Updated, summary.Skipped, summary.Failed, summary.Records)
	return checkFailures(summary)
}

func runCorpusExport(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	format, _ := cmd.Flags().GetString("format")
	var path string
	switch format {
	case "yaml":
		path, err = store.ExportYAML(context.Background())
	case "json":
		path, err = store.ExportJSON(context.Background())
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", path)
	return nil
}

func runCorpusSearch(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	records, err := store.Search(context.Background(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-8s  %-4s  %-12s  %-14s  %s\n", "Persona", "Axis", "Type", "Category", "Text")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, r := range records {
		text := r.Text
		if len(text) > 56 {
			text = text[:53] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-8s  %-4d  %-12s  %-14s  %s\n", r.Persona, r.AxisValue, r.RecordType, r.Category, text)
	}
	return nil
}

func runCorpusPrewarm(cmd *cobra.Command, args []string) error {
	p, _, err := openPipeline(cmd)
	if err != nil {
		return err
	}
	defer p.Close()

	if err := p.Warmup(context.Background()); err != nil {
		return err
	}
	return printJSON(p.Cache().Stats())
}
