package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Run detection over many files in parallel",
	Long: `Batch reads a list of file paths (one per line, # for comments) and runs
detection on each file concurrently. HTML files are reduced to their
visible text first. One JSON report is written per input file.

Example:
  humanizer batch files.txt
  humanizer batch files.txt --concurrency 8 --output-dir ./reports
  humanizer batch files.txt --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 2, "number of documents processed at once")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./humanizer-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	paths, err := worker.ReadListFile(args[0])
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files listed in %s", args[0])
	}

	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.close()

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "Processing %d files with %d workers...\n\n", len(paths), concurrency)

	processor := worker.NewBatchProcessor(a.detector, concurrency)
	results := processor.ProcessFiles(ctx, paths)

	failures := 0
	used := make(map[string]int)
	for _, result := range results {
		if result.Error != nil {
			failures++
			fmt.Fprintf(stderr, "✗ %s: %v\n", result.Name, result.Error)
			continue
		}

		slug := uniqueName(used, sanitizeFilename(result.Name))
		reportPath := filepath.Join(outputDir, slug+".json")
		if err := writeReport(reportPath, result); err != nil {
			failures++
			fmt.Fprintf(stderr, "✗ %s: %v\n", result.Name, err)
			continue
		}

		fmt.Fprintf(stderr, "✓ %s: %s (AI %d%%)\n",
			result.Name, result.Result.Overall.Verdict, result.Result.Overall.AIProbability)
	}

	fmt.Fprintf(stderr, "\nTotal: %d, succeeded: %d, failed: %d, reports in %s\n",
		len(results), len(results)-failures, failures, outputDir)

	if failures == len(results) {
		return fmt.Errorf("all %d files failed", failures)
	}
	return nil
}

func writeReport(path string, result *worker.DetectResult) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close report: %w", closeErr)
		}
	}()

	return writeJSON(f, struct {
		Source string `json:"source"`
		Result any    `json:"result"`
	}{Source: result.Name, Result: result.Result})
}

// sanitizeFilename turns a path into a flat, portable file name
func sanitizeFilename(s string) string {
	s = filepath.Base(filepath.Clean(s))
	s = strings.TrimSuffix(s, filepath.Ext(s))
	if s == "" || s == "." || s == ".." || s == string(filepath.Separator) {
		return "report"
	}

	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(s)

	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// uniqueName suffixes repeated names so reports never overwrite each other
func uniqueName(used map[string]int, name string) string {
	n := used[name]
	used[name] = n + 1
	if n == 0 {
		return name
	}
	return fmt.Sprintf("%s-%d", name, n+1)
}
