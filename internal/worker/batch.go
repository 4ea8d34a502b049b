package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/extract"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/model"
)

// Detector defines the interface for running detection on one text
type Detector interface {
	Detect(ctx context.Context, req model.DetectRequest) (*model.DetectResult, error)
}

// Document is one named input for batch detection
type Document struct {
	Name string
	Text string
}

// DetectJob represents a detection job for one document
type DetectJob struct {
	Index    int
	Document Document
	Detector Detector
}

// Execute executes the detection job
func (j *DetectJob) Execute(ctx context.Context) Result {
	result, err := j.Detector.Detect(ctx, model.DetectRequest{Text: j.Document.Text})
	return &DetectResult{
		Index:  j.Index,
		Name:   j.Document.Name,
		Result: result,
		Error:  err,
	}
}

// DetectResult represents the result of a detection job
type DetectResult struct {
	Index  int
	Name   string
	Result *model.DetectResult
	Error  error
}

// GetError returns the error from the detection result
func (r *DetectResult) GetError() error {
	return r.Error
}

// BatchProcessor runs detection over many documents concurrently
type BatchProcessor struct {
	detector    Detector
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(detector Detector, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		detector:    detector,
		concurrency: concurrency,
	}
}

// ProcessDocuments runs detection over docs. Results are returned in
// input order; documents not run because ctx ended carry ctx's error.
func (b *BatchProcessor) ProcessDocuments(ctx context.Context, docs []Document) []*DetectResult {
	if len(docs) == 0 {
		return []*DetectResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()
	defer pool.Shutdown()

	go func() {
		for i, doc := range docs {
			if !pool.Submit(&DetectJob{Index: i, Document: doc, Detector: b.detector}) {
				break
			}
		}
		pool.Close()
	}()

	ordered := make([]*DetectResult, len(docs))
	for result := range pool.Results() {
		r := result.(*DetectResult)
		ordered[r.Index] = r
	}

	for i, r := range ordered {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			ordered[i] = &DetectResult{Index: i, Name: docs[i].Name, Error: err}
		}
	}

	return ordered
}

// ProcessFiles loads each path and runs detection over the contents
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*DetectResult {
	docs := make([]Document, 0, len(paths))
	var loadErrs []*DetectResult
	for _, path := range paths {
		doc, err := LoadDocument(path)
		if err != nil {
			loadErrs = append(loadErrs, &DetectResult{Name: path, Error: err})
			continue
		}
		docs = append(docs, doc)
	}

	results := b.ProcessDocuments(ctx, docs)
	return append(results, loadErrs...)
}

// LoadDocument reads a file. HTML files are reduced to their visible text.
func LoadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}

	text := string(data)
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".html" || ext == ".htm" || extract.LooksLikeHTML(text) {
		text, err = extract.VisibleText(text)
		if err != nil {
			return Document{}, fmt.Errorf("parse html %s: %w", path, err)
		}
	}

	return Document{Name: path, Text: text}, nil
}

// ReadListFile reads paths from a file (one per line)
func ReadListFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var entries []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			entries = append(entries, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return entries, nil
}
