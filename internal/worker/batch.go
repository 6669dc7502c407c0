package worker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/spellbook/internal/model"
)

// Annotator annotates a single piece of card text
type Annotator interface {
	Annotate(text string) []model.ParsedKeywordSpan
}

// AnnotateJob annotates one line of a batch
type AnnotateJob struct {
	Index     int
	Text      string
	Annotator Annotator
}

// Execute executes the annotate job
func (j *AnnotateJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &AnnotateResult{Index: j.Index, Text: j.Text, Error: err}
	}
	return &AnnotateResult{
		Index: j.Index,
		Text:  j.Text,
		Annotation: &model.Annotation{
			Text:  j.Text,
			Spans: j.Annotator.Annotate(j.Text),
		},
	}
}

// AnnotateResult represents the result of an annotate job
type AnnotateResult struct {
	Index      int
	Text       string
	Annotation *model.Annotation
	Error      error
}

// GetError returns the error from the annotate result
func (r *AnnotateResult) GetError() error {
	return r.Error
}

// BatchProcessor annotates many card texts concurrently
type BatchProcessor struct {
	annotator   Annotator
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(annotator Annotator, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		annotator:   annotator,
		concurrency: concurrency,
	}
}

// ProcessTexts annotates texts concurrently. Results come back in input
// order; texts skipped by cancellation carry the context error.
func (b *BatchProcessor) ProcessTexts(ctx context.Context, texts []string) []*AnnotateResult {
	if len(texts) == 0 {
		return []*AnnotateResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	jobs := make([]Job, len(texts))
	for i, text := range texts {
		jobs[i] = &AnnotateJob{Index: i, Text: text, Annotator: b.annotator}
	}

	ordered := make([]*AnnotateResult, len(texts))
	for _, result := range pool.Run(jobs) {
		r := result.(*AnnotateResult)
		ordered[r.Index] = r
	}

	for i, r := range ordered {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			ordered[i] = &AnnotateResult{Index: i, Text: texts[i], Error: err}
		}
	}

	return ordered
}

// ProcessReader reads card texts (one per line) and annotates them
func (b *BatchProcessor) ProcessReader(ctx context.Context, r io.Reader) ([]*AnnotateResult, error) {
	texts, err := ReadTexts(r)
	if err != nil {
		return nil, fmt.Errorf("read texts: %w", err)
	}

	return b.ProcessTexts(ctx, texts), nil
}

// ProcessFile reads card texts from a file and annotates them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*AnnotateResult, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return b.ProcessReader(ctx, file)
}

// ReadTexts reads card texts, one per line, skipping blank lines and
// lines starting with #
func ReadTexts(r io.Reader) ([]string, error) {
	var texts []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		texts = append(texts, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	return texts, nil
}
