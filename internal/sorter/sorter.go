// Package sorter asks a chat-completion model how to group the entries of a
// folder and hands the model's tool call to the tool registry.
package sorter

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"sortly/internal/chunk"
	"sortly/internal/errors"
	"sortly/internal/llm"
	"sortly/internal/log"
	"sortly/internal/tools"
	"sortly/pkg/types"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
)

const (
	// DefaultTemperature is the sampling temperature sent with each request.
	DefaultTemperature = 0.7

	// FailureMessage is what callers show when the model could not be reached.
	FailureMessage = "Failed to sort files. Please check the API key and try again."

	sortedSuffix = "I have sorted the files based on the provided folder structure."
)

// Result is the outcome of one SortFolder call.
type Result struct {
	RunID   string
	Message string           // Text to show the user
	Sorted  bool             // True when a tool call was executed
	Output  string           // The tool's own return value, "Done" for sort
	Report  types.MoveReport // Per-file outcomes of the executed tool
}

// BatchResult is handed to SortDirectory's callback after each batch.
type BatchResult struct {
	Index int // 1-based
	Total int
	Title string
	Files []string
	*Result
}

// Sorter drives one model round trip per batch.
type Sorter struct {
	client      llm.Completer
	registry    *tools.Registry
	temperature float64
	batchSize   int
	ignore      []glob.Glob
}

// Option configures a Sorter.
type Option func(*Sorter)

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float64) Option {
	return func(s *Sorter) { s.temperature = t }
}

// WithBatchSize sets how many names go into one request. Values below one
// are ignored.
func WithBatchSize(n int) Option {
	return func(s *Sorter) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithIgnore drops matching names from SortDirectory listings.
func WithIgnore(globs ...glob.Glob) Option {
	return func(s *Sorter) { s.ignore = append(s.ignore, globs...) }
}

// New creates a Sorter that advertises every tool in registry.
func New(client llm.Completer, registry *tools.Registry, opts ...Option) *Sorter {
	s := &Sorter{
		client:      client,
		registry:    registry,
		temperature: DefaultTemperature,
		batchSize:   chunk.DefaultSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SortFolder sends prompt to the model together with the registry's tools.
//
// When the reply carries tool calls only the first is dispatched; the rest are
// dropped. When it carries none the reply text is returned with Sorted false.
// When ctx carries a root from tools.WithRoot, a sort call naming any other
// folder is rejected. Transport failures come back as *errors.TransportError
// and invalid tool arguments as *errors.ToolError; in both cases nothing on
// disk has changed.
func (s *Sorter) SortFolder(ctx context.Context, prompt string) (*Result, error) {
	runID := uuid.NewString()
	logger := log.LogWithFields(log.F("run_id", runID))

	req := llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: prompt},
		},
		Tools:       s.registry.Definitions(),
		Temperature: s.temperature,
	}

	logger.Debugf("Requesting sort: %s", prompt)
	resp, err := s.client.Complete(ctx, req)
	if err != nil {
		logger.WithError(err).Error("Chat completion failed")
		return nil, err
	}

	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) == 0 {
		logger.Info("No tools called")
		return &Result{RunID: runID, Message: replyText(msg)}, nil
	}

	if extra := len(msg.ToolCalls) - 1; extra > 0 {
		logger.Debugf("Ignoring %d additional tool call(s)", extra)
	}
	call := msg.ToolCalls[0]
	logger.With(log.F("tool", call.Function.Name)).Info("Dispatching tool call")

	out, err := s.registry.Dispatch(ctx, call)
	if err != nil {
		logger.WithError(err).Error("Tool call rejected")
		return nil, err
	}

	logger.Infof("Sort finished: %s", out.Report.Summary())
	return &Result{
		RunID:   runID,
		Message: sortedMessage(msg.Content),
		Sorted:  true,
		Output:  out.Output,
		Report:  out.Report,
	}, nil
}

// SortDirectory lists root, batches the listing and sorts each batch in turn.
// onBatch is called after every batch; returning false stops early. The first
// failing batch stops the run and its error is returned.
func (s *Sorter) SortDirectory(ctx context.Context, root, userText string, onBatch func(BatchResult) bool) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return errors.NewFileError("invalid folder", root, errors.InvalidPath, err)
	}

	names, err := ListFolder(abs, s.ignore)
	if err != nil {
		return err
	}
	return s.SortNames(ctx, abs, names, userText, onBatch)
}

// SortNames is SortDirectory for a listing the caller already has. Names
// matching an ignore glob are dropped.
func (s *Sorter) SortNames(ctx context.Context, root string, names []string, userText string, onBatch func(BatchResult) bool) error {
	kept := names[:0:0]
	for _, name := range names {
		if !ignored(name, s.ignore) {
			kept = append(kept, name)
		}
	}

	batches := chunk.Chunk(kept, s.batchSize)
	if len(batches) == 0 {
		log.Info("Nothing to sort in %s", root)
		return nil
	}

	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			return err
		}

		prompt := BuildPrompt(types.SortRequest{
			RootFolderPath:   root,
			FileNames:        batch,
			UserInstructions: userText,
		})
		res, err := s.SortFolder(tools.WithRoot(ctx, root), prompt)
		if err != nil {
			return fmt.Errorf("batch %d of %d: %w", i+1, len(batches), err)
		}

		if onBatch == nil {
			continue
		}
		if !onBatch(BatchResult{
			Index:  i + 1,
			Total:  len(batches),
			Title:  BatchTitle(i+1, len(batches)),
			Files:  batch,
			Result: res,
		}) {
			return nil
		}
	}
	return nil
}

// BatchTitle is "Done" for a single batch and "Chunk i" otherwise.
func BatchTitle(index, total int) string {
	if total > 1 {
		return fmt.Sprintf("Chunk %d", index)
	}
	return "Done"
}

func sortedMessage(content string) string {
	if content == "" {
		return sortedSuffix
	}
	return content + ", \n " + sortedSuffix
}

func replyText(msg llm.Message) string {
	if msg.Content != "" {
		return msg.Content
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return ""
	}
	return string(raw)
}
