// Package agent binds a loaded table to an OpenAI chat model and answers
// natural-language questions about its contents.
package agent

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/voxquery/voxquery/pkg/core"
	"github.com/voxquery/voxquery/pkg/dataset"
	"github.com/voxquery/voxquery/pkg/session"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "gpt-4o-mini"

// DefaultPromptRowLimit caps how many data rows are embedded in the agent's
// system prompt.
const DefaultPromptRowLimit = 200

// OpenAIBinder builds one Agent per uploaded table.
type OpenAIBinder struct {
	client   openai.Client
	model    string
	rowLimit int
}

// NewOpenAI creates a binder with a fixed model identifier. extra options are
// forwarded to the OpenAI client (tests use them to point at a fake server).
func NewOpenAI(apiKey, model string, rowLimit int, extra ...option.RequestOption) *OpenAIBinder {
	if model == "" {
		model = DefaultModel
	}
	if rowLimit <= 0 {
		rowLimit = DefaultPromptRowLimit
	}
	opts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, extra...)
	return &OpenAIBinder{
		client:   openai.NewClient(opts...),
		model:    model,
		rowLimit: rowLimit,
	}
}

// Bind constructs an agent over the table. No partial agent is ever returned.
func (b *OpenAIBinder) Bind(ctx context.Context, table *dataset.Table) (session.Agent, error) {
	if table == nil {
		return nil, core.New(core.ErrAgentBind, "Failed to create analysis agent: no table loaded")
	}
	prompt, err := buildSystemPrompt(table, b.rowLimit)
	if err != nil {
		return nil, core.Wrap(core.ErrAgentBind, "Failed to create analysis agent", err)
	}
	return &tableAgent{
		client: b.client,
		model:  b.model,
		prompt: prompt,
	}, nil
}

// tableAgent is bound one-to-one with a table snapshot; its system prompt
// carries the table contents so every question is answered against the same
// data regardless of later uploads.
type tableAgent struct {
	client openai.Client
	model  string
	prompt string
}

// Ask forwards the question verbatim. Exactly one attempt; any fault is
// reported as a result error, never a panic.
func (a *tableAgent) Ask(ctx context.Context, question string) (string, error) {
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(a.prompt),
			openai.UserMessage(question),
		},
		Model:       openai.ChatModel(a.model),
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", core.Wrap(core.ErrAgentInvocation, "", err)
	}
	if len(resp.Choices) == 0 {
		return "", core.New(core.ErrAgentInvocation, "model returned no choices")
	}
	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", core.New(core.ErrAgentInvocation, "model returned an empty answer")
	}
	return answer, nil
}

func buildSystemPrompt(table *dataset.Table, rowLimit int) (string, error) {
	records := table.Records(rowLimit)

	var data strings.Builder
	w := csv.NewWriter(&data)
	if err := w.WriteAll(records); err != nil {
		return "", fmt.Errorf("render table: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("render table: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a data analyst answering questions about one tabular dataset.\n")
	fmt.Fprintf(&b, "Dataset %q has %d rows and %d columns.\n", table.Name(), table.Rows(), table.Cols())
	fmt.Fprintf(&b, "Columns, in order: %s.\n", strings.Join(table.ColumnNames(), ", "))
	shown := len(records) - 1
	if shown < table.Rows() {
		fmt.Fprintf(&b, "The first %d rows are shown below in CSV form; state when an exact answer would need the remaining rows.\n", shown)
	} else {
		b.WriteString("The full dataset is shown below in CSV form.\n")
	}
	b.WriteString("Answer concisely in plain English sentences so the answer reads well when spoken aloud. Do not emit code or markdown.\n\n")
	b.WriteString(data.String())
	return b.String(), nil
}
