package rag

import (
	"context"
	"fmt"
	"strings"

	"docqa/internal/llm"
)

// Engine orchestrates one answering pass: retrieval, context assembly, a
// grounded generation attempt, and the fallback decision. It holds only
// read-only handles and is safe for concurrent use.
type Engine struct {
	retriever Retriever
	provider  llm.Provider
	model     string
	topK      int
}

// NewEngine creates an answering engine. topK bounds how many chunks each
// query retrieves.
func NewEngine(retriever Retriever, provider llm.Provider, model string, topK int) *Engine {
	if topK <= 0 {
		topK = 4
	}
	return &Engine{
		retriever: retriever,
		provider:  provider,
		model:     model,
		topK:      topK,
	}
}

// Answer runs the hybrid pipeline for one query. The steps are strictly
// sequential: the grounded attempt completes before the fallback decision,
// and the fallback generation is only issued when grounding failed. Model
// or retrieval errors propagate; Answer never fabricates an empty outcome.
func (e *Engine) Answer(ctx context.Context, query string) (Outcome, error) {
	chunks, err := e.retriever.Retrieve(ctx, query, e.topK)
	if err != nil {
		return Outcome{}, fmt.Errorf("retrieving context: %w", err)
	}

	contextBlob := BuildContext(chunks)

	grounded, err := e.answerGrounded(ctx, query, contextBlob)
	if err != nil {
		return Outcome{}, fmt.Errorf("grounded completion: %w", err)
	}

	if needsFallback(grounded, contextBlob) {
		resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
			Model:    e.model,
			Messages: []llm.Message{{Role: llm.RoleUser, Content: query}},
		})
		if err != nil {
			return Outcome{}, fmt.Errorf("fallback completion: %w", err)
		}
		return Outcome{Answer: resp.Content, Mode: ModeFallback}, nil
	}

	return Outcome{Answer: grounded, Mode: ModeGrounded}, nil
}

// answerGrounded issues the constrained generation request and returns the
// trimmed response text. Transport errors propagate untouched; retrying is
// not this layer's concern.
func (e *Engine) answerGrounded(ctx context.Context, query, contextBlob string) (string, error) {
	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Model:    e.model,
		Messages: []llm.Message{{Role: llm.RoleUser, Content: groundedPrompt(query, contextBlob)}},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}
