// Package rag implements the hybrid retrieval-augmented answering engine:
// retrieved document context feeds a grounded generation first, and an
// unconditioned fallback generation runs when grounding yields nothing
// usable.
package rag

import (
	"context"
	"strings"
)

// Answer modes recorded on every Outcome.
const (
	ModeGrounded = "grounded"
	ModeFallback = "fallback"
)

// notFoundSentinel is the exact literal the grounded prompt instructs the
// model to emit when the context does not contain the answer. The fallback
// check is a substring match: a grounded answer that merely mentions the
// token anywhere also routes to fallback.
const notFoundSentinel = "NOT_FOUND"

// minContextLen is the floor below which retrieved context is considered
// too short to ground an answer, whatever the model said.
const minContextLen = 5

// Chunk is one retrievable unit of source-document text.
type Chunk struct {
	Text string
}

// Retriever returns the chunks most similar to a query, best first. An
// empty index yields an empty slice, not an error.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]Chunk, error)
}

// Outcome is the result of one answering pass. Mode is always either
// ModeGrounded or ModeFallback.
type Outcome struct {
	Answer string `json:"answer"`
	Mode   string `json:"mode"`
}

// BuildContext joins chunk texts into a single context blob. An empty
// chunk list produces an empty string. Order is preserved.
func BuildContext(chunks []Chunk) string {
	if len(chunks) == 0 {
		return ""
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return strings.Join(texts, "\n\n")
}

// needsFallback decides whether the grounded answer is unusable and the
// query should be re-issued without context.
func needsFallback(grounded, contextBlob string) bool {
	return strings.Contains(grounded, notFoundSentinel) ||
		grounded == "" ||
		len(contextBlob) < minContextLen
}
