package rag

import "fmt"

// groundedPromptTemplate constrains the model to the retrieved context and
// defines the sentinel it must emit when the answer is absent.
const groundedPromptTemplate = `You are an AI assistant with access to a document knowledge base.
Answer ONLY using the Document Context.

Document Context:
%s

User Question:
%s

If the answer is not present in context, respond with exactly: "NOT_FOUND".`

func groundedPrompt(query, contextBlob string) string {
	return fmt.Sprintf(groundedPromptTemplate, contextBlob, query)
}
