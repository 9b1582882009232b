package claude

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dhg/docflow/internal/core/domain"
)

// Classifier asks the model to pick one taxonomy entry for a document and
// validates the structured response. Reconciliation of the returned id
// against the taxonomy happens in the use case layer.
type Classifier struct {
	client      *Client
	preamble    string
	snippetSize int
}

func NewClassifier(client *Client, preamble string, snippetSize int) *Classifier {
	if snippetSize <= 0 {
		snippetSize = 4000
	}
	return &Classifier{
		client:      client,
		preamble:    preamble,
		snippetSize: snippetSize,
	}
}

func (c *Classifier) Classify(ctx context.Context, doc *domain.SourceDocument, taxonomy []domain.DocumentType) (domain.ClassificationResult, error) {
	if doc.Content == nil || strings.TrimSpace(*doc.Content) == "" {
		return domain.ClassificationResult{}, domain.WrapError(
			domain.ErrInvalidInput, "classify document", fmt.Errorf("document %s has no extracted content", doc.ID))
	}

	raw, err := c.client.CompleteJSON(ctx, c.systemPrompt(taxonomy), c.userPrompt(doc))
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("llm classify call: %w", err)
	}

	result, err := parseClassification(raw)
	if err != nil {
		return domain.ClassificationResult{}, err
	}
	return result, nil
}

func (c *Classifier) systemPrompt(taxonomy []domain.DocumentType) string {
	var b strings.Builder
	b.WriteString(c.preamble)
	b.WriteString("\n\nAvailable document types:\n")
	for _, t := range taxonomy {
		fmt.Fprintf(&b, "- id: %s | name: %s | category: %s | description: %s\n",
			t.ID, t.Label, t.Category, t.Description)
	}
	b.WriteString(`
Respond with a single JSON object and nothing else:
{"document_type_id": "<id from the list>", "document_type": "<name from the list>", "confidence": <number 0..1>, "reasoning": "<short explanation>"}
`)
	return b.String()
}

func (c *Classifier) userPrompt(doc *domain.SourceDocument) string {
	snippet := *doc.Content
	if len(snippet) > c.snippetSize {
		snippet = snippet[:c.snippetSize]
	}
	return fmt.Sprintf("Document name: %s\n\nDocument content:\n%s", doc.Name, snippet)
}

// parseClassification enforces the response schema. Anything the model
// returns outside the contract fails with ErrClassification so the batch
// skips the item instead of persisting garbage.
func parseClassification(raw string) (domain.ClassificationResult, error) {
	var result domain.ClassificationResult
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &result); err != nil {
		return domain.ClassificationResult{}, domain.WrapError(
			domain.ErrClassification, "parse model response", fmt.Errorf("malformed json: %w", err))
	}
	if err := result.Validate(); err != nil {
		return domain.ClassificationResult{}, err
	}
	return result, nil
}
