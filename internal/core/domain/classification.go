package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultTypeLabel is the taxonomy entry used when the model returns a type
// that cannot be resolved by id or label.
const DefaultTypeLabel = "General Document"

// Validate enforces the response schema: a usable label, confidence inside
// [0,1] and non-empty reasoning.
func (r ClassificationResult) Validate() error {
	if strings.TrimSpace(r.TypeID) == "" && strings.TrimSpace(r.TypeLabel) == "" {
		return WrapError(ErrClassification, "validate result", errors.New("missing document type id and label"))
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return WrapError(ErrClassification, "validate result", fmt.Errorf("confidence %v outside [0,1]", r.Confidence))
	}
	if strings.TrimSpace(r.Reasoning) == "" {
		return WrapError(ErrClassification, "validate result", errors.New("empty reasoning"))
	}
	return nil
}

// Reconcile resolves the model's returned type against the authoritative
// taxonomy. Models echo labels more faithfully than opaque ids, so an exact
// label match corrects a hallucinated id before the fallback kicks in.
func (r ClassificationResult) Reconcile(taxonomy []DocumentType) (ClassificationResult, error) {
	for _, t := range taxonomy {
		if t.ID == r.TypeID {
			r.TypeLabel = t.Label
			return r, nil
		}
	}

	for _, t := range taxonomy {
		if strings.EqualFold(strings.TrimSpace(t.Label), strings.TrimSpace(r.TypeLabel)) {
			r.TypeID = t.ID
			r.TypeLabel = t.Label
			return r, nil
		}
	}

	for _, t := range taxonomy {
		if t.Label == DefaultTypeLabel {
			r.TypeID = t.ID
			r.TypeLabel = t.Label
			return r, nil
		}
	}

	return ClassificationResult{}, WrapError(
		ErrClassification,
		"reconcile type",
		fmt.Errorf("type id %q / label %q not in taxonomy and no %q fallback", r.TypeID, r.TypeLabel, DefaultTypeLabel),
	)
}

// ClassificationConfidence digs the persisted confidence score out of a
// source's metadata block, if a classification has been recorded.
func (m Metadata) ClassificationConfidence() (float64, bool) {
	block, ok := m["classification"].(map[string]any)
	if !ok {
		return 0, false
	}
	switch v := block["confidence"].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// MetadataPatch renders the classification block merged into
// sources.metadata on persist.
func (r ClassificationResult) MetadataPatch(now time.Time) Metadata {
	return Metadata{
		"classification": map[string]any{
			"confidence":    r.Confidence,
			"reasoning":     r.Reasoning,
			"classified_at": now.UTC().Format(time.RFC3339),
		},
	}
}
