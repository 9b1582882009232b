package usecase

import (
	"fmt"
	"strings"

	"github.com/dhg/docflow/internal/core/domain"
)

// RenderBatchReport formats a finished batch as Markdown for operator
// review. Pure formatting over already-collected data.
func RenderBatchReport(title string, result domain.BatchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", title)
	fmt.Fprintf(&b, "- Succeeded: %d\n- Failed: %d\n", result.Succeeded, result.Failed)

	var failures []domain.ItemResult
	classified := false
	for _, item := range result.Items {
		if item.Failed() {
			failures = append(failures, item)
		} else if item.TypeID != "" {
			classified = true
		}
	}

	if classified {
		b.WriteString("\n| Document | Type | Confidence | Reasoning |\n|---|---|---|---|\n")
		for _, item := range result.Items {
			if item.Failed() || item.TypeID == "" {
				continue
			}
			fmt.Fprintf(&b, "| %s | %s (`%s`) | %.2f | %s |\n",
				item.Name, item.TypeLabel, item.TypeID, item.Confidence, sanitizeCell(item.Reasoning))
		}
	}

	if len(failures) > 0 {
		b.WriteString("\n### Failures\n\n")
		for _, item := range failures {
			fmt.Fprintf(&b, "- %s (`%s`): %v\n", item.Name, item.SourceID, item.Err)
		}
	}
	return b.String()
}

func sanitizeCell(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "|", "\\|")
	if len(text) > 200 {
		text = text[:200] + "…"
	}
	return text
}
