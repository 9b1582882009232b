package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/dhg/docflow/internal/core/domain"
)

// RunAllUseCase is the "run everything" entry point: extraction, then
// classification, then promotion, each over whatever the previous steps
// left eligible.
type RunAllUseCase struct {
	extract  *ExtractBatchUseCase
	classify *ClassifyBatchUseCase
	promote  *PromoteUseCase
}

func NewRunAllUseCase(extract *ExtractBatchUseCase, classify *ClassifyBatchUseCase, promote *PromoteUseCase) *RunAllUseCase {
	return &RunAllUseCase{
		extract:  extract,
		classify: classify,
		promote:  promote,
	}
}

type PipelineRunResult struct {
	Extraction     domain.BatchResult
	Classification domain.BatchResult
	Promotion      domain.PromotionResult
}

func (uc *RunAllUseCase) Run(ctx context.Context) (PipelineRunResult, error) {
	var out PipelineRunResult
	var err error

	out.Extraction, err = uc.extract.Run(ctx)
	if err != nil {
		return out, fmt.Errorf("extraction stage: %w", err)
	}

	out.Classification, err = uc.classify.Run(ctx)
	if err != nil {
		return out, fmt.Errorf("classification stage: %w", err)
	}

	out.Promotion, err = uc.promote.Run(ctx)
	if err != nil {
		return out, fmt.Errorf("promotion stage: %w", err)
	}
	return out, nil
}

func (r PipelineRunResult) Report() string {
	var b strings.Builder
	b.WriteString("# Pipeline Run\n\n")
	b.WriteString(RenderBatchReport("Extraction", r.Extraction))
	b.WriteString("\n")
	b.WriteString(RenderBatchReport("Classification", r.Classification))
	fmt.Fprintf(&b, "\n## Promotion\n\n- Transferred: %d\n- Skipped: %d\n- Failed: %d\n",
		r.Promotion.Transferred, r.Promotion.Skipped, r.Promotion.Failed)
	return b.String()
}
