package domain

// ItemResult records the outcome of one document inside a batch.
type ItemResult struct {
	SourceID   string
	Name       string
	TypeID     string
	TypeLabel  string
	Confidence float64
	Reasoning  string
	Err        error
}

func (r ItemResult) Failed() bool { return r.Err != nil }

// BatchResult aggregates a sequential batch run. Per-item failures never
// abort the batch; they only move the counters.
type BatchResult struct {
	Succeeded int
	Failed    int
	Items     []ItemResult
}

func (b *BatchResult) Record(item ItemResult) {
	if item.Failed() {
		b.Failed++
	} else {
		b.Succeeded++
	}
	b.Items = append(b.Items, item)
}

// SyncResult aggregates one folder sync run across all registered roots.
type SyncResult struct {
	Folders    int
	Discovered int
	Upserted   int
	Failed     int
}

// PromotionResult aggregates one promotion run. Skipped counts sources that
// already have an expert document and are neither transferred nor failed.
type PromotionResult struct {
	Transferred int
	Skipped     int
	Failed      int
}
