package domain

import "time"

// SourceDocument mirrors one row of the sources table: a file discovered in
// the external drive, carrying extraction and classification state.
type SourceDocument struct {
	ID             string    `json:"id"`
	DriveID        string    `json:"drive_id"`
	Name           string    `json:"name"`
	MimeType       string    `json:"mime_type"`
	Content        *string   `json:"content,omitempty"`
	Extracted      bool      `json:"extracted"`
	DocumentTypeID *string   `json:"document_type_id,omitempty"`
	Metadata       Metadata  `json:"metadata,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Metadata is the free-form JSONB column on sources. The pipeline only ever
// merges keys into it, never replaces it wholesale.
type Metadata map[string]any

// DocumentType is one taxonomy entry. Administered elsewhere, read-only here.
type DocumentType struct {
	ID          string `json:"id"`
	Label       string `json:"document_type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Rules       []byte `json:"validation_rules,omitempty"`
}

type ExpertDocumentStatus string

const (
	ExpertStatusPending    ExpertDocumentStatus = "pending"
	ExpertStatusProcessing ExpertDocumentStatus = "processing"
	ExpertStatusCompleted  ExpertDocumentStatus = "completed"
	ExpertStatusFailed     ExpertDocumentStatus = "failed"
	ExpertStatusRetrying   ExpertDocumentStatus = "retrying"
)

// ExpertDocument is a promoted copy of a classified source, queued for
// downstream analysis. At most one exists per source document.
type ExpertDocument struct {
	ID             string               `json:"id"`
	SourceID       string               `json:"source_id"`
	DocumentTypeID string               `json:"document_type_id"`
	RawContent     string               `json:"raw_content"`
	WordCount      int                  `json:"word_count"`
	Language       string               `json:"language"`
	Confidence     float64              `json:"confidence"`
	Status         ExpertDocumentStatus `json:"status"`
	Attempts       int                  `json:"attempts"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// ClassificationResult is the validated output of one model call. It is not
// persisted as its own row; it lands in sources.document_type_id plus the
// metadata classification block.
type ClassificationResult struct {
	TypeID     string  `json:"document_type_id"`
	TypeLabel  string  `json:"document_type"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// SyncRoot is a registered drive folder that folder sync walks.
type SyncRoot struct {
	ID          string    `json:"id"`
	FolderID    string    `json:"folder_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// DriveFile is the storage provider's view of a file or folder.
type DriveFile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
}

const FolderMimeType = "application/vnd.google-apps.folder"

func (f DriveFile) IsFolder() bool {
	return f.MimeType == FolderMimeType
}
