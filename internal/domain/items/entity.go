package items

import (
	"time"
)

// ID tipe untuk Item
type ItemID string

// SourceKind enum
type SourceKind string

const (
	SourceFile           SourceKind = "file"
	SourceVideo          SourceKind = "video"
	SourcePlaylistMember SourceKind = "video-collection-member"
)

// Status enum; transitions are driven by the classify service and by
// operator confirm/reclassify actions.
//
//	pending -> classifying -> classified | error | needs_api_key
//	classified -> confirmed
type Status string

const (
	StatusPending     Status = "pending"
	StatusClassifying Status = "classifying"
	StatusClassified  Status = "classified"
	StatusConfirmed   Status = "confirmed"
	StatusError       Status = "error"
	StatusNeedsAPIKey Status = "needs_api_key"
)

// Backend enum untuk StorageRef
type Backend string

const (
	BackendRemote Backend = "remote"
	BackendLocal  Backend = "local"
)

// StorageRef value object pointing at the stored original bytes.
type StorageRef struct {
	Backend Backend `json:"backend"`
	BlobID  string  `json:"blob_id"`
	URL     string  `json:"url,omitempty"`
}

// Aggregate Root: Item
type Item struct {
	ID            ItemID      `json:"id"`
	SourceKind    SourceKind  `json:"source_kind"`
	ExternalID    string      `json:"external_id,omitempty"`
	OriginalName  string      `json:"original_name"`
	MediaType     string      `json:"media_type,omitempty"`
	ByteSize      int64       `json:"byte_size"`
	ExtractedText string      `json:"extracted_text,omitempty"`
	Summary       string      `json:"summary,omitempty"`
	Tags          []string    `json:"tags,omitempty"`
	PillarID      string      `json:"pillar_id,omitempty"`
	PillarName    string      `json:"pillar_name,omitempty"`
	TopicID       string      `json:"topic_id,omitempty"`
	TopicName     string      `json:"topic_name,omitempty"`
	Confidence    float64     `json:"confidence"`
	Rationale     string      `json:"rationale,omitempty"`
	Status        Status      `json:"status"`
	Storage       *StorageRef `json:"storage,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Patch partial update; nil fields are left untouched by Update.
type Patch struct {
	Summary       *string
	Tags          *[]string
	PillarID      *string
	PillarName    *string
	TopicID       *string
	TopicName     *string
	Confidence    *float64
	Rationale     *string
	Status        *Status
	ExtractedText *string
	Storage       *StorageRef
}

// Filter untuk List
type Filter struct {
	PillarID string
	Status   Status
	Search   string
}
