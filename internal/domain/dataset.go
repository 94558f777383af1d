package domain

import (
	"context"
	"fmt"
	"time"
)

// DocumentType names the loader used to fetch and split a document.
type DocumentType string

const (
	DocumentTypePDF           DocumentType = "pdf"
	DocumentTypeAnnotatedData DocumentType = "annotated_data"
	DocumentTypeWord          DocumentType = "word"
)

// DatasetStatus is reported to the status webhook after background work.
type DatasetStatus int

const (
	DatasetStatusReady DatasetStatus = iota
	DatasetStatusProcessing
	DatasetStatusFailed
)

func (s DatasetStatus) String() string {
	switch s {
	case DatasetStatusReady:
		return "ready"
	case DatasetStatusProcessing:
		return "processing"
	case DatasetStatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// SplitOption mirrors the splitter settings sent by clients.
type SplitOption struct {
	SplitType    string `json:"split_type,omitempty"`
	ChunkSize    int    `json:"chunk_size,omitempty" validate:"gte=0"`
	ChunkOverlap int    `json:"chunk_overlap,omitempty" validate:"gte=0"`
}

// Document is a source attached to a dataset.
type Document struct {
	UID         string       `json:"uid" validate:"required"`
	URL         string       `json:"url"`
	Type        DocumentType `json:"type" validate:"required,oneof=pdf annotated_data word"`
	SplitOption SplitOption  `json:"split_option"`
	ContentSize int          `json:"content_size"`
	PageSize    int          `json:"page_size"`
}

// Dataset groups documents whose content is split into segments.
type Dataset struct {
	ID        string        `json:"id"`
	Documents []Document    `json:"documents" validate:"unique=UID,dive"`
	Status    DatasetStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// FindDocument returns the document with the given uid.
func (d *Dataset) FindDocument(uid string) (*Document, bool) {
	if d == nil {
		return nil, false
	}
	for i := range d.Documents {
		if d.Documents[i].UID == uid {
			return &d.Documents[i], true
		}
	}
	return nil, false
}

// Segment is one stored piece of a document's content.
type Segment struct {
	SegmentID  string `json:"segment_id"`
	DatasetID  string `json:"dataset_id"`
	UID        string `json:"uid"`
	PageNumber int    `json:"page_number"`
	Content    string `json:"content"`
	Source     string `json:"source,omitempty"`
}

// SegmentID builds the stable identifier of the n-th segment of a document.
func SegmentID(datasetID, uid string, page int) string {
	return fmt.Sprintf("%s-%s-%d", datasetID, uid, page)
}

// SegmentPage is a window of a document's segments.
type SegmentPage struct {
	TotalItems int       `json:"totalItems"`
	Segments   []Segment `json:"segments"`
}

// DatasetPatch is the body accepted when updating a dataset.
type DatasetPatch struct {
	Documents []Document `json:"documents" validate:"unique=UID,dive"`
}

// DatasetRepository defines persistence operations for datasets and their segments.
type DatasetRepository interface {
	Save(ctx context.Context, dataset *Dataset) error
	Get(ctx context.Context, id string) (*Dataset, error)
	Delete(ctx context.Context, id string) error
	ReplaceSegments(ctx context.Context, datasetID, uid string, segments []Segment) error
	DeleteSegments(ctx context.Context, datasetID, uid string) error
	ListSegments(ctx context.Context, datasetID, uid string, offset, limit int) (*SegmentPage, error)
	UpdateSegment(ctx context.Context, datasetID, uid, segmentID, content string) error
}

// DocumentLoader fetches and splits one document into segments.
type DocumentLoader interface {
	Load(ctx context.Context, datasetID string, document *Document) ([]Segment, error)
}

// StatusNotifier reports dataset status changes to an external listener.
type StatusNotifier interface {
	NotifyStatus(ctx context.Context, datasetID string, status DatasetStatus) error
}

// DatasetService defines the use-case operations for datasets.
type DatasetService interface {
	GetDataset(ctx context.Context, id string) (*Dataset, error)
	CreateDataset(ctx context.Context, dataset *Dataset) (string, error)
	UpdateDataset(ctx context.Context, id string, patch *DatasetPatch) error
	DeleteDataset(ctx context.Context, id string) error
	GetDocumentSegments(ctx context.Context, datasetID, uid string, offset, limit int) (*SegmentPage, error)
	UpdateSegment(ctx context.Context, datasetID, uid, segmentID, content string) error
	Close(ctx context.Context) error
}
