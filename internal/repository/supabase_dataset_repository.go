package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"context-builder/internal/domain"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

const (
	datasetsTable      = "datasets"
	segmentsTable      = "dataset_segments"
	annotatedDataTable = "annotated_data"
)

type datasetRow struct {
	ID        string            `json:"id"`
	Documents []domain.Document `json:"documents"`
	Status    int               `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type segmentRow struct {
	SegmentID  string `json:"segment_id"`
	DatasetID  string `json:"dataset_id"`
	UID        string `json:"uid"`
	PageNumber int    `json:"page_number"`
	Content    string `json:"content"`
	Source     string `json:"source"`
}

// SupabaseDatasetRepository implements the domain.DatasetRepository interface
type SupabaseDatasetRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

// NewSupabaseDatasetRepository creates a new Supabase dataset repository
func NewSupabaseDatasetRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) *SupabaseDatasetRepository {
	return &SupabaseDatasetRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

func (r *SupabaseDatasetRepository) db(ctx context.Context) (*supabase.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	client := r.supabaseClient.DB()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}
	return client, nil
}

// Save inserts or replaces a dataset row
func (r *SupabaseDatasetRepository) Save(ctx context.Context, dataset *domain.Dataset) error {
	client, err := r.db(ctx)
	if err != nil {
		return err
	}

	documents := dataset.Documents
	if documents == nil {
		documents = []domain.Document{}
	}
	row := map[string]interface{}{
		"id":         dataset.ID,
		"documents":  documents,
		"status":     int(dataset.Status),
		"updated_at": dataset.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if !dataset.CreatedAt.IsZero() {
		row["created_at"] = dataset.CreatedAt.UTC().Format(time.RFC3339Nano)
	}

	_, _, err = client.From(datasetsTable).Upsert(row, "id", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to save dataset: %w", err)
	}
	r.logger.Debug("Dataset saved", "dataset_id", dataset.ID, "documents", len(documents))
	return nil
}

// Get returns a dataset by id
func (r *SupabaseDatasetRepository) Get(ctx context.Context, id string) (*domain.Dataset, error) {
	client, err := r.db(ctx)
	if err != nil {
		return nil, err
	}

	data, _, err := client.From(datasetsTable).
		Select("id,documents,status,created_at,updated_at", "", false).
		Eq("id", id).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}

	var rows []datasetRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dataset: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrDatasetNotFound
	}

	row := rows[0]
	if row.Documents == nil {
		row.Documents = []domain.Document{}
	}
	return &domain.Dataset{
		ID:        row.ID,
		Documents: row.Documents,
		Status:    domain.DatasetStatus(row.Status),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// Delete removes a dataset together with all of its segments
func (r *SupabaseDatasetRepository) Delete(ctx context.Context, id string) error {
	client, err := r.db(ctx)
	if err != nil {
		return err
	}

	if _, _, err := client.From(segmentsTable).Delete("", "").Eq("dataset_id", id).Execute(); err != nil {
		return fmt.Errorf("failed to delete dataset segments: %w", err)
	}

	data, _, err := client.From(datasetsTable).Delete("representation", "").Eq("id", id).Execute()
	if err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}
	var rows []datasetRow
	if err := json.Unmarshal(data, &rows); err == nil && len(rows) == 0 {
		return domain.ErrDatasetNotFound
	}
	return nil
}

// ReplaceSegments swaps the stored segments of one document for a new set
func (r *SupabaseDatasetRepository) ReplaceSegments(ctx context.Context, datasetID, uid string, segments []domain.Segment) error {
	if err := r.DeleteSegments(ctx, datasetID, uid); err != nil {
		return err
	}
	if len(segments) == 0 {
		return nil
	}

	client, err := r.db(ctx)
	if err != nil {
		return err
	}

	rows := make([]segmentRow, 0, len(segments))
	for _, s := range segments {
		rows = append(rows, segmentRow{
			SegmentID:  s.SegmentID,
			DatasetID:  datasetID,
			UID:        uid,
			PageNumber: s.PageNumber,
			Content:    SanitizeContent(s.Content),
			Source:     s.Source,
		})
	}

	if _, _, err := client.From(segmentsTable).Insert(rows, false, "", "", "").Execute(); err != nil {
		return fmt.Errorf("failed to insert segments: %w", err)
	}
	r.logger.Debug("Segments stored", "dataset_id", datasetID, "uid", uid, "count", len(rows))
	return nil
}

// DeleteSegments removes every segment of one document
func (r *SupabaseDatasetRepository) DeleteSegments(ctx context.Context, datasetID, uid string) error {
	client, err := r.db(ctx)
	if err != nil {
		return err
	}
	_, _, err = client.From(segmentsTable).
		Delete("", "").
		Eq("dataset_id", datasetID).
		Eq("uid", uid).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete segments: %w", err)
	}
	return nil
}

// ListSegments returns one page of a document's segments ordered by page number
func (r *SupabaseDatasetRepository) ListSegments(ctx context.Context, datasetID, uid string, offset, limit int) (*domain.SegmentPage, error) {
	client, err := r.db(ctx)
	if err != nil {
		return nil, err
	}

	data, count, err := client.From(segmentsTable).
		Select("segment_id,dataset_id,uid,page_number,content,source", "exact", false).
		Eq("dataset_id", datasetID).
		Eq("uid", uid).
		Order("page_number", &postgrest.OrderOpts{Ascending: true}).
		Range(offset, offset+limit-1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}

	var rows []segmentRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal segments: %w", err)
	}

	page := &domain.SegmentPage{
		TotalItems: int(count),
		Segments:   make([]domain.Segment, 0, len(rows)),
	}
	for _, row := range rows {
		page.Segments = append(page.Segments, domain.Segment(row))
	}
	return page, nil
}

// UpdateSegment overwrites the content of a single segment
func (r *SupabaseDatasetRepository) UpdateSegment(ctx context.Context, datasetID, uid, segmentID, content string) error {
	client, err := r.db(ctx)
	if err != nil {
		return err
	}

	data, _, err := client.From(segmentsTable).
		Update(map[string]interface{}{"content": SanitizeContent(content)}, "representation", "").
		Eq("dataset_id", datasetID).
		Eq("uid", uid).
		Eq("segment_id", segmentID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update segment: %w", err)
	}

	var rows []segmentRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("failed to unmarshal segment: %w", err)
	}
	if len(rows) == 0 {
		return domain.ErrSegmentNotFound
	}
	return nil
}
