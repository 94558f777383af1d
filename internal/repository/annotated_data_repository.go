package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"context-builder/internal/domain"
)

// AnnotatedDataRepository reads conversation transcripts exported by the annotation tool
type AnnotatedDataRepository struct {
	supabaseClient domain.SupabaseClient
}

func NewAnnotatedDataRepository(supabaseClient domain.SupabaseClient) *AnnotatedDataRepository {
	return &AnnotatedDataRepository{supabaseClient: supabaseClient}
}

// Content returns the raw transcript stored under uid
func (r *AnnotatedDataRepository) Content(ctx context.Context, uid string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	client := r.supabaseClient.DB()
	if client == nil {
		return "", fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From(annotatedDataTable).
		Select("content", "", false).
		Eq("uid", uid).
		Limit(1, "").
		Execute()
	if err != nil {
		return "", fmt.Errorf("failed to get annotated data: %w", err)
	}

	var rows []struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return "", fmt.Errorf("failed to unmarshal annotated data: %w", err)
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("annotated data %s: %w", uid, domain.ErrDocumentNotFound)
	}
	return rows[0].Content, nil
}
