package service

import (
	"context"
	"fmt"
	"strings"

	"context-builder/internal/domain"
)

type contentFetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

type annotatedDataSource interface {
	Content(ctx context.Context, uid string) (string, error)
}

type pageExtractor interface {
	ExtractPages(pdfBytes []byte) ([]string, error)
}

// DocumentLoader implements domain.DocumentLoader, dispatching on document type
type DocumentLoader struct {
	fetcher   contentFetcher
	annotated annotatedDataSource
	pdf       pageExtractor
	logger    domain.Logger
}

func NewDocumentLoader(fetcher contentFetcher, annotated annotatedDataSource, pdf pageExtractor, logger domain.Logger) *DocumentLoader {
	return &DocumentLoader{
		fetcher:   fetcher,
		annotated: annotated,
		pdf:       pdf,
		logger:    logger,
	}
}

// Load fetches the document and splits it into segments. It also records
// the content size and page count on the document.
func (l *DocumentLoader) Load(ctx context.Context, datasetID string, document *domain.Document) ([]domain.Segment, error) {
	var (
		parts  []string
		source string
	)

	switch document.Type {
	case domain.DocumentTypePDF:
		raw, err := l.fetcher.Fetch(ctx, document.URL)
		if err != nil {
			return nil, err
		}
		parts, err = l.pdf.ExtractPages(raw)
		if err != nil {
			return nil, err
		}
		source = document.URL
	case domain.DocumentTypeWord:
		raw, err := l.fetcher.Fetch(ctx, document.URL)
		if err != nil {
			return nil, err
		}
		text, err := ExtractWordText(raw)
		if err != nil {
			return nil, err
		}
		parts = SplitPages(text)
		source = document.URL
	case domain.DocumentTypeAnnotatedData:
		text, err := l.annotated.Content(ctx, document.UID)
		if err != nil {
			return nil, err
		}
		parts = SplitTranscript(text)
		source = document.UID
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedDocument, document.Type)
	}

	size := 0
	segments := make([]domain.Segment, 0, len(parts))
	for page, content := range parts {
		size += len(content)
		segments = append(segments, domain.Segment{
			SegmentID:  domain.SegmentID(datasetID, document.UID, page),
			DatasetID:  datasetID,
			UID:        document.UID,
			PageNumber: page,
			Content:    content,
			Source:     source,
		})
	}
	document.ContentSize = size
	document.PageSize = len(segments)

	l.logger.Info("Document loaded", "dataset_id", datasetID, "uid", document.UID, "type", document.Type, "segments", len(segments))
	return segments, nil
}

// SplitPages splits extracted text on form feeds, the page separator text extractors emit.
func SplitPages(text string) []string {
	return strings.Split(text, "\f")
}

// SplitTranscript returns one part per non-empty line of an annotated conversation.
func SplitTranscript(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts = append(parts, line)
	}
	return parts
}
