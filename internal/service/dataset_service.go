package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"context-builder/internal/domain"
	apperrors "context-builder/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"
)

const (
	instrumentationName = "context-builder/internal/service"

	defaultSegmentLimit = 10
	maxSegmentLimit     = 100
)

type datasetService struct {
	repo     domain.DatasetRepository
	loader   domain.DocumentLoader
	notifier domain.StatusNotifier
	logger   domain.Logger
	validate *validator.Validate

	tracer trace.Tracer
	jobs   metric.Int64Counter

	sem    *semaphore.Weighted
	wg     sync.WaitGroup
	locks  keyedMutex
	queue  jobQueue
	jobCtx context.Context
	cancel context.CancelFunc

	now   func() time.Time
	newID func() string
}

// NewDatasetService creates the dataset use cases. Ingestion runs in the
// background with at most workers documents batches in flight.
func NewDatasetService(
	repo domain.DatasetRepository,
	loader domain.DocumentLoader,
	notifier domain.StatusNotifier,
	logger domain.Logger,
	workers int,
) *datasetService {
	if workers <= 0 {
		workers = 1
	}

	var jobs metric.Int64Counter = noop.Int64Counter{}
	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"dataset.jobs",
		metric.WithDescription("Background dataset ingestion jobs by outcome"),
	)
	if err != nil {
		logger.Warn("Failed to create dataset job counter", "error", err)
	} else {
		jobs = counter
	}

	jobCtx, cancel := context.WithCancel(context.Background())
	return &datasetService{
		repo:     repo,
		loader:   loader,
		notifier: notifier,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		tracer:   otel.Tracer(instrumentationName),
		jobs:     jobs,
		sem:      semaphore.NewWeighted(int64(workers)),
		jobCtx:   jobCtx,
		cancel:   cancel,
		now:      time.Now,
		newID:    newDatasetID,
	}
}

func newDatasetID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// GetDataset returns a dataset by id
func (s *datasetService) GetDataset(ctx context.Context, id string) (*domain.Dataset, error) {
	ctx, span := s.tracer.Start(ctx, "dataset.get", trace.WithAttributes(attribute.String("dataset.id", id)))
	defer span.End()

	dataset, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, recordSpanError(span, mapRepositoryError(err, "Failed to get dataset"))
	}
	return dataset, nil
}

// CreateDataset stores the dataset and ingests its documents in the background.
// The returned id is usable immediately; segments appear once ingestion finishes.
func (s *datasetService) CreateDataset(ctx context.Context, dataset *domain.Dataset) (string, error) {
	ctx, span := s.tracer.Start(ctx, "dataset.create")
	defer span.End()

	if dataset == nil {
		dataset = &domain.Dataset{}
	}
	if err := s.validate.Struct(dataset); err != nil {
		return "", recordSpanError(span, apperrors.NewValidationError("Invalid dataset", err.Error()))
	}

	now := s.now().UTC()
	dataset.ID = s.newID()
	dataset.Status = domain.DatasetStatusProcessing
	dataset.CreatedAt = now
	dataset.UpdatedAt = now
	if dataset.Documents == nil {
		dataset.Documents = []domain.Document{}
	}
	span.SetAttributes(attribute.String("dataset.id", dataset.ID), attribute.Int("dataset.documents", len(dataset.Documents)))
	s.logger.Info("Dataset creating", "dataset_id", dataset.ID, "documents", len(dataset.Documents))

	unlock := s.locks.Lock(dataset.ID)
	defer unlock()

	if err := s.repo.Save(ctx, dataset); err != nil {
		s.logger.Error("Failed to create dataset", err, "dataset_id", dataset.ID)
		return "", recordSpanError(span, apperrors.NewInternalError("Dataset not created", err))
	}

	s.runInBackground(&ingestJob{
		datasetID: dataset.ID,
		documents: append([]domain.Document(nil), dataset.Documents...),
		ticket:    s.queue.enqueue(dataset.ID),
	})
	return dataset.ID, nil
}

// UpdateDataset applies a document list in the background. Documents whose
// uid disappears lose their segments; new or changed documents are ingested;
// untouched documents keep their segments. A missing dataset is created.
func (s *datasetService) UpdateDataset(ctx context.Context, id string, patch *domain.DatasetPatch) error {
	ctx, span := s.tracer.Start(ctx, "dataset.update", trace.WithAttributes(attribute.String("dataset.id", id)))
	defer span.End()

	if patch == nil {
		patch = &domain.DatasetPatch{}
	}
	if err := s.validate.Struct(patch); err != nil {
		return recordSpanError(span, apperrors.NewValidationError("Invalid dataset", err.Error()))
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	now := s.now().UTC()
	current, err := s.repo.Get(ctx, id)
	switch {
	case errors.Is(err, domain.ErrDatasetNotFound):
		current = &domain.Dataset{ID: id, CreatedAt: now}
	case err != nil:
		return recordSpanError(span, apperrors.NewInternalError("Dataset not updated", err))
	}

	next := &domain.Dataset{
		ID:        id,
		Documents: make([]domain.Document, 0, len(patch.Documents)),
		Status:    domain.DatasetStatusProcessing,
		CreatedAt: current.CreatedAt,
		UpdatedAt: now,
	}
	var pending []domain.Document
	for _, doc := range patch.Documents {
		if existing, ok := current.FindDocument(doc.UID); ok && sameSource(existing, &doc) {
			next.Documents = append(next.Documents, *existing)
			continue
		}
		next.Documents = append(next.Documents, doc)
		pending = append(pending, doc)
	}

	var removed []string
	for _, doc := range current.Documents {
		if _, ok := next.FindDocument(doc.UID); !ok {
			removed = append(removed, doc.UID)
		}
	}

	s.logger.Info("Dataset updating", "dataset_id", id, "ingest", len(pending), "removed", len(removed))
	if err := s.repo.Save(ctx, next); err != nil {
		s.logger.Error("Failed to update dataset", err, "dataset_id", id)
		return recordSpanError(span, apperrors.NewInternalError("Dataset not updated", err))
	}

	s.runInBackground(&ingestJob{
		datasetID: id,
		documents: pending,
		removed:   removed,
		ticket:    s.queue.enqueue(id),
	})
	return nil
}

func sameSource(a, b *domain.Document) bool {
	return a.URL == b.URL && a.Type == b.Type && a.SplitOption == b.SplitOption
}

// DeleteDataset removes the dataset and its segments
func (s *datasetService) DeleteDataset(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "dataset.delete", trace.WithAttributes(attribute.String("dataset.id", id)))
	defer span.End()

	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete dataset", err, "dataset_id", id)
		return recordSpanError(span, mapRepositoryError(err, "Dataset not deleted"))
	}
	s.logger.Info("Dataset deleted", "dataset_id", id)
	return nil
}

// GetDocumentSegments returns a window of one document's segments
func (s *datasetService) GetDocumentSegments(ctx context.Context, datasetID, uid string, offset, limit int) (*domain.SegmentPage, error) {
	ctx, span := s.tracer.Start(ctx, "dataset.segments.list", trace.WithAttributes(
		attribute.String("dataset.id", datasetID),
		attribute.String("document.uid", uid),
	))
	defer span.End()

	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultSegmentLimit
	}
	if limit > maxSegmentLimit {
		limit = maxSegmentLimit
	}

	if err := s.requireDocument(ctx, datasetID, uid); err != nil {
		return nil, recordSpanError(span, err)
	}

	page, err := s.repo.ListSegments(ctx, datasetID, uid, offset, limit)
	if err != nil {
		return nil, recordSpanError(span, apperrors.NewInternalError("Internal Server Error", err))
	}
	return page, nil
}

// UpdateSegment replaces the content of one segment
func (s *datasetService) UpdateSegment(ctx context.Context, datasetID, uid, segmentID, content string) error {
	ctx, span := s.tracer.Start(ctx, "dataset.segments.update", trace.WithAttributes(
		attribute.String("dataset.id", datasetID),
		attribute.String("document.uid", uid),
		attribute.String("segment.id", segmentID),
	))
	defer span.End()

	if err := s.requireDocument(ctx, datasetID, uid); err != nil {
		return recordSpanError(span, err)
	}
	if err := s.repo.UpdateSegment(ctx, datasetID, uid, segmentID, content); err != nil {
		return recordSpanError(span, mapRepositoryError(err, "Segment not updated"))
	}
	return nil
}

func (s *datasetService) requireDocument(ctx context.Context, datasetID, uid string) error {
	dataset, err := s.repo.Get(ctx, datasetID)
	if err != nil {
		return mapRepositoryError(err, "Failed to get dataset")
	}
	if _, ok := dataset.FindDocument(uid); !ok {
		return apperrors.NewNotFoundError(domain.ErrDocumentNotFound.Error(), domain.ErrDocumentNotFound)
	}
	return nil
}

// Close waits for background ingestion. When ctx ends first the remaining
// jobs are cancelled.
func (s *datasetService) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		return nil
	case <-ctx.Done():
		s.cancel()
		<-done
		return ctx.Err()
	}
}

// runInBackground runs job once every earlier job on the same dataset has
// finished and a worker slot is free.
func (s *datasetService) runInBackground(job *ingestJob) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer job.ticket.release()

		if err := job.ticket.wait(s.jobCtx); err != nil {
			s.logger.Warn("Dataset ingestion cancelled before start", "dataset_id", job.datasetID)
			return
		}
		if err := s.sem.Acquire(s.jobCtx, 1); err != nil {
			s.logger.Warn("Dataset ingestion cancelled before start", "dataset_id", job.datasetID)
			return
		}
		defer s.sem.Release(1)

		s.ingest(s.jobCtx, job)
	}()
}

func (s *datasetService) ingest(ctx context.Context, job *ingestJob) {
	ctx, span := s.tracer.Start(ctx, "dataset.ingest", trace.WithAttributes(
		attribute.String("dataset.id", job.datasetID),
		attribute.Int("dataset.pending", len(job.documents)),
		attribute.Int("dataset.removed", len(job.removed)),
	))
	defer span.End()

	for _, uid := range job.removed {
		if err := s.repo.DeleteSegments(ctx, job.datasetID, uid); err != nil {
			span.RecordError(err)
			s.logger.Error("Failed to delete segments of removed document", err, "dataset_id", job.datasetID, "uid", uid)
		}
	}

	status := domain.DatasetStatusReady
	loaded := make([]domain.Document, 0, len(job.documents))
	for i := range job.documents {
		doc := job.documents[i]
		segments, err := s.loader.Load(ctx, job.datasetID, &doc)
		if err == nil {
			err = s.repo.ReplaceSegments(ctx, job.datasetID, doc.UID, segments)
		}
		if err != nil {
			status = domain.DatasetStatusFailed
			span.RecordError(err)
			s.logger.Error("Failed to ingest document", err, "dataset_id", job.datasetID, "uid", doc.UID, "type", doc.Type)
			continue
		}
		loaded = append(loaded, doc)
	}

	// the outcome is written even when shutdown cancelled the loaders
	status, report := s.finish(context.WithoutCancel(ctx), job, loaded, status)
	if status == domain.DatasetStatusFailed {
		span.SetStatus(codes.Error, "ingestion failed")
	}

	s.jobs.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status.String()),
		attribute.Bool("reported", report),
	))
	s.logger.Info("Dataset ingestion finished", "dataset_id", job.datasetID, "status", status.String(), "reported", report)

	if !report || s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyStatus(ctx, job.datasetID, status); err != nil {
		s.logger.Error("Failed to notify dataset status", err, "dataset_id", job.datasetID)
	}
}

// finish merges a job's loaded documents into the stored dataset.
//
// Only documents still stored with the same source take the loaded sizes.
// Segments of documents that are gone, or of a dataset deleted meanwhile,
// are dropped. When a later job is queued the status is left to it and
// nothing is reported.
func (s *datasetService) finish(ctx context.Context, job *ingestJob, loaded []domain.Document, status domain.DatasetStatus) (domain.DatasetStatus, bool) {
	unlock := s.locks.Lock(job.datasetID)
	defer unlock()

	current, err := s.repo.Get(ctx, job.datasetID)
	if errors.Is(err, domain.ErrDatasetNotFound) {
		for _, doc := range job.documents {
			if err := s.repo.DeleteSegments(ctx, job.datasetID, doc.UID); err != nil {
				s.logger.Error("Failed to drop segments of deleted dataset", err, "dataset_id", job.datasetID, "uid", doc.UID)
			}
		}
		s.logger.Info("Dataset deleted during ingestion", "dataset_id", job.datasetID)
		return status, false
	}
	if err != nil {
		s.logger.Error("Failed to reload dataset after ingestion", err, "dataset_id", job.datasetID)
		return domain.DatasetStatusFailed, true
	}

	for i := range loaded {
		doc := loaded[i]
		stored, ok := current.FindDocument(doc.UID)
		if !ok {
			if err := s.repo.DeleteSegments(ctx, job.datasetID, doc.UID); err != nil {
				s.logger.Error("Failed to drop segments of removed document", err, "dataset_id", job.datasetID, "uid", doc.UID)
			}
			continue
		}
		if sameSource(stored, &doc) {
			*stored = doc
		}
	}

	report := !job.ticket.superseded()
	if report {
		current.Status = status
	}
	current.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, current); err != nil {
		s.logger.Error("Failed to save ingested dataset", err, "dataset_id", job.datasetID)
		return domain.DatasetStatusFailed, true
	}
	return status, report
}

func mapRepositoryError(err error, message string) error {
	switch {
	case errors.Is(err, domain.ErrDatasetNotFound):
		return apperrors.NewNotFoundError("Dataset not found", err)
	case errors.Is(err, domain.ErrSegmentNotFound):
		return apperrors.NewNotFoundError("Segment not found", err)
	default:
		return apperrors.NewInternalError(message, err)
	}
}

func recordSpanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, fmt.Sprint(err))
	return err
}
