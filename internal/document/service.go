// Package document resolves workflowitem attachments by merging the
// ledger's document events with payloads held in the blob store.
package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/egdmrsy/TruBudget-SvKit/internal/authz"
	"github.com/egdmrsy/TruBudget-SvKit/internal/blob"
	"github.com/egdmrsy/TruBudget-SvKit/internal/cache"
	"github.com/egdmrsy/TruBudget-SvKit/internal/domain"
	"github.com/egdmrsy/TruBudget-SvKit/internal/ledger"
	"github.com/egdmrsy/TruBudget-SvKit/internal/obs"
)

type Service struct {
	reader ledger.Reader
	blobs  blob.Store
}

func NewService(reader ledger.Reader, blobs blob.Store) *Service {
	return &Service{reader: reader, blobs: blobs}
}

// GetDocument returns the document with its payload. The caller must hold
// workflowitem.view on the owning workflowitem and the document must be
// attached to it.
func (s *Service) GetDocument(ctx context.Context, token domain.AuthToken, path domain.WorkflowitemPath, documentID string) (*domain.UploadedDocument, error) {
	var out *domain.UploadedDocument
	err := cache.WithCache(ctx, s.reader, func(ctx context.Context, c *cache.Cache) error {
		w, err := c.GetWorkflowitem(ctx, path)
		if err != nil {
			return s.upstream(path, documentID, err)
		}
		if err := authz.Check(token, domain.IntentWorkflowitemView, w.Permissions); err != nil {
			return err
		}
		ref, ok := w.Document(documentID)
		if !ok {
			return domain.ErrNotFound
		}

		out, err = s.resolve(ctx, path, ref)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("document.Service.GetDocument: %w", err)
	}
	return out, nil
}

func (s *Service) resolve(ctx context.Context, path domain.WorkflowitemPath, ref domain.DocumentReference) (*domain.UploadedDocument, error) {
	items, err := s.reader.ReadStreamItems(ctx, ledger.DocumentStream, ref.ID, 1)
	if err != nil {
		return nil, s.upstream(path, ref.ID, err)
	}
	if len(items) == 0 {
		return nil, domain.ErrNotFound
	}
	rec, err := ledger.DecodeDocument(items[0])
	if err != nil {
		return nil, err
	}

	doc := &domain.UploadedDocument{
		ID:       rec.Document.ID,
		FileName: rec.Document.FileName,
		Base64:   rec.Document.Base64,
	}
	if doc.FileName == "" {
		doc.FileName = ref.FileName
	}
	if doc.Base64 != "" {
		return doc, nil
	}

	data, err := s.blobs.Download(ctx, ref.ID)
	if err == nil {
		err = blob.Verify(data, ref.Hash)
	}
	if err != nil {
		obs.BlobFetches.WithLabelValues("error").Inc()
		return nil, s.upstream(path, ref.ID, err)
	}
	obs.BlobFetches.WithLabelValues("ok").Inc()
	doc.Base64 = string(data)
	return doc, nil
}

// upstream attaches workflowitem and document ids to ledger and blob store
// failures. Not-found, schema and authorization errors pass through.
func (s *Service) upstream(path domain.WorkflowitemPath, documentID string, err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrSchema) || errors.Is(err, domain.ErrNotAuthorized) {
		return err
	}
	log.Warn().Err(err).
		Str("workflowitem_id", path.WorkflowitemID).
		Str("document_id", documentID).
		Msg("document: upstream failure")
	// Cache failures already arrive as UpstreamError; keep only the cause.
	// The original may be shared with other singleflight callers.
	var inner *domain.UpstreamError
	if errors.As(err, &inner) {
		err = inner.Err
	}
	return &domain.UpstreamError{
		Op:             "document.Service.GetDocument",
		WorkflowitemID: path.WorkflowitemID,
		DocumentID:     documentID,
		Err:            err,
	}
}
