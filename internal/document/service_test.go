package document_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egdmrsy/TruBudget-SvKit/internal/blob"
	"github.com/egdmrsy/TruBudget-SvKit/internal/cache"
	"github.com/egdmrsy/TruBudget-SvKit/internal/document"
	"github.com/egdmrsy/TruBudget-SvKit/internal/domain"
	"github.com/egdmrsy/TruBudget-SvKit/internal/ledger"
)

var (
	ts    = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	path  = domain.WorkflowitemPath{ProjectID: "p1", SubprojectID: "sp1", WorkflowitemID: "wf1"}
	alice = domain.AuthToken{UserID: "alice", OrganizationID: "orgA"}
	bob   = domain.AuthToken{UserID: "bob", OrganizationID: "orgB"}
)

type mockBlobStore struct {
	calls     int
	downloadF func(ctx context.Context, contentID string) ([]byte, error)
}

func (m *mockBlobStore) Download(ctx context.Context, contentID string) ([]byte, error) {
	m.calls++
	return m.downloadF(ctx, contentID)
}

type mockReader struct {
	readF func(ctx context.Context, streamKey, itemKey string, count int) ([]ledger.Item, error)
}

func (m *mockReader) ReadStreamItems(ctx context.Context, streamKey, itemKey string, count int) ([]ledger.Item, error) {
	return m.readF(ctx, streamKey, itemKey, count)
}

// seed writes a workflowitem visible to alice with documents d1 (inline),
// d2 (payload in blob store) and d3 (referenced but never uploaded).
func seed(t *testing.T) *ledger.Memory {
	t.Helper()

	mem := ledger.NewMemory()
	require.NoError(t, mem.Append("p1", ledger.WorkflowitemItemKey("sp1", "wf1"), ledger.EventRecord{
		Intent:    domain.IntentSubprojectCreateWorkflowitem,
		CreatedBy: "mstein",
		CreatedAt: ts,
		Snapshot: domain.Snapshot{
			DisplayName: "Invoice",
			Permissions: domain.PermissionModel{domain.IntentWorkflowitemView: {"alice"}},
		},
		Documents: []domain.DocumentReference{
			{ID: "d1", FileName: "inline.pdf"},
			{ID: "d2", FileName: "remote.pdf", Hash: blob.Hash([]byte("UkVNT1RF"))},
			{ID: "d3", FileName: "lost.pdf"},
		},
	}))
	require.NoError(t, mem.Append(ledger.DocumentStream, "d1", ledger.DocumentRecord{
		Type:     "document_uploaded",
		Document: ledger.DocumentEnvelope{ID: "d1", FileName: "inline.pdf", Base64: "SU5MSU5F"},
	}))
	require.NoError(t, mem.Append(ledger.DocumentStream, "d2", ledger.DocumentRecord{
		Type:     "document_uploaded",
		Document: ledger.DocumentEnvelope{ID: "d2", FileName: "remote.pdf", Base64: ""},
	}))
	return mem
}

func blobs(payloads map[string]string) *mockBlobStore {
	return &mockBlobStore{downloadF: func(_ context.Context, id string) ([]byte, error) {
		p, ok := payloads[id]
		if !ok {
			return nil, blob.ErrBlobNotFound
		}
		return []byte(p), nil
	}}
}

func TestGetDocument_InlinePayload(t *testing.T) {
	t.Parallel()

	store := blobs(nil)
	svc := document.NewService(seed(t), store)

	doc, err := svc.GetDocument(context.Background(), alice, path, "d1")
	require.NoError(t, err)
	assert.Equal(t, "d1", doc.ID)
	assert.Equal(t, "inline.pdf", doc.FileName)
	assert.Equal(t, "SU5MSU5F", doc.Base64)
	assert.Equal(t, 0, store.calls)
}

func TestGetDocument_EmptyPayloadIsFilledFromBlobStore(t *testing.T) {
	t.Parallel()

	store := blobs(map[string]string{"d2": "UkVNT1RF"})
	svc := document.NewService(seed(t), store)

	doc, err := svc.GetDocument(context.Background(), alice, path, "d2")
	require.NoError(t, err)
	assert.Equal(t, "UkVNT1RF", doc.Base64)
	assert.Equal(t, 1, store.calls)
}

func TestGetDocument_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("i/o timeout")

	tests := []struct {
		name    string
		token   domain.AuthToken
		docID   string
		path    domain.WorkflowitemPath
		store   *mockBlobStore
		wantErr error
	}{
		{name: "caller lacks workflowitem.view", token: bob, docID: "d1", path: path, store: blobs(nil), wantErr: domain.ErrNotAuthorized},
		{name: "document not attached", token: alice, docID: "d9", path: path, store: blobs(nil), wantErr: domain.ErrNotFound},
		{name: "no document event on ledger", token: alice, docID: "d3", path: path, store: blobs(nil), wantErr: domain.ErrNotFound},
		{
			name:    "unknown workflowitem",
			token:   alice,
			docID:   "d1",
			path:    domain.WorkflowitemPath{ProjectID: "p1", SubprojectID: "sp1", WorkflowitemID: "wf9"},
			store:   blobs(nil),
			wantErr: domain.ErrNotFound,
		},
		{name: "blob missing", token: alice, docID: "d2", path: path, store: blobs(nil), wantErr: domain.ErrUpstream},
		{
			name:    "blob store failure",
			token:   alice,
			docID:   "d2",
			path:    path,
			store:   &mockBlobStore{downloadF: func(context.Context, string) ([]byte, error) { return nil, boom }},
			wantErr: boom,
		},
		{name: "hash mismatch", token: alice, docID: "d2", path: path, store: blobs(map[string]string{"d2": "VEFNUEVSRUQ="}), wantErr: blob.ErrHashMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := document.NewService(seed(t), tt.store)
			doc, err := svc.GetDocument(context.Background(), tt.token, tt.path, tt.docID)
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGetDocument_UpstreamErrorCarriesIdentifiers(t *testing.T) {
	t.Parallel()

	store := &mockBlobStore{downloadF: func(context.Context, string) ([]byte, error) {
		return nil, errors.New("connection refused")
	}}
	svc := document.NewService(seed(t), store)

	_, err := svc.GetDocument(context.Background(), alice, path, "d2")
	require.Error(t, err)

	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "wf1", upstream.WorkflowitemID)
	assert.Equal(t, "d2", upstream.DocumentID)
	assert.Contains(t, err.Error(), "could not get document d2 of workflowitem wf1")
}

func TestGetDocument_LedgerFailureIsUpstream(t *testing.T) {
	t.Parallel()

	mem := seed(t)
	reader := &mockReader{readF: func(ctx context.Context, streamKey, itemKey string, count int) ([]ledger.Item, error) {
		if streamKey == ledger.DocumentStream {
			return nil, errors.New("ledger unavailable")
		}
		return mem.ReadStreamItems(ctx, streamKey, itemKey, count)
	}}
	svc := document.NewService(reader, blobs(nil))

	_, err := svc.GetDocument(context.Background(), alice, path, "d1")
	require.Error(t, err)

	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "d1", upstream.DocumentID)
}

func TestGetDocument_WorkflowitemReadFailureIsNotNested(t *testing.T) {
	t.Parallel()

	cause := errors.New("ledger unavailable")
	reader := &mockReader{readF: func(context.Context, string, string, int) ([]ledger.Item, error) {
		return nil, cause
	}}
	svc := document.NewService(reader, blobs(nil))

	_, err := svc.GetDocument(context.Background(), alice, path, "d1")
	require.Error(t, err)

	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "wf1", upstream.WorkflowitemID)
	assert.Equal(t, "d1", upstream.DocumentID)
	assert.Same(t, cause, upstream.Err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, strings.Count(err.Error(), "workflowitem wf1"))
}

func TestGetDocument_ReusesRequestCache(t *testing.T) {
	t.Parallel()

	mem := seed(t)
	workflowitemReads := 0
	reader := &mockReader{readF: func(ctx context.Context, streamKey, itemKey string, count int) ([]ledger.Item, error) {
		if streamKey == "p1" {
			workflowitemReads++
		}
		return mem.ReadStreamItems(ctx, streamKey, itemKey, count)
	}}
	svc := document.NewService(reader, blobs(map[string]string{"d2": "UkVNT1RF"}))

	err := cache.WithCache(context.Background(), reader, func(ctx context.Context, _ *cache.Cache) error {
		for _, id := range []string{"d1", "d2", "d1"} {
			if _, err := svc.GetDocument(ctx, alice, path, id); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, workflowitemReads)
}
