package usecases

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/infrastructure/storage"
)

type mockTicketRepository struct {
	CreateFunc       func(ctx context.Context, t *ticket.Ticket) error
	GetByIDFunc      func(ctx context.Context, ticketID uint) (*ticket.Ticket, error)
	UpdateStatusFunc func(ctx context.Context, t *ticket.Ticket) error
	ListFunc         func(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.TicketSummary, error)
	CountFunc        func(ctx context.Context, filter ticket.TicketFilter) (int64, error)
}

func (m *mockTicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	return t.SetID(1)
}

func (m *mockTicketRepository) GetByID(ctx context.Context, ticketID uint) (*ticket.Ticket, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, ticketID)
	}
	return nil, ticket.ErrTicketNotFound
}

func (m *mockTicketRepository) UpdateStatus(ctx context.Context, t *ticket.Ticket) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, t)
	}
	return nil
}

func (m *mockTicketRepository) List(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.TicketSummary, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockTicketRepository) Count(ctx context.Context, filter ticket.TicketFilter) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, filter)
	}
	return 0, nil
}

type mockCommentRepository struct {
	CreateFunc         func(ctx context.Context, c *ticket.Comment) error
	ListByTicketIDFunc func(ctx context.Context, ticketID uint) ([]*ticket.Comment, error)
}

func (m *mockCommentRepository) Create(ctx context.Context, c *ticket.Comment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return c.SetID(1)
}

func (m *mockCommentRepository) ListByTicketID(ctx context.Context, ticketID uint) ([]*ticket.Comment, error) {
	if m.ListByTicketIDFunc != nil {
		return m.ListByTicketIDFunc(ctx, ticketID)
	}
	return nil, nil
}

type mockAttachmentRepository struct {
	CreateBatchFunc    func(ctx context.Context, attachments []*ticket.Attachment) error
	GetByIDFunc        func(ctx context.Context, attachmentID uint) (*ticket.Attachment, error)
	ListByTicketIDFunc func(ctx context.Context, ticketID uint) ([]*ticket.Attachment, error)
	ExistsByPathFunc   func(ctx context.Context, path string) (bool, error)
}

func (m *mockAttachmentRepository) CreateBatch(ctx context.Context, attachments []*ticket.Attachment) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, attachments)
	}
	for i, a := range attachments {
		if err := a.SetID(uint(i + 1)); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockAttachmentRepository) GetByID(ctx context.Context, attachmentID uint) (*ticket.Attachment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, attachmentID)
	}
	return nil, ticket.ErrAttachmentNotFound
}

func (m *mockAttachmentRepository) ListByTicketID(ctx context.Context, ticketID uint) ([]*ticket.Attachment, error) {
	if m.ListByTicketIDFunc != nil {
		return m.ListByTicketIDFunc(ctx, ticketID)
	}
	return nil, nil
}

func (m *mockAttachmentRepository) ExistsByPath(ctx context.Context, path string) (bool, error) {
	if m.ExistsByPathFunc != nil {
		return m.ExistsByPathFunc(ctx, path)
	}
	return false, nil
}

type mockStatusChangeRepository struct {
	CreateFunc         func(ctx context.Context, change *ticket.StatusChange) error
	ListByTicketIDFunc func(ctx context.Context, ticketID uint) ([]*ticket.StatusChange, error)
}

func (m *mockStatusChangeRepository) Create(ctx context.Context, change *ticket.StatusChange) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, change)
	}
	return nil
}

func (m *mockStatusChangeRepository) ListByTicketID(ctx context.Context, ticketID uint) ([]*ticket.StatusChange, error) {
	if m.ListByTicketIDFunc != nil {
		return m.ListByTicketIDFunc(ctx, ticketID)
	}
	return nil, nil
}

type mockOutboxRepository struct {
	mu       sync.Mutex
	appended []*ticket.OutboxMessage

	AppendFunc         func(ctx context.Context, messages ...*ticket.OutboxMessage) error
	FetchPendingFunc   func(ctx context.Context, limit, maxAttempts int) ([]*ticket.OutboxMessage, error)
	MarkDeliveredFunc  func(ctx context.Context, id uint, at time.Time) error
	MarkFailedFunc     func(ctx context.Context, id uint, reason string) error
	PurgeDeliveredFunc func(ctx context.Context, before time.Time) (int64, error)
}

func (m *mockOutboxRepository) Append(ctx context.Context, messages ...*ticket.OutboxMessage) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, messages...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appended = append(m.appended, messages...)
	return nil
}

func (m *mockOutboxRepository) FetchPending(ctx context.Context, limit, maxAttempts int) ([]*ticket.OutboxMessage, error) {
	if m.FetchPendingFunc != nil {
		return m.FetchPendingFunc(ctx, limit, maxAttempts)
	}
	return nil, nil
}

func (m *mockOutboxRepository) MarkDelivered(ctx context.Context, id uint, at time.Time) error {
	if m.MarkDeliveredFunc != nil {
		return m.MarkDeliveredFunc(ctx, id, at)
	}
	return nil
}

func (m *mockOutboxRepository) MarkFailed(ctx context.Context, id uint, reason string) error {
	if m.MarkFailedFunc != nil {
		return m.MarkFailedFunc(ctx, id, reason)
	}
	return nil
}

func (m *mockOutboxRepository) PurgeDelivered(ctx context.Context, before time.Time) (int64, error) {
	if m.PurgeDeliveredFunc != nil {
		return m.PurgeDeliveredFunc(ctx, before)
	}
	return 0, nil
}

func (m *mockOutboxRepository) events() []ticket.EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]ticket.EventType, 0, len(m.appended))
	for _, msg := range m.appended {
		types = append(types, msg.EventType())
	}
	return types
}

// mockTxRunner runs fn directly; a failing fn models a rolled-back transaction.
type mockTxRunner struct {
	calls int
}

func (m *mockTxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type mockObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	deleted []string

	PutFunc       func(ctx context.Context, key string, r io.Reader, contentType string) (int64, error)
	SignedURLFunc func(ctx context.Context, key string, expiry time.Duration) (string, error)
}

func newMockObjectStore(keys ...string) *mockObjectStore {
	s := &mockObjectStore{objects: make(map[string][]byte), types: make(map[string]string)}
	for _, k := range keys {
		s.objects[k] = []byte("data")
		s.types[k] = "image/png"
	}
	return s
}

func (m *mockObjectStore) Put(ctx context.Context, key string, r io.Reader, contentType string) (int64, error) {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, key, r, contentType)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	m.types[key] = contentType
	return int64(len(data)), nil
}

func (m *mockObjectStore) Open(_ context.Context, key string) (*storage.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return &storage.Object{
		Body:        io.NopCloser(bytes.NewReader(data)),
		Size:        int64(len(data)),
		ContentType: m.types[key],
	}, nil
}

func (m *mockObjectStore) SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if m.SignedURLFunc != nil {
		return m.SignedURLFunc(ctx, key, expiry)
	}
	return "", storage.ErrSignedURLUnsupported
}

func (m *mockObjectStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return storage.ErrObjectNotFound
	}
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *mockObjectStore) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok, nil
}

func (m *mockObjectStore) Stat(_ context.Context, key string) (*storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return &storage.ObjectInfo{Size: int64(len(data)), ContentType: m.types[key]}, nil
}

func (m *mockObjectStore) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

type mockPublisher struct {
	PublishFunc func(ctx context.Context, eventType ticket.EventType, payload []byte) error
	published   []ticket.EventType
}

func (m *mockPublisher) Publish(ctx context.Context, eventType ticket.EventType, payload []byte) error {
	if m.PublishFunc != nil {
		if err := m.PublishFunc(ctx, eventType, payload); err != nil {
			return err
		}
	}
	m.published = append(m.published, eventType)
	return nil
}

type mockRenderer struct{}

func (mockRenderer) ToHTML(markdown string) (string, error) {
	return "<p>" + markdown + "</p>\n", nil
}
