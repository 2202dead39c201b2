package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/hospitaladmin/internal/adapters/directory"
	"github.com/zatekoja/hospitaladmin/internal/adapters/storage"
	"github.com/zatekoja/hospitaladmin/internal/api/middleware"
	"github.com/zatekoja/hospitaladmin/internal/application/services"
	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
)

var testToday = time.Date(2024, 8, 12, 14, 30, 0, 0, time.UTC)

type MockLanguageModel struct {
	mock.Mock
}

func (m *MockLanguageModel) GenerateText(ctx context.Context, systemInstruction, prompt string) (string, error) {
	args := m.Called(ctx, systemInstruction, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockLanguageModel) ExtractStructured(ctx context.Context, systemInstruction, prompt string, schema map[string]interface{}) ([]byte, error) {
	args := m.Called(ctx, systemInstruction, prompt, schema)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type firstRand struct{}

func (firstRand) Intn(n int) int { return 0 }

func newDirectory() *services.DirectoryService {
	store := directory.NewMemoryStore(directory.SeedDoctors(), directory.SeedPatients(testToday), directory.SeedAppointments())
	return services.NewDirectoryService(store, nil)
}

func newBookings() *services.BookingService {
	return services.NewBookingService(storage.NewMemoryAdapter(), nil, nil)
}

// newRequest builds a request carrying an authenticated session.
func newRequest(method, target string, body interface{}, sessionID string, admin bool) *http.Request {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if sessionID != "" {
		ctx := middleware.WithSession(req.Context(), middleware.SessionInfo{
			ID:    sessionID,
			State: entities.AuthState{IsAuthenticated: true, IsAdmin: admin},
		})
		req = req.WithContext(ctx)
	}
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(dst))
}

// streamRecorder is a ResponseWriter that is safe to read while a
// streaming handler is still writing.
type streamRecorder struct {
	mu     sync.Mutex
	header http.Header
	buf    bytes.Buffer
	code   int
}

func newStreamRecorder() *streamRecorder {
	return &streamRecorder{header: make(http.Header)}
}

func (s *streamRecorder) Header() http.Header { return s.header }

func (s *streamRecorder) Write(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.code == 0 {
		s.code = http.StatusOK
	}
	return s.buf.Write(b)
}

func (s *streamRecorder) WriteHeader(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.code == 0 {
		s.code = code
	}
}

func (s *streamRecorder) Flush() {}

func (s *streamRecorder) Body() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func (s *streamRecorder) Code() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.code
}
