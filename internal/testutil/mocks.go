package testutil

import (
	"context"
	"sync"
	"time"

	"fbconsole/internal/models"
	"fbconsole/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu             sync.Mutex
	BackendCalls   map[string]int // key: "operation:outcome"
	StaleResponses int
	CacheHits      int
	CacheMisses    int
	Persists       int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{BackendCalls: make(map[string]int)}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) ObserveBackendCall(operation, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BackendCalls[operation+":"+outcome]++
}

func (m *MockMetrics) IncStaleResponses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StaleResponses++
}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persists++
}

func (m *MockMetrics) Stale() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.StaleResponses
}

type QueryCall struct {
	PageIndex int
	PageSize  int
}

// MockFeedbackAPI implements backend.FeedbackAPIInterface. Without QueryFn it
// serves pages cut from Records.
type MockFeedbackAPI struct {
	mu          sync.Mutex
	Records     []models.FeedbackRecord
	QueryFn     func(ctx context.Context, pageIndex, pageSize int) (*models.Page, error)
	DeleteErr   error
	Legacy      []models.LegacySubmission
	LegacyErr   error
	QueryCalls  []QueryCall
	DeleteCalls [][]int
}

func (m *MockFeedbackAPI) QueryFeedback(ctx context.Context, pageIndex, pageSize int) (*models.Page, error) {
	m.mu.Lock()
	m.QueryCalls = append(m.QueryCalls, QueryCall{PageIndex: pageIndex, PageSize: pageSize})
	fn := m.QueryFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, pageIndex, pageSize)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	start := min(pageIndex*pageSize, len(m.Records))
	end := min(start+pageSize, len(m.Records))
	data := make([]models.FeedbackRecord, end-start)
	copy(data, m.Records[start:end])
	return &models.Page{PageData: data, TotalSize: len(m.Records), CurrentPageIndex: pageIndex}, nil
}

func (m *MockFeedbackAPI) DeleteFeedback(_ context.Context, ids []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, ids)
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	kept := m.Records[:0]
	for _, rec := range m.Records {
		drop := false
		for _, id := range ids {
			if rec.FeedbackID == id {
				drop = true
			}
		}
		if !drop {
			kept = append(kept, rec)
		}
	}
	m.Records = kept
	return nil
}

func (m *MockFeedbackAPI) ListLegacy(_ context.Context) ([]models.LegacySubmission, error) {
	return m.Legacy, m.LegacyErr
}

func (m *MockFeedbackAPI) LegacyDownloadURL(serverPath string) string {
	return "http://backend.test/downloadFile?file=" + serverPath
}

func (m *MockFeedbackAPI) Queries() []QueryCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]QueryCall, len(m.QueryCalls))
	copy(out, m.QueryCalls)
	return out
}

// Records builds n records with ids starting at 1, each carrying files
// attachments.
func Records(n, files int) []models.FeedbackRecord {
	out := make([]models.FeedbackRecord, 0, n)
	for i := 1; i <= n; i++ {
		rec := models.FeedbackRecord{
			FeedbackID:         i,
			ImpactedModule:     "editor",
			OccurringFrequency: models.FrequencyOften,
			BugDescription:     "crash on save",
			ReproduceSteps:     "open, edit, save",
			Email:              "user@example.com",
			TimeStamp:          1700000000000,
		}
		for f := 0; f < files; f++ {
			rec.Files = append(rec.Files, models.FileRef{
				FileName:      "log.txt",
				FileSize:      2048,
				FilePathOnOss: "https://feedback.oss.example.com/logs/log.txt",
			})
		}
		out = append(out, rec)
	}
	return out
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() { m.Closed = true }
