package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aurum/internal/adapters/config"
	"aurum/internal/adapters/provider"
	"aurum/internal/domain/asset"
	"aurum/internal/domain/insight"
	"aurum/internal/domain/technique"
	"aurum/internal/scheduler"
	syncsvc "aurum/internal/services/sync"
	"aurum/internal/storage/logos"
	pkgerrors "aurum/pkg/errors"
)

// MockSyncService is a mock for the SyncService interface
type MockSyncService struct {
	mock.Mock
}

func (m *MockSyncService) Sync(ctx context.Context) (*syncsvc.RunResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*syncsvc.RunResult), args.Error(1)
}

func (m *MockSyncService) SimulateSync(ctx context.Context) (*syncsvc.RunResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*syncsvc.RunResult), args.Error(1)
}

func (m *MockSyncService) SaveIndividualAsset(ctx context.Context, symbol string, data *provider.Quote) (*asset.Asset, error) {
	args := m.Called(ctx, symbol, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asset.Asset), args.Error(1)
}

func (m *MockSyncService) GetAssetInfo(ctx context.Context, symbol string) (*provider.Quote, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Quote), args.Error(1)
}

func (m *MockSyncService) GetAvailableSymbols(ctx context.Context) (map[asset.Type][]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[asset.Type][]string), args.Error(1)
}

// MockSchedulerService is a mock for the SchedulerService interface
type MockSchedulerService struct {
	mock.Mock
}

func (m *MockSchedulerService) Start() error {
	return m.Called().Error(0)
}

func (m *MockSchedulerService) Stop() {
	m.Called()
}

func (m *MockSchedulerService) Status() scheduler.Status {
	return m.Called().Get(0).(scheduler.Status)
}

func (m *MockSchedulerService) RunForPeriodicity(ctx context.Context, p technique.Periodicity) (*scheduler.BatchResult, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scheduler.BatchResult), args.Error(1)
}

func (m *MockSchedulerService) RunManual(ctx context.Context, assetID, techniqueID uuid.UUID) (*insight.Insight, error) {
	args := m.Called(ctx, assetID, techniqueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*insight.Insight), args.Error(1)
}

type staticHealth struct{ err error }

func (h staticHealth) Health(ctx context.Context) error { return h.err }

func newTestServer(syncSvc SyncService, sched SchedulerService) *Server {
	return NewServer(config.HTTPConfig{Addr: ":0"}, syncSvc, sched, nil, staticHealth{}, nil)
}

func doRequest(s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestServer_Sync_RateLimitReturnsPartialResult(t *testing.T) {
	syncSvc := new(MockSyncService)
	sched := new(MockSchedulerService)

	partial := &syncsvc.RunResult{
		TotalCandidates:      10,
		Processed:            4,
		Success:              4,
		Aborted:              true,
		ProcessedBeforeError: 4,
		Remediation:          []string{"retry after the quota resets"},
	}
	syncSvc.On("Sync", mock.Anything).
		Return(partial, pkgerrors.Wrap(pkgerrors.ErrRateLimited, "sync aborted at symbol XPTO3"))

	s := newTestServer(syncSvc, sched)
	rec := doRequest(s, http.MethodPost, "/api/sync", nil)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	var got syncsvc.RunResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Aborted)
	assert.Equal(t, 4, got.ProcessedBeforeError)
	assert.NotEmpty(t, got.Remediation)
}

func TestServer_Sync_Success(t *testing.T) {
	syncSvc := new(MockSyncService)
	sched := new(MockSchedulerService)

	syncSvc.On("Sync", mock.Anything).Return(&syncsvc.RunResult{Success: 3}, nil)

	s := newTestServer(syncSvc, sched)
	rec := doRequest(s, http.MethodPost, "/api/sync", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_AssetInfo_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", pkgerrors.Wrap(pkgerrors.ErrDataNotFound, "no results"), http.StatusNotFound},
		{"invalid input", pkgerrors.NewValidationError("symbol", "bad", "x!"), http.StatusBadRequest},
		{"rate limited", pkgerrors.Wrap(pkgerrors.ErrRateLimited, "status 403"), http.StatusTooManyRequests},
		{"internal", pkgerrors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syncSvc := new(MockSyncService)
			syncSvc.On("GetAssetInfo", mock.Anything, "PETR4").Return(nil, tt.err)

			s := newTestServer(syncSvc, new(MockSchedulerService))
			rec := doRequest(s, http.MethodGet, "/api/assets/info/PETR4", nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestServer_SaveAsset(t *testing.T) {
	syncSvc := new(MockSyncService)
	saved := &asset.Asset{Symbol: "PETR4", Type: asset.TypeStock, Market: asset.MarketB3, IsActive: true}
	syncSvc.On("SaveIndividualAsset", mock.Anything, "PETR4", mock.MatchedBy(func(q *provider.Quote) bool {
		return q.Name == "Petrobras" && q.Logo.URL() == "https://cdn.example.com/p.png"
	})).Return(saved, nil)

	body := []byte(`{"name": "Petrobras", "price": "38.42", "logo": "https://cdn.example.com/p.png"}`)

	s := newTestServer(syncSvc, new(MockSchedulerService))
	rec := doRequest(s, http.MethodPost, "/api/sync/assets/PETR4", body)

	assert.Equal(t, http.StatusOK, rec.Code)
	syncSvc.AssertExpectations(t)
}

func TestServer_SaveAsset_MalformedBody(t *testing.T) {
	s := newTestServer(new(MockSyncService), new(MockSchedulerService))
	rec := doRequest(s, http.MethodPost, "/api/sync/assets/PETR4", []byte(`{not json`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_SchedulerRun(t *testing.T) {
	sched := new(MockSchedulerService)
	sched.On("RunForPeriodicity", mock.Anything, technique.PeriodicityDaily).
		Return(&scheduler.BatchResult{Periodicity: technique.PeriodicityDaily, Total: 2, Succeeded: 2}, nil)

	s := newTestServer(new(MockSyncService), sched)
	rec := doRequest(s, http.MethodPost, "/api/scheduler/run/daily", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_SchedulerRun_InvalidPeriodicity(t *testing.T) {
	sched := new(MockSchedulerService)
	sched.On("RunForPeriodicity", mock.Anything, technique.Periodicity("yearly")).
		Return(nil, pkgerrors.NewValidationError("periodicity", "unknown class", "yearly"))

	s := newTestServer(new(MockSyncService), sched)
	rec := doRequest(s, http.MethodPost, "/api/scheduler/run/yearly", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ManualAnalysis(t *testing.T) {
	sched := new(MockSchedulerService)
	assetID := uuid.New()
	techniqueID := uuid.New()

	sched.On("RunManual", mock.Anything, assetID, techniqueID).
		Return(&insight.Insight{ID: uuid.New(), Recommendation: insight.RecommendationBuy, Confidence: 72}, nil)

	body, _ := json.Marshal(map[string]string{
		"asset_id":     assetID.String(),
		"technique_id": techniqueID.String(),
	})

	s := newTestServer(new(MockSyncService), sched)
	rec := doRequest(s, http.MethodPost, "/api/scheduler/manual", body)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestServer_ManualAnalysis_MissingIDs(t *testing.T) {
	s := newTestServer(new(MockSyncService), new(MockSchedulerService))
	rec := doRequest(s, http.MethodPost, "/api/scheduler/manual", []byte(`{}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Healthz(t *testing.T) {
	s := newTestServer(new(MockSyncService), new(MockSchedulerService))
	rec := doRequest(s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	degraded := NewServer(config.HTTPConfig{Addr: ":0"}, new(MockSyncService), new(MockSchedulerService),
		nil, staticHealth{err: pkgerrors.New("pg down")}, nil)
	rec = doRequest(degraded, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_AssetLogo(t *testing.T) {
	store, err := logos.NewStore(t.TempDir())
	require.NoError(t, err)
	_, err = store.Save("PETR4", "https://cdn.example.com/petr4.png", []byte("png-bytes"))
	require.NoError(t, err)

	s := NewServer(config.HTTPConfig{Addr: ":0"}, new(MockSyncService), new(MockSchedulerService),
		store, staticHealth{}, nil)

	// Stored logos are served by symbol, case-insensitively
	rec := doRequest(s, http.MethodGet, "/api/assets/petr4/logo", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())

	rec = doRequest(s, http.MethodGet, "/api/assets/VALE3/logo", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
