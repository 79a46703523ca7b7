package sync

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"aurum/internal/adapters/provider"
	"aurum/internal/domain/asset"
	"aurum/internal/events"
	"aurum/internal/metrics"
	"aurum/pkg/errors"
	"aurum/pkg/logger"
)

const (
	defaultItemDelay  = 200 * time.Millisecond
	defaultMaxTickers = 100
	defaultQuoteTTL   = time.Minute
)

// seedSymbols backs candidate resolution when both the store and the
// provider ticker list are unavailable.
var seedSymbols = []string{
	"PETR4", "VALE3", "ITUB4", "BBDC4", "ABEV3",
	"BBAS3", "WEGE3", "MGLU3", "B3SA3", "SUZB3",
	"BOVA11", "IVVB11",
}

// Provider is the slice of the market-data client the sync engine needs
type Provider interface {
	GetQuote(ctx context.Context, symbol string) (*provider.Quote, error)
	GetCurrencyQuote(ctx context.Context, pair string) (*provider.Quote, error)
	ListTickers(ctx context.Context) ([]string, error)
	DownloadLogo(ctx context.Context, url string) ([]byte, string, error)
}

// LogoStore persists downloaded logo images
type LogoStore interface {
	Save(symbol, sourceURL string, data []byte) (string, error)
}

// QuoteCache is a short-TTL read-through cache for live quote lookups.
// A nil cache disables caching and every lookup hits the provider.
type QuoteCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Config tunes the bulk refresh loop
type Config struct {
	// ItemDelay spaces sequential provider calls to respect quotas
	ItemDelay time.Duration

	// MaxTickers caps the provider ticker list fallback
	MaxTickers int

	// QuoteTTL bounds staleness of cached live quotes
	QuoteTTL time.Duration
}

// Service orchestrates bulk refresh of asset reference data from the
// external provider: candidate resolution with fallbacks, a sequential
// per-symbol loop with rate-limit abort, logo caching, and a
// reconciliation pass that deactivates symbols absent from the run.
type Service struct {
	assets   asset.Repository
	provider Provider
	logos    LogoStore
	cache    QuoteCache
	events   *events.Publisher
	metrics  *metrics.Metrics
	cfg      Config
	log      *logger.Logger
}

// NewService creates a new sync engine
func NewService(assets asset.Repository, prov Provider, logos LogoStore, cache QuoteCache, pub *events.Publisher, m *metrics.Metrics, cfg Config) *Service {
	if cfg.ItemDelay == 0 {
		cfg.ItemDelay = defaultItemDelay
	}
	if cfg.MaxTickers <= 0 {
		cfg.MaxTickers = defaultMaxTickers
	}
	if cfg.QuoteTTL <= 0 {
		cfg.QuoteTTL = defaultQuoteTTL
	}

	return &Service{
		assets:   assets,
		provider: prov,
		logos:    logos,
		cache:    cache,
		events:   pub,
		metrics:  m,
		cfg:      cfg,
		log:      logger.Get().With("component", "sync_engine"),
	}
}

// Sync executes one full bulk refresh run. It always returns a
// RunResult with partial progress; the error is non-nil only for a
// rate-limit abort or a run-level failure before the loop started.
func (s *Service) Sync(ctx context.Context) (*RunResult, error) {
	started := time.Now()
	result := &RunResult{StartedAt: started.UTC()}

	activeBefore, err := s.assets.FindActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load active assets")
	}

	candidates, err := s.resolveCandidates(ctx, activeBefore)
	if err != nil {
		return nil, err
	}
	result.TotalCandidates = len(candidates)

	s.log.Infow("Sync run started", "candidates", len(candidates))

	confirmed := make(map[string]bool, len(candidates))

	for i, symbol := range candidates {
		if i > 0 {
			if err := s.pause(ctx); err != nil {
				result.FinishedAt = time.Now().UTC()
				return result, err
			}
		}

		err := s.refreshSymbol(ctx, symbol)
		if err == nil {
			result.Processed++
			result.Success++
			confirmed[symbol] = true
			s.metrics.IncSymbol("success")
			continue
		}

		if errors.Is(err, errors.ErrRateLimited) {
			// Quota exhausted: no further provider call will succeed
			// today, so the whole run stops here with partial counts.
			result.recordError(symbol, err)
			result.Aborted = true
			result.ProcessedBeforeError = result.Processed
			result.Remediation = []string{
				"run the simulated sync to validate the pipeline without consuming quota",
				"retry after the provider's daily request quota resets",
			}
			result.FinishedAt = time.Now().UTC()

			s.metrics.IncSymbol("rate_limited")
			s.metrics.ObserveSyncRun("aborted", time.Since(started))
			s.publishRun(ctx, result)

			s.log.Warnw("Sync run aborted by provider rate limit",
				"processed", result.ProcessedBeforeError,
				"remaining", len(candidates)-i-1,
			)
			return result, errors.Wrapf(errors.ErrRateLimited, "sync aborted at symbol %s", symbol)
		}

		result.Processed++
		result.recordError(symbol, err)
		s.metrics.IncSymbol("error")
		s.log.Warnw("Symbol refresh failed", "symbol", symbol, "error", err)
	}

	result.Deactivated = s.reconcile(ctx, activeBefore, confirmed)
	result.FinishedAt = time.Now().UTC()

	s.metrics.ObserveSyncRun("completed", time.Since(started))
	s.publishRun(ctx, result)

	s.log.Infow("Sync run completed",
		"success", result.Success,
		"errors", result.ErrorCount,
		"deactivated", result.Deactivated,
	)
	return result, nil
}

// GetAssetInfo fetches one live quote without persisting anything.
// Lookups are served from the short-TTL cache when one is configured.
func (s *Service) GetAssetInfo(ctx context.Context, symbol string) (*provider.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if !asset.ValidSymbol(symbol) {
		return nil, errors.NewValidationError("symbol", "must be 1-10 uppercase letters or digits", symbol)
	}

	key := "quote:" + symbol
	if s.cache != nil {
		var cached provider.Quote
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	quote, err := s.provider.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, quote, s.cfg.QuoteTTL); err != nil {
			s.log.Warnw("Quote cache write failed", "symbol", symbol, "error", err)
		}
	}
	return quote, nil
}

// GetAvailableSymbols lists currently active symbols grouped by type,
// sourced from the store only.
func (s *Service) GetAvailableSymbols(ctx context.Context) (map[asset.Type][]string, error) {
	actives, err := s.assets.FindActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load active assets")
	}

	grouped := make(map[asset.Type][]string)
	for _, a := range actives {
		grouped[a.Type] = append(grouped[a.Type], a.Symbol)
	}
	return grouped, nil
}

// SaveIndividualAsset persists one pre-fetched quote payload. This is
// the client-driven path: an external orchestrator owns batching,
// backoff and cancellation, and hands over one item at a time.
func (s *Service) SaveIndividualAsset(ctx context.Context, symbol string, data *provider.Quote) (*asset.Asset, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if !asset.ValidSymbol(symbol) {
		return nil, errors.NewValidationError("symbol", "must be 1-10 uppercase letters or digits", symbol)
	}
	if data == nil {
		return nil, errors.NewValidationError("data", "quote payload required", nil)
	}

	return s.saveQuote(ctx, symbol, data)
}

// SimulateSync runs synthetic payloads through the identical
// upsert/logo path without any network calls.
func (s *Service) SimulateSync(ctx context.Context) (*RunResult, error) {
	started := time.Now()
	result := &RunResult{
		StartedAt:       started.UTC(),
		Simulated:       true,
		TotalCandidates: len(seedSymbols),
	}

	for i, symbol := range seedSymbols {
		quote := syntheticQuote(symbol, i)

		result.Processed++
		if _, err := s.saveQuote(ctx, symbol, quote); err != nil {
			result.recordError(symbol, err)
			s.metrics.IncSymbol("error")
			continue
		}
		result.Success++
		s.metrics.IncSymbol("success")
	}

	result.FinishedAt = time.Now().UTC()
	s.metrics.ObserveSyncRun("simulated", time.Since(started))
	s.publishRun(ctx, result)

	s.log.Infow("Simulated sync completed", "success", result.Success, "errors", result.ErrorCount)
	return result, nil
}

// resolveCandidates picks the symbols for this run: store actives first,
// then the provider ticker list capped to a bounded prefix, then the
// static seed list when the ticker list itself is rate-limited.
func (s *Service) resolveCandidates(ctx context.Context, activeBefore []*asset.Asset) ([]string, error) {
	if len(activeBefore) > 0 {
		symbols := make([]string, 0, len(activeBefore))
		for _, a := range activeBefore {
			symbols = append(symbols, a.Symbol)
		}
		return symbols, nil
	}

	tickers, err := s.provider.ListTickers(ctx)
	if err != nil {
		if errors.Is(err, errors.ErrRateLimited) {
			s.log.Warnw("Ticker list rate limited, falling back to seed symbols")
			return seedSymbols, nil
		}
		return nil, errors.Wrap(err, "list tickers")
	}

	if len(tickers) > s.cfg.MaxTickers {
		tickers = tickers[:s.cfg.MaxTickers]
	}
	return tickers, nil
}

// refreshSymbol performs the per-symbol pipeline: quote, classify,
// logo, upsert. Currency pairs go through the currency endpoint; the
// equity endpoint does not know them and would report them missing.
func (s *Service) refreshSymbol(ctx context.Context, symbol string) error {
	var quote *provider.Quote
	var err error
	if ClassifySymbol(symbol) == asset.TypeCurrency {
		quote, err = s.provider.GetCurrencyQuote(ctx, currencyPair(symbol))
	} else {
		quote, err = s.provider.GetQuote(ctx, symbol)
	}
	if err != nil {
		return err
	}

	_, err = s.saveQuote(ctx, symbol, quote)
	return err
}

// saveQuote is the shared validate→classify→logo→upsert path used by
// the bulk loop, the client-driven single-item entrypoint and simulate
// mode.
func (s *Service) saveQuote(ctx context.Context, symbol string, quote *provider.Quote) (*asset.Asset, error) {
	symbol = strings.ToUpper(symbol)
	assetType := ClassifySymbol(symbol)

	var logoPath *string
	if !quote.Logo.Empty() {
		if name, err := s.cacheLogo(ctx, symbol, quote.Logo.URL()); err != nil {
			// Non-fatal: the asset is saved without a local logo path
			s.log.Warnw("Logo download failed", "symbol", symbol, "error", err)
		} else {
			logoPath = &name
		}
	}

	snapshot, err := json.Marshal(asset.Snapshot{
		Sector:        quote.Sector,
		MarketCap:     quote.MarketCap,
		Currency:      quote.Currency,
		Price:         quote.Price,
		ChangePercent: quote.ChangePercent,
		LastUpdated:   quote.UpdatedAt,
	})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrPersistence, "encode snapshot for %s: %v", symbol, err)
	}

	name := quote.Name
	if name == "" {
		name = symbol
	}

	doc := &asset.Asset{
		ID:       uuid.New(),
		Symbol:   symbol,
		Name:     name,
		Type:     assetType,
		Market:   marketFor(assetType),
		IsActive: true,
		LogoPath: logoPath,
		Metadata: snapshot,
	}

	return s.assets.UpsertBySymbol(ctx, doc)
}

// cacheLogo downloads the image and stores it under the symbol key
func (s *Service) cacheLogo(ctx context.Context, symbol, url string) (string, error) {
	data, _, err := s.provider.DownloadLogo(ctx, url)
	if err != nil {
		return "", err
	}
	return s.logos.Save(symbol, url, data)
}

// reconcile deactivates assets that were active before the run but not
// confirmed by it: a sync run is authoritative for presence. Best
// effort: one failed deactivation is logged and does not block others.
func (s *Service) reconcile(ctx context.Context, activeBefore []*asset.Asset, confirmed map[string]bool) int {
	deactivated := 0
	for _, a := range activeBefore {
		if confirmed[a.Symbol] {
			continue
		}
		if err := s.assets.SetActive(ctx, a.Symbol, false); err != nil {
			s.log.Warnw("Failed to deactivate asset", "symbol", a.Symbol, "error", err)
			continue
		}
		deactivated++
	}
	return deactivated
}

// pause waits the inter-item delay, giving up early on cancellation.
// The per-item cancellation check is deliberate: it makes the bulk loop
// stoppable where the original design was not.
func (s *Service) pause(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.cfg.ItemDelay):
		return nil
	}
}

func (s *Service) publishRun(ctx context.Context, r *RunResult) {
	s.events.PublishSyncCompleted(ctx, events.SyncCompletedEvent{
		TotalCandidates: r.TotalCandidates,
		Processed:       r.Processed,
		Success:         r.Success,
		ErrorCount:      r.ErrorCount,
		Deactivated:     r.Deactivated,
		Aborted:         r.Aborted,
		Simulated:       r.Simulated,
		FinishedAt:      r.FinishedAt,
	})
}
