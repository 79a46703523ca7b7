package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"aurum/internal/adapters/config"
	"aurum/internal/domain/association"
	"aurum/internal/domain/asset"
	"aurum/internal/domain/insight"
	"aurum/internal/domain/technique"
	"aurum/internal/events"
	"aurum/internal/metrics"
	"aurum/pkg/errors"
	"aurum/pkg/logger"
)

// Analyzer evaluates one asset under one technique and records the insight
type Analyzer interface {
	PerformAnalysis(ctx context.Context, a *asset.Asset, t *technique.Technique) (*insight.Insight, error)
}

// Lease coordinates batch execution across replicas. A nil Lease means
// single-instance deployment and every batch runs.
type Lease interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Scheduler fires analysis batches on calendar triggers, one per
// periodicity class, and fans each batch out over the active
// asset-technique pairs of that class.
type Scheduler struct {
	analyzer     Analyzer
	associations association.Repository
	assets       asset.Repository
	techniques   technique.Repository
	lease        Lease
	events       *events.Publisher
	metrics      *metrics.Metrics
	cfg          config.SchedulerConfig
	log          *logger.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	entries map[technique.Periodicity]cron.EntryID
	specs   map[technique.Periodicity]string
	running bool
}

// New creates a scheduler; Initialize must be called before Start
func New(
	analyzer Analyzer,
	associations association.Repository,
	assets asset.Repository,
	techniques technique.Repository,
	lease Lease,
	pub *events.Publisher,
	m *metrics.Metrics,
	cfg config.SchedulerConfig,
) *Scheduler {
	return &Scheduler{
		analyzer:     analyzer,
		associations: associations,
		assets:       assets,
		techniques:   techniques,
		lease:        lease,
		events:       pub,
		metrics:      m,
		cfg:          cfg,
		log:          logger.Get().With("component", "scheduler"),
	}
}

// Initialize registers the four periodicity triggers. Calling it again
// replaces the trigger set, so changed cron specs take effect on the
// next Initialize/Start cycle.
func (s *Scheduler) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("scheduler must be stopped before reinitializing")
	}

	loc, err := time.LoadLocation(s.cfg.Timezone)
	if err != nil {
		return errors.Wrapf(err, "load timezone %q", s.cfg.Timezone)
	}

	c := cron.New(cron.WithLocation(loc))
	specs := map[technique.Periodicity]string{
		technique.PeriodicityHourly:  s.cfg.HourlySpec,
		technique.PeriodicityDaily:   s.cfg.DailySpec,
		technique.PeriodicityWeekly:  s.cfg.WeeklySpec,
		technique.PeriodicityMonthly: s.cfg.MonthlySpec,
	}
	entries := make(map[technique.Periodicity]cron.EntryID, len(specs))

	for _, p := range technique.Periodicities() {
		p := p
		id, err := c.AddFunc(specs[p], func() {
			ctx, cancel := context.WithTimeout(context.Background(), batchTimeout(p))
			defer cancel()

			if _, err := s.RunForPeriodicity(ctx, p); err != nil {
				s.log.Errorw("Scheduled batch failed", "periodicity", p, "error", err)
			}
		})
		if err != nil {
			return errors.Wrapf(err, "register %s trigger %q", p, specs[p])
		}
		entries[p] = id
	}

	s.cron = c
	s.entries = entries
	s.specs = specs

	s.log.Infow("Scheduler initialized", "timezone", s.cfg.Timezone)
	return nil
}

// Start begins firing triggers. Starting an already running scheduler
// is a no-op.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return errors.New("scheduler not initialized")
	}
	if s.running {
		return nil
	}

	s.cron.Start()
	s.running = true
	s.log.Info("Scheduler started")
	return nil
}

// Stop halts future triggers and waits for in-flight batches.
// Stopping a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	<-s.cron.Stop().Done()
	s.running = false
	s.log.Info("Scheduler stopped")
}

// Status reports the running flag and next fire time per trigger
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{Running: s.running, Timezone: s.cfg.Timezone}
	for _, p := range technique.Periodicities() {
		ts := TriggerStatus{Periodicity: p, Spec: s.specs[p]}
		if s.cron != nil && s.running {
			if next := s.cron.Entry(s.entries[p]).Next; !next.IsZero() {
				ts.NextRun = &next
			}
		}
		st.Triggers = append(st.Triggers, ts)
	}
	return st
}

// RunForPeriodicity executes one batch for the given periodicity class:
// every active pair of that class is evaluated, concurrently and
// independently, so one pair's failure never blocks the others.
func (s *Scheduler) RunForPeriodicity(ctx context.Context, p technique.Periodicity) (*BatchResult, error) {
	if !p.Valid() {
		return nil, errors.NewValidationError("periodicity", "must be hourly, daily, weekly or monthly", string(p))
	}

	started := time.Now()
	result := &BatchResult{Periodicity: p, StartedAt: started.UTC()}

	if s.lease != nil {
		key := "scheduler:batch:" + string(p)
		ok, err := s.lease.Acquire(ctx, key, s.cfg.LeaseTTL)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrSchedulerLease, "acquire %s: %v", key, err)
		}
		if !ok {
			s.log.Infow("Batch lease held elsewhere, skipping", "periodicity", p)
			result.Skipped = true
			result.FinishedAt = time.Now().UTC()
			return result, nil
		}
		defer func() {
			if err := s.lease.Release(context.WithoutCancel(ctx), key); err != nil {
				s.log.Warnw("Failed to release batch lease", "key", key, "error", err)
			}
		}()
	}

	pairs, err := s.associations.FindActiveForPeriodicity(ctx, p)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s pairs", p)
	}
	result.Total = len(pairs)

	s.log.Infow("Batch started", "periodicity", p, "pairs", len(pairs))

	results := make([]PairResult, len(pairs))
	var wg sync.WaitGroup
	for i, pair := range pairs {
		wg.Add(1)
		go func(i int, pair *association.Pair) {
			defer wg.Done()
			results[i] = s.runPair(ctx, pair)
		}(i, pair)
	}
	wg.Wait()

	for _, r := range results {
		if r.Error == "" {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}
	result.Pairs = results
	result.FinishedAt = time.Now().UTC()

	s.metrics.ObserveBatch(string(p), time.Since(started))
	s.log.Infow("Batch finished",
		"periodicity", p,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
	)
	return result, nil
}

// RunManual evaluates one pair on demand, outside any trigger. Unknown
// or inactive references fail before any quote is fetched.
func (s *Scheduler) RunManual(ctx context.Context, assetID, techniqueID uuid.UUID) (*insight.Insight, error) {
	a, err := s.assets.GetByID(ctx, assetID)
	if err != nil {
		return nil, errors.Wrapf(err, "asset %s", assetID)
	}
	if !a.IsActive {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "asset %s is inactive", a.Symbol)
	}

	t, err := s.techniques.GetByID(ctx, techniqueID)
	if err != nil {
		return nil, errors.Wrapf(err, "technique %s", techniqueID)
	}
	if !t.IsActive {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "technique %q is inactive", t.Title)
	}

	at, err := s.associations.GetByPair(ctx, assetID, techniqueID)
	if err != nil {
		return nil, errors.Wrapf(err, "pairing %s / %q", a.Symbol, t.Title)
	}
	if !at.IsActive {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "pairing %s / %q is inactive", a.Symbol, t.Title)
	}

	ins, err := s.analyzer.PerformAnalysis(ctx, a, t)
	if err != nil {
		return nil, err
	}

	s.publishInsight(ctx, a, t, ins)
	return ins, nil
}

// runPair evaluates one pair, recovering from panics so a misbehaving
// scorer cannot take down the whole batch.
func (s *Scheduler) runPair(ctx context.Context, pair *association.Pair) (res PairResult) {
	res = PairResult{
		AssetSymbol:    pair.Asset.Symbol,
		TechniqueTitle: pair.Technique.Title,
	}

	defer func() {
		if r := recover(); r != nil {
			res.Error = fmt.Sprintf("panic: %v", r)
			s.log.Errorw("Pair analysis panicked",
				"symbol", pair.Asset.Symbol,
				"technique", pair.Technique.Title,
				"panic", r,
			)
		}
	}()

	ins, err := s.analyzer.PerformAnalysis(ctx, &pair.Asset, &pair.Technique)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.InsightID = ins.ID
	s.publishInsight(ctx, &pair.Asset, &pair.Technique, ins)
	return res
}

func (s *Scheduler) publishInsight(ctx context.Context, a *asset.Asset, t *technique.Technique, ins *insight.Insight) {
	s.metrics.IncInsight(string(ins.Recommendation))
	s.events.PublishInsightCreated(ctx, events.InsightCreatedEvent{
		InsightID:      ins.ID.String(),
		Symbol:         a.Symbol,
		TechniqueID:    t.ID.String(),
		Recommendation: string(ins.Recommendation),
		Confidence:     ins.Confidence,
		ExecutedAt:     ins.ExecutedAt,
	})
}

// batchTimeout bounds a scheduled batch so a stuck provider cannot
// pile runs on top of each other.
func batchTimeout(p technique.Periodicity) time.Duration {
	if p == technique.PeriodicityHourly {
		return 30 * time.Minute
	}
	return time.Hour
}
