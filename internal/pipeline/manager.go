// Package pipeline implements the three-stage concurrent runtime: a manager
// that owns the observe/adapt/export queues, schedules a worker pool over
// each, routes items between stages, de-duplicates observations, and shuts
// down after the queues reach a quiescent fixed point.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"lantern/etl-core/internal/infrastructure/config"
	"lantern/etl-core/internal/infrastructure/logger"
	"lantern/etl-core/internal/infrastructure/telemetry/metrics"
	"lantern/etl-core/internal/infrastructure/telemetry/tracer"
	"lantern/etl-core/internal/pipeline/item"
	"lantern/etl-core/internal/pkg/apperror"
	"lantern/etl-core/internal/pkg/uid"
	"lantern/etl-core/internal/pkg/utils"
	"lantern/etl-core/internal/session"
)

// Context is the immutable record the manager is constructed with: adapter
// and observer factories, the pre-opened session registry, and the settings
// bundle. It is assembled once during bootstrap.
type Context struct {
	Observers []item.ObserverFactory
	Adapters  []item.AdapterFactory
	Sessions  *session.Registry
	Settings  *config.Config
}

// sentinel is the distinguished queue item that tells a worker to exit. One
// per worker per queue, injected after quiescence.
type sentinel struct{}

// Manager owns the queues, the worker pools, the seen set and the accounting
// sets. There is exactly one manager per run; observers and adapters hold it
// only as the read-only item.Runtime back reference.
type Manager struct {
	pctx Context
	log  logger.Logger
	met  metrics.Metrics
	trc  tracer.Tracer

	qo      *queue
	qa      *queue
	qe      *queue
	pending atomic.Int64

	acc accounting

	adapters  []item.Adapter
	observers []item.Observer

	runID   string
	started time.Time
	running atomic.Bool
}

var _ item.Runtime = (*Manager)(nil)

func NewManager(pctx Context, log logger.Logger, met metrics.Metrics, trc tracer.Tracer) (*Manager, error) {
	conc := pctx.Settings.Pipeline.Concurrency
	if conc.Observers <= 0 || conc.Adapters <= 0 || conc.Exporters <= 0 {
		return nil, apperror.NewInternal(
			apperror.CodePipelineConfig,
			fmt.Sprintf("worker pools must be positive, got observers=%d adapters=%d exporters=%d",
				conc.Observers, conc.Adapters, conc.Exporters),
		)
	}
	if len(pctx.Observers) == 0 {
		return nil, apperror.NewInternal(
			apperror.CodePipelineConfig,
			"no observers registered",
		)
	}

	capacity := pctx.Settings.Pipeline.QueueCapacity
	m := &Manager{
		pctx:    pctx,
		log:     log.WithField("component", "pipeline"),
		met:     met,
		trc:     trc,
		qo:      newQueue(capacity),
		qa:      newQueue(capacity),
		qe:      newQueue(capacity),
		runID:   uid.NewUUID(),
		started: time.Now(),
	}
	m.qo.track(&m.pending)
	m.qa.track(&m.pending)
	m.qe.track(&m.pending)
	m.acc.init()
	return m, nil
}

// Sessions implements item.Runtime.
func (m *Manager) Sessions() *session.Registry { return m.pctx.Sessions }

// Settings implements item.Runtime.
func (m *Manager) Settings() *config.Config { return m.pctx.Settings }

// RunID identifies this run in logs and the status endpoint.
func (m *Manager) RunID() string { return m.runID }

// RunObserve drives one full pipeline run: initialize, seed, spawn, wait for
// quiescence, shut down, release sessions. It blocks until every worker has
// exited.
func (m *Manager) RunObserve(ctx context.Context) error {
	span, ctx := m.trc.StartSpan(ctx, "pipeline:run")
	defer span.Finish()
	span.SetTag("run_id", m.runID)

	m.running.Store(true)
	defer m.running.Store(false)

	m.initialize(ctx)

	log := m.log.WithContext(ctx).WithField("run_id", m.runID)
	log.WithFields(map[string]any{
		"observers": len(m.observers),
		"adapters":  len(m.adapters),
		"sessions":  m.pctx.Sessions.Names(),
	}).Info("Pipeline starting")

	conc := m.pctx.Settings.Pipeline.Concurrency
	done := make(chan struct{})
	workers := 0
	spawn := func(n int, run func(context.Context)) {
		for i := 0; i < n; i++ {
			workers++
			go func() {
				defer func() { done <- struct{}{} }()
				run(ctx)
			}()
		}
	}
	spawn(conc.Observers, m.observeWorker)
	spawn(conc.Adapters, m.adaptWorker)
	spawn(conc.Exporters, m.exportWorker)

	m.awaitQuiescence()

	for i := 0; i < conc.Observers; i++ {
		m.qo.Put(sentinel{})
	}
	for i := 0; i < conc.Adapters; i++ {
		m.qa.Put(sentinel{})
	}
	for i := 0; i < conc.Exporters; i++ {
		m.qe.Put(sentinel{})
	}
	for i := 0; i < workers; i++ {
		<-done
	}

	err := m.pctx.Sessions.Release(ctx)
	utils.RecordSpanError(span, err)

	snap := m.Snapshot()
	log.WithFields(map[string]any{
		"observed":     snap.Observed,
		"not_observed": snap.NotObserved,
		"findings":     snap.Findings,
		"exported":     snap.Exported,
		"seen":         snap.Seen,
		"duration":     time.Since(m.started).String(),
	}).Info("Pipeline finished")

	return err
}

// initialize instantiates adapters and observers with the manager back
// reference, sorts adapters by priority, freezes the registry, and routes
// every initial observation through the router so de-duplication and
// allow-list checks apply to seeds too.
func (m *Manager) initialize(ctx context.Context) {
	m.adapters = make([]item.Adapter, 0, len(m.pctx.Adapters))
	for _, factory := range m.pctx.Adapters {
		m.adapters = append(m.adapters, factory(m))
	}
	// Descending priority; stable keeps registration order on ties.
	sort.SliceStable(m.adapters, func(i, j int) bool {
		return m.adapters[i].Priority() > m.adapters[j].Priority()
	})

	selectors := m.pctx.Settings.Pipeline.Observers
	m.observers = make([]item.Observer, 0, len(m.pctx.Observers))
	for _, factory := range m.pctx.Observers {
		o := factory(m)
		if !matchesSelectors(o, selectors) {
			m.log.WithField("observer", o.Name()).Info("Observer excluded by selector")
			continue
		}
		m.observers = append(m.observers, o)
	}

	m.pctx.Sessions.Freeze()

	for _, o := range m.observers {
		for _, obs := range o.InitialObservations() {
			m.route(ctx, obs, item.SourceObserver)
		}
	}
}

// matchesSelectors reports whether the observer's name or one of its labels
// appears in the selector list. An empty list selects every observer.
func matchesSelectors(o item.Observer, selectors []string) bool {
	if len(selectors) == 0 {
		return true
	}
	for _, s := range selectors {
		if s == o.Name() {
			return true
		}
		for _, label := range o.Labels() {
			if s == label {
				return true
			}
		}
	}
	return false
}

// awaitQuiescence joins the three queues in stage order. Adapters may emit
// observations that land on the observe queue after its join returned, so the
// joins loop until the shared pending counter reads zero: at that point no
// queue holds work and no worker holds an item, and since only a worker with
// an in-flight item can put new work, zero is stable.
func (m *Manager) awaitQuiescence() {
	for {
		m.qo.Join()
		m.qa.Join()
		m.qe.Join()
		if m.pending.Load() == 0 {
			return
		}
	}
}
