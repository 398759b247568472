package pipeline

import (
	"context"
	"fmt"
	"slices"
	"time"

	"lantern/etl-core/internal/pipeline/item"
)

// observeWorker drains the observe queue: pause for the configured delay,
// fetch, route every yielded item. Failures are local; the worker logs,
// records the URL as not-observed, and moves on.
func (m *Manager) observeWorker(ctx context.Context) {
	delay := m.pctx.Settings.Observation.Delay
	for {
		v := m.qo.Get()
		if _, ok := v.(sentinel); ok {
			m.qo.Done()
			return
		}
		obs := v.(item.Observation)

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
			}
		}

		start := time.Now()
		m.processObservation(ctx, obs)
		m.met.RecordItem("observe", m.outcomeFor(obs), time.Since(start).Seconds())
		m.qo.Done()
	}
}

func (m *Manager) processObservation(ctx context.Context, obs item.Observation) {
	log := m.log.WithContext(ctx).WithField("url", obs.URL())

	defer func() {
		if r := recover(); r != nil {
			log.WithFields(map[string]any{
				"error_detail": fmt.Sprint(r),
			}).Warn("Observer callback panicked")
			m.acc.markNotObserved(obs.URL())
		}
	}()

	result := obs.Observe(ctx, m)
	if result == nil {
		m.acc.markNotObserved(obs.URL())
		return
	}

	m.acc.markObserved(obs.URL())
	for i := range result {
		m.route(ctx, i, item.SourceObserver)
	}
}

// outcomeFor reads the terminal state of an observation back out of the
// accounting sets, for the stage metric only.
func (m *Manager) outcomeFor(obs item.Observation) string {
	m.acc.mu.Lock()
	defer m.acc.mu.Unlock()
	if _, ok := m.acc.notObserved[obs.URL()]; ok {
		return "failed"
	}
	return "ok"
}

// adaptWorker drains the adapt queue: for each finding, run every subscribed
// adapter in priority order and route what they yield with adapter source.
func (m *Manager) adaptWorker(ctx context.Context) {
	for {
		v := m.qa.Get()
		if _, ok := v.(sentinel); ok {
			m.qa.Done()
			return
		}
		f := v.(item.Finding)

		start := time.Now()
		m.processFinding(ctx, f)
		m.met.RecordItem("adapt", "ok", time.Since(start).Seconds())
		m.qa.Done()
	}
}

func (m *Manager) processFinding(ctx context.Context, f item.Finding) {
	log := m.log.WithContext(ctx).WithField("tag", string(f.Tag()))

	// All matching adapters run; priority governs order, not exclusivity.
	for _, a := range m.adapters {
		if !slices.Contains(a.Subscribes(), f.Tag()) {
			continue
		}

		func() {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(map[string]any{
						"priority":     a.Priority(),
						"error_detail": fmt.Sprint(r),
					}).Warn("Adapter panicked")
				}
			}()

			result := a.Adapt(ctx, f)
			if result == nil {
				return
			}
			for i := range result {
				m.route(ctx, i, item.SourceAdapter)
			}
		}()
	}
}

// exportWorker drains the export queue: look up the named session, dispatch
// the exporter, record its identity on success. Failed exporters are dropped,
// never retried.
func (m *Manager) exportWorker(ctx context.Context) {
	for {
		v := m.qe.Get()
		if _, ok := v.(sentinel); ok {
			m.qe.Done()
			return
		}
		exp := v.(item.Exporter)

		start := time.Now()
		outcome := m.processExporter(ctx, exp)
		m.met.RecordItem("export", outcome, time.Since(start).Seconds())
		m.qe.Done()
	}
}

func (m *Manager) processExporter(ctx context.Context, exp item.Exporter) (outcome string) {
	log := m.log.WithContext(ctx).WithFields(map[string]any{
		"sink":     exp.Name(),
		"severity": "critical",
	})

	sess, err := m.pctx.Sessions.Get(exp.Name())
	if err != nil {
		log.Error("Exporter names a session missing from the registry")
		return "dropped"
	}

	outcome = "failed"
	defer func() {
		if r := recover(); r != nil {
			log.WithField("error_detail", fmt.Sprint(r)).Error("Exporter panicked")
		}
	}()

	if err := exp.Export(ctx, sess); err != nil {
		log.WithField("error_detail", err.Error()).Error("Export failed")
		return "failed"
	}

	m.acc.markExported(exp.Identity())
	return "ok"
}
