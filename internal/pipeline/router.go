package pipeline

import (
	"context"
	"fmt"
	"sync"

	"lantern/etl-core/internal/pipeline/item"
)

// accounting groups the shared mutable state of a run: the seen set and the
// three result sets. All writers go through its methods; the lock is never
// held across an Observe or Export call.
type accounting struct {
	mu          sync.Mutex
	seen        map[uint64]struct{}
	observed    map[string]struct{}
	notObserved map[string]struct{}
	exported    map[string]struct{}
	findings    int
}

func (a *accounting) init() {
	a.seen = make(map[uint64]struct{})
	a.observed = make(map[string]struct{})
	a.notObserved = make(map[string]struct{})
	a.exported = make(map[string]struct{})
}

// markSeen inserts h and reports whether it was absent. Check and insert are
// one atomic step: the seen set is the single source of truth for "this
// observation will be processed".
func (a *accounting) markSeen(h uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.seen[h]; ok {
		return false
	}
	a.seen[h] = struct{}{}
	return true
}

func (a *accounting) markObserved(url string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observed[url] = struct{}{}
}

func (a *accounting) markNotObserved(url string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.notObserved[url] = struct{}{}
}

func (a *accounting) markExported(identity string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.exported[identity] = struct{}{}
}

func (a *accounting) markFinding() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.findings++
}

// route decides which queue a produced item belongs on and applies the
// duplication gate. src tells the router whether the item came from observer
// or adapter context; findings may not cascade through adapters.
func (m *Manager) route(ctx context.Context, i item.Item, src item.Source) {
	log := m.log.WithContext(ctx)

	switch v := i.(type) {
	case item.Exporter:
		m.qe.Put(v)
		m.met.RecordQueueDepth("export", float64(m.qe.Len()))

	case item.Finding:
		if src == item.SourceAdapter {
			log.WithFields(map[string]any{
				"tag":    string(v.Tag()),
				"source": src.String(),
			}).Warn("Finding produced by adapter rejected")
			m.met.RecordItem("route", "rejected", 0)
			return
		}
		m.acc.markFinding()
		m.qa.Put(v)
		m.met.RecordQueueDepth("adapt", float64(m.qa.Len()))

	case item.Observation:
		if al, ok := v.(item.AllowListed); ok && !al.Allowed() {
			// Not-allowed URLs never reach the seen set; they count in
			// neither observed nor not-observed.
			log.WithField("url", v.URL()).Debug("Observation outside allow-list dropped")
			return
		}
		if !m.acc.markSeen(v.Hash()) {
			log.WithField("url", v.URL()).Debug("Duplicate observation dropped")
			m.met.RecordItem("route", "duplicate", 0)
			return
		}
		m.qo.Put(v)
		m.met.RecordQueueDepth("observe", float64(m.qo.Len()))

	default:
		log.WithFields(map[string]any{
			"kind":   fmt.Sprintf("%T", i),
			"source": src.String(),
		}).Warn("Item of unknown kind dropped")
		m.met.RecordItem("route", "rejected", 0)
	}
}
