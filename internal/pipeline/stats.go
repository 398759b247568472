package pipeline

import "time"

// Snapshot is a point-in-time view of the run: the aggregate counts the
// pipeline surfaces at the end, plus live queue depths for the status server.
type Snapshot struct {
	RunID       string        `json:"run_id"`
	Running     bool          `json:"running"`
	Observed    int           `json:"observed"`
	NotObserved int           `json:"not_observed"`
	Findings    int           `json:"findings"`
	Exported    int           `json:"exported"`
	Seen        int           `json:"seen"`
	QueueDepths QueueDepths   `json:"queues"`
	Uptime      time.Duration `json:"uptime"`
}

type QueueDepths struct {
	Observe int `json:"observe"`
	Adapt   int `json:"adapt"`
	Export  int `json:"export"`
}

// Snapshot is safe to call concurrently with a running pipeline.
func (m *Manager) Snapshot() Snapshot {
	m.acc.mu.Lock()
	snap := Snapshot{
		RunID:       m.runID,
		Running:     m.running.Load(),
		Observed:    len(m.acc.observed),
		NotObserved: len(m.acc.notObserved),
		Findings:    m.acc.findings,
		Exported:    len(m.acc.exported),
		Seen:        len(m.acc.seen),
	}
	m.acc.mu.Unlock()

	snap.QueueDepths = QueueDepths{
		Observe: m.qo.Len(),
		Adapt:   m.qa.Len(),
		Export:  m.qe.Len(),
	}
	snap.Uptime = time.Since(m.started)
	return snap
}
