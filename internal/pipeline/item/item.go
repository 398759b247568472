// Package item defines the units of work that flow through the pipeline:
// observations (extract), findings (transform input) and exporters (load),
// together with the contracts the manager consumes to drive them.
package item

import "iter"

// Item is anything an observer callback or adapter may yield. The router
// accepts the three pipeline kinds (Observation, Finding, Exporter) and
// rejects everything else with a warning.
type Item = any

// Result is the outcome of observing one unit of external data: a lazy
// sequence of downstream items, or nil when the fetch failed. The file
// variant keeps its handle open for the duration of the iteration and
// releases it when the iteration ends; the SQL variant iterates inside its
// transaction and returns the already collected items.
type Result = iter.Seq[Item]

// Source identifies the context an item was produced in. The router uses it
// to reject findings emitted by adapters; inspecting the call stack is not an
// option.
type Source int

const (
	SourceObserver Source = iota
	SourceAdapter
)

func (s Source) String() string {
	switch s {
	case SourceObserver:
		return "observer"
	case SourceAdapter:
		return "adapter"
	default:
		return "unknown"
	}
}

// One yields a Result containing exactly one item.
func One(i Item) Result {
	return func(yield func(Item) bool) {
		yield(i)
	}
}

// Many yields a Result over a pre-built slice of items.
func Many(items ...Item) Result {
	return func(yield func(Item) bool) {
		for _, i := range items {
			if !yield(i) {
				return
			}
		}
	}
}
