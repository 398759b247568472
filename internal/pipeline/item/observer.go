package item

import "context"

// Observer seeds the pipeline and hosts the callbacks its observations are
// bound to. Instances are created exactly once per run, with the manager back
// reference available through the factory's Runtime argument.
type Observer interface {
	// Name identifies the observer in logs and selectors.
	Name() string

	// Labels are free-form selectors the manager filters observers by at
	// pipeline start, against the pipeline.observers setting.
	Labels() []string

	// InitialObservations returns the entry-point seeds, in the order they
	// should be routed. Populated at construction time so the manager can
	// seed the observe queue in one shot.
	InitialObservations() []Observation
}

// Adapter transforms a finding into zero or more observations or exporters.
// Adapters never yield findings; the router rejects any that do.
type Adapter interface {
	// Priority orders adapters: higher runs first. Ties preserve
	// registration order.
	Priority() int

	// Subscribes lists the finding tags this adapter reacts to.
	Subscribes() []Tag

	// Adapt emits downstream items for one finding. A nil Result is treated
	// as an empty sequence.
	Adapt(ctx context.Context, f Finding) Result
}

// ObserverFactory and AdapterFactory are the registration currency of the
// Context: the bootstrap lists factories, the manager instantiates them at
// pipeline start.
type (
	ObserverFactory func(rt Runtime) Observer
	AdapterFactory  func(rt Runtime) Adapter
)
