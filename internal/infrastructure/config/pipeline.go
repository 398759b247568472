package config

// PipelineConfig sizes the three worker pools and bounds the work queues.
// Concurrency values must be positive; a zero queue capacity means unbounded.
type PipelineConfig struct {
	Concurrency struct {
		Observers int `mapstructure:"observers" validate:"gt=0"`
		Adapters  int `mapstructure:"adapters" validate:"gt=0"`
		Exporters int `mapstructure:"exporters" validate:"gt=0"`
	} `mapstructure:"concurrency"`

	QueueCapacity int `mapstructure:"queue_capacity" validate:"gte=0"`

	// Observers optionally narrows the run to observers whose name or one of
	// whose labels appears in the list. Empty means all registered observers.
	Observers []string `mapstructure:"observers"`
}
