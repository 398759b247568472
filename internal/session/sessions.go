package session

import (
	"context"

	database "lantern/etl-core/internal/infrastructure/db"
)

// SQL adapts a relational database handle to the registry contract.
// Exporters and SQL observations assert the registry entry to *SQL to reach
// the transaction runner.
type SQL struct {
	DB database.Database
}

var _ Session = (*SQL)(nil)

func (s *SQL) Release(_ context.Context) error {
	return s.DB.Close()
}

// TimeSeries adapts the time-series client to the registry contract.
type TimeSeries struct {
	TS database.TimeSeriesDatabase
}

var _ Session = (*TimeSeries)(nil)

func (s *TimeSeries) Release(_ context.Context) error {
	return s.TS.Close()
}
