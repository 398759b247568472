package observation

import (
	"context"
	"database/sql"
	"fmt"

	"lantern/etl-core/internal/infrastructure/logger"
	"lantern/etl-core/internal/pipeline/item"
	"lantern/etl-core/internal/session"
)

// SQLCallback consumes the result rows of one query. The rows are only valid
// inside the callback's own iteration; items are collected before the
// transaction closes.
type SQLCallback func(ctx context.Context, rows *sql.Rows) item.Result

// SQLObservation reads from the relational session named by url. The query
// runs inside a transaction opened through the session's Atomic runner (no
// read-only mode is set on it); the cursor is handed to the callback and the
// transaction is committed at scope end.
type SQLObservation struct {
	base
	query    string
	args     []any
	callback SQLCallback
	log      logger.Logger
}

var _ item.Observation = (*SQLObservation)(nil)

func NewSQLObservation(sessionName, query string, callback SQLCallback) *SQLObservation {
	return &SQLObservation{
		base:     base{url: sessionName},
		query:    query,
		callback: callback,
		log:      logger.NewNoOpLogger(),
	}
}

// WithArgs binds positional query arguments.
func (o *SQLObservation) WithArgs(args ...any) *SQLObservation {
	o.args = args
	return o
}

func (o *SQLObservation) WithXCom(xcom any) *SQLObservation {
	o.xcom = xcom
	return o
}

func (o *SQLObservation) WithLogger(log logger.Logger) *SQLObservation {
	o.log = log
	return o
}

func (o *SQLObservation) Hash() uint64 {
	return digest(fmt.Sprintf("%s|%s", o.url, o.query))
}

func (o *SQLObservation) Observe(ctx context.Context, rt item.Runtime) item.Result {
	sess, err := rt.Sessions().Get(o.url)
	if err != nil {
		o.log.WithFields(map[string]any{
			"session":      o.url,
			"error_detail": err.Error(),
		}).Warn("SQL session lookup failed")
		return nil
	}

	sqlSess, ok := sess.(*session.SQL)
	if !ok {
		o.log.WithField("session", o.url).Warn("Session is not a relational database")
		return nil
	}

	// Items are collected inside the transaction so the cursor never
	// outlives it.
	var collected []item.Item
	err = sqlSess.DB.Atomic(ctx, func(ctx context.Context) error {
		rows, err := sqlSess.DB.WithContext(ctx).Raw(o.query, o.args...).Rows()
		if err != nil {
			return err
		}
		defer rows.Close()

		items := o.callback(ctx, rows)
		if items == nil {
			return nil
		}
		for i := range items {
			collected = append(collected, i)
		}
		return rows.Err()
	})
	if err != nil {
		o.log.WithFields(map[string]any{
			"session":      o.url,
			"error_detail": err.Error(),
		}).Warn("SQL read failed")
		return nil
	}

	return item.Many(collected...)
}
