package observation

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlog "gorm.io/gorm/logger"

	"lantern/etl-core/internal/infrastructure/config"
	database "lantern/etl-core/internal/infrastructure/db"
	"lantern/etl-core/internal/infrastructure/logger"
	"lantern/etl-core/internal/pipeline/item"
	"lantern/etl-core/internal/session"
)

func sqlSessionRegistry(t *testing.T, name string) (*session.Registry, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	gdb, err := gorm.Open(
		postgres.New(postgres.Config{Conn: conn}),
		&gorm.Config{
			Logger:                 gormlog.Default.LogMode(gormlog.Silent),
			SkipDefaultTransaction: true,
		},
	)
	require.NoError(t, err)

	reg := session.NewRegistry(logger.NewNoOpLogger())
	require.NoError(t, reg.Register(name, &session.SQL{DB: database.NewGormDatabaseWithDB(gdb)}))
	return reg, mock
}

func TestSQLObservationHash(t *testing.T) {
	cb := func(context.Context, *sql.Rows) item.Result { return nil }

	a := NewSQLObservation("main", "SELECT id FROM pages", cb)
	b := NewSQLObservation("main", "SELECT id FROM pages", cb)
	c := NewSQLObservation("main", "SELECT url FROM pages", cb)
	d := NewSQLObservation("replica", "SELECT id FROM pages", cb)

	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Hash(), c.Hash())
	assert.NotEqual(t, a.Hash(), d.Hash())
}

func TestSQLObservationObserveYieldsRows(t *testing.T) {
	reg, mock := sqlSessionRegistry(t, "main")

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, title FROM pages").WillReturnRows(
		sqlmock.NewRows([]string{"id", "title"}).
			AddRow(1, "First").
			AddRow(2, "Second"),
	)
	mock.ExpectCommit()

	obs := NewSQLObservation("main", "SELECT id, title FROM pages",
		func(_ context.Context, rows *sql.Rows) item.Result {
			return func(yield func(item.Item) bool) {
				for rows.Next() {
					var id int
					var title string
					if err := rows.Scan(&id, &title); err != nil {
						panic(err)
					}
					if !yield(fmt.Sprintf("%d:%s", id, title)) {
						return
					}
				}
			}
		})

	result := obs.Observe(context.Background(), stubRuntime{cfg: &config.Config{}, reg: reg})
	require.NotNil(t, result)
	assert.Equal(t, []item.Item{"1:First", "2:Second"}, collect(result))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLObservationObserveQueryError(t *testing.T) {
	reg, mock := sqlSessionRegistry(t, "main")

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT broken").WillReturnError(fmt.Errorf("relation does not exist"))
	mock.ExpectRollback()

	obs := NewSQLObservation("main", "SELECT broken",
		func(context.Context, *sql.Rows) item.Result {
			t.Error("callback must not run on query error")
			return nil
		})

	result := obs.Observe(context.Background(), stubRuntime{cfg: &config.Config{}, reg: reg})
	assert.Nil(t, result)
}

func TestSQLObservationObserveUnknownSession(t *testing.T) {
	reg := session.NewRegistry(logger.NewNoOpLogger())

	obs := NewSQLObservation("missing", "SELECT 1",
		func(context.Context, *sql.Rows) item.Result { return nil })

	result := obs.Observe(context.Background(), stubRuntime{cfg: &config.Config{}, reg: reg})
	assert.Nil(t, result)
}
