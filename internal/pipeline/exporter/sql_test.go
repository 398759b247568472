package exporter

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlog "gorm.io/gorm/logger"

	database "lantern/etl-core/internal/infrastructure/db"
	"lantern/etl-core/internal/infrastructure/logger"
	"lantern/etl-core/internal/session"
)

type pageRow struct {
	ID    uint   `gorm:"column:id;primaryKey;autoIncrement"`
	URL   string `gorm:"column:url"`
	Title string `gorm:"column:title"`
}

func (pageRow) TableName() string { return "pages" }

func sqlSession(t *testing.T) (*session.SQL, sqlmock.Sqlmock) {
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

	return &session.SQL{DB: database.NewGormDatabaseWithDB(gdb)}, mock
}

func TestSQLExporterWritesRowInTransaction(t *testing.T) {
	sess, mock := sqlSession(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "pages"`).
		WithArgs("https://example.test/", "T").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	exp := NewSQLExporter("main", &pageRow{URL: "https://example.test/", Title: "T"})
	require.NoError(t, exp.Export(context.Background(), sess))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLExporterBatchRollsBackOnFailure(t *testing.T) {
	sess, mock := sqlSession(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "pages"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO "pages"`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	exp := NewSQLExporter("main",
		&pageRow{URL: "https://example.test/a", Title: "A"},
		&pageRow{URL: "https://example.test/b", Title: "B"},
	)
	assert.Error(t, exp.Export(context.Background(), sess))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLExporterRejectsWrongSessionKind(t *testing.T) {
	exp := NewSQLExporter("main", &pageRow{})
	err := exp.Export(context.Background(), &session.TimeSeries{})
	assert.Error(t, err)
}

func TestSQLExporterIdentityStable(t *testing.T) {
	exp := NewSQLExporter("main", &pageRow{})
	assert.Equal(t, exp.Identity(), exp.Identity())

	other := NewSQLExporter("main", &pageRow{})
	assert.NotEqual(t, exp.Identity(), other.Identity())
}
