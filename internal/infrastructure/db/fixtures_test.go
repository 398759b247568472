package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlog "gorm.io/gorm/logger"
)

func mockDatabase(t *testing.T) (Database, sqlmock.Sqlmock) {
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

	return NewGormDatabaseWithDB(gdb), mock
}

func writeFixtureFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFixturesInsertsRows(t *testing.T) {
	db, mock := mockDatabase(t)

	path := writeFixtureFile(t, `[
		{
			"name": "pages",
			"data": [
				{"title": "Alice", "url": "https://example.test/a"},
				{"title": "Bob", "url": "https://example.test/b"}
			]
		}
	]`)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "pages"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO "pages"`).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, LoadFixtures(context.Background(), db, path))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadFixturesRollsBackOnInsertError(t *testing.T) {
	db, mock := mockDatabase(t)

	path := writeFixtureFile(t, `[
		{"name": "pages", "data": [{"title": "Alice"}]}
	]`)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "pages"`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	assert.Error(t, LoadFixtures(context.Background(), db, path))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadFixturesRejectsMalformedFile(t *testing.T) {
	db, _ := mockDatabase(t)

	path := writeFixtureFile(t, `{"not": "a list"}`)
	assert.Error(t, LoadFixtures(context.Background(), db, path))
}

func TestLoadFixturesRejectsMissingTableName(t *testing.T) {
	db, mock := mockDatabase(t)

	path := writeFixtureFile(t, `[{"data": [{"title": "Alice"}]}]`)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Error(t, LoadFixtures(context.Background(), db, path))
}

func TestLoadFixturesMissingFile(t *testing.T) {
	db, _ := mockDatabase(t)
	assert.Error(t, LoadFixtures(context.Background(), db, filepath.Join(t.TempDir(), "absent.json")))
}
