package database

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Fixture is one entry of a fixture file: a table name plus the rows to
// insert. The file format is a JSON list of these objects.
type Fixture struct {
	Name string           `json:"name"`
	Data []map[string]any `json:"data"`
}

// LoadFixtures reads a fixture file and inserts every row into the table the
// entry names. Rows are written in file order inside one transaction per
// file, so a malformed fixture leaves the store untouched.
func LoadFixtures(ctx context.Context, db Database, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading fixture file %s: %w", path, err)
	}

	var fixtures []Fixture
	if err := json.Unmarshal(raw, &fixtures); err != nil {
		return fmt.Errorf("parsing fixture file %s: %w", path, err)
	}

	return db.Atomic(ctx, func(ctx context.Context) error {
		for _, f := range fixtures {
			if f.Name == "" {
				return fmt.Errorf("fixture entry without a table name in %s", path)
			}
			for _, row := range f.Data {
				if err := db.WithContext(ctx).Table(f.Name).Create(row).Error; err != nil {
					return MapDBError(err)
				}
			}
		}
		return nil
	})
}
