package db

import (
	"database/sql"
	"database/sql/driver"
	"fmt"

	"modernc.org/sqlite"

	"github.com/erazemk/katalog/internal/query"
)

// FoldFunc is the SQL function applying query.Fold, so text matching in SQL
// uses the same case folding as in-memory matching.
const FoldFunc = "casefold"

func init() {
	err := sqlite.RegisterDeterministicScalarFunction(FoldFunc, 1,
		func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			switch v := args[0].(type) {
			case string:
				return query.Fold(v), nil
			case []byte:
				return query.Fold(string(v)), nil
			case nil:
				return nil, nil
			default:
				return query.Fold(fmt.Sprint(v)), nil
			}
		})
	if err != nil {
		panic(fmt.Sprintf("registering %s: %v", FoldFunc, err))
	}
}

// Open opens a SQLite database connection and configures pragmas.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	return db, nil
}
