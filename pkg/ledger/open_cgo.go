//go:build cgo_sqlite

package ledger

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens the ledger database with the cgo SQLite driver.
func Open(dataSource string) (*sql.DB, error) {
	return sql.Open("sqlite3", dataSource)
}
