//go:build !cgo_sqlite

package ledger

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// Open opens the ledger database with the pure-Go SQLite driver.
func Open(dataSource string) (*sql.DB, error) {
	return sql.Open("sqlite", dataSource)
}
