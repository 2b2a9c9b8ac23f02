// Package store persists rules.
//
// Two backends implement Store:
//
//   - MemoryStore keeps rules in a map and is used for tests and for
//     running without a database.
//   - SQLiteStore keeps rules in a SQLite file through database/sql with
//     either modernc.org/sqlite (driver "sqlite", pure Go, the default) or
//     github.com/mattn/go-sqlite3 (driver "sqlite3", cgo).
//
// Rule names are unique in both backends; saving a second rule under a
// taken name fails with ErrDuplicateName. Saving a rule whose ID already
// exists replaces it. Trees are stored as JSON and decode into trees equal
// to the ones saved.
//
//	s, err := store.New(cfg.Store, logger)
//	if err != nil {
//		return err
//	}
//	defer s.Close()
package store
