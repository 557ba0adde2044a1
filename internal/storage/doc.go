// Package storage persists credential lines, one record per line, in the
// order they were written.
//
// Backends:
//   - FileStore: flat UTF-8 text file, '\n' separated (the reference format)
//   - BoltStore: bbolt bucket keyed by append sequence
//   - SQLiteStore: SQLite table migrated with goose
//   - RedisStore: Redis list
//
// Every backend treats a resource that does not exist yet as empty on read
// and creates it on first write. I/O failures wrap ErrStorage.
//
// FileStore opens the file per call and holds nothing between calls. It
// does not lock the file; concurrent writers from several processes must
// use the bolt, sqlite or redis backend, which serialize writes natively.
package storage
