package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	CredentialsBucket = []byte("credentials") // Lines keyed by append sequence
	MetaBucket        = []byte("meta")        // Format version, timestamps
)

// Meta keys
var (
	MetaVersion  = []byte("version")
	MetaModified = []byte("modified")
)

const boltFormatVersion = "1"

// BoltStore keeps lines in a bbolt database. The database is opened for
// each call and closed before returning.
type BoltStore struct {
	path string
}

// NewBoltStore returns a store backed by the bbolt file at path
func NewBoltStore(path string) *BoltStore {
	return &BoltStore{path: path}
}

// Path returns the database file path
func (s *BoltStore) Path() string {
	return s.path
}

func (s *BoltStore) open() (*bolt.DB, error) {
	db, err := bolt.Open(s.path, FilePermSecure, nil)
	if err != nil {
		return nil, wrapErr("open", s.path, err)
	}
	return db, nil
}

func (s *BoltStore) exists() (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, wrapErr("stat", s.path, err)
}

// ReadAll yields lines in append order. A missing database yields nothing.
func (s *BoltStore) ReadAll(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		ok, err := s.exists()
		if err != nil {
			yield("", err)
			return
		}
		if !ok {
			return
		}

		db, err := s.open()
		if err != nil {
			yield("", err)
			return
		}

		var lines []string
		err = db.View(func(tx *bolt.Tx) error {
			b := tx.Bucket(CredentialsBucket)
			if b == nil {
				return nil
			}
			return b.ForEach(func(_, v []byte) error {
				if err := ctx.Err(); err != nil {
					return err
				}
				// string() copies; v is only valid during the transaction
				lines = append(lines, string(v))
				return nil
			})
		})
		db.Close()

		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				yield("", ctxErr)
				return
			}
			yield("", wrapErr("read", s.path, err))
			return
		}
		yieldAll(lines, yield)
	}
}

// AppendOne stores line after the existing ones
func (s *BoltStore) AppendOne(ctx context.Context, line string) error {
	if err := checkLine(line); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(CredentialsBucket)
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", CredentialsBucket, err)
		}
		if err := putLine(b, line); err != nil {
			return err
		}
		return touch(tx)
	})
	if err != nil {
		return wrapErr("append", s.path, err)
	}
	return nil
}

// WriteAll replaces every stored line in a single transaction
func (s *BoltStore) WriteAll(ctx context.Context, lines []string) error {
	if err := checkLines(lines); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	err = db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(CredentialsBucket) != nil {
			if err := tx.DeleteBucket(CredentialsBucket); err != nil {
				return fmt.Errorf("failed to drop bucket %s: %w", CredentialsBucket, err)
			}
		}
		b, err := tx.CreateBucket(CredentialsBucket)
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", CredentialsBucket, err)
		}
		for _, line := range lines {
			if err := putLine(b, line); err != nil {
				return err
			}
		}
		return touch(tx)
	})
	if err != nil {
		return wrapErr("write", s.path, err)
	}
	return nil
}

func putLine(b *bolt.Bucket, line string) error {
	seq, err := b.NextSequence()
	if err != nil {
		return err
	}
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return b.Put(key, []byte(line))
}

// touch records the format version and last modification time
func touch(tx *bolt.Tx) error {
	meta, err := tx.CreateBucketIfNotExists(MetaBucket)
	if err != nil {
		return err
	}
	if err := meta.Put(MetaVersion, []byte(boltFormatVersion)); err != nil {
		return err
	}
	modified, _ := time.Now().MarshalBinary()
	return meta.Put(MetaModified, modified)
}

// Modified returns the time of the last write, or the zero time if the
// database does not exist yet
func (s *BoltStore) Modified(ctx context.Context) (time.Time, error) {
	var modified time.Time

	ok, err := s.exists()
	if err != nil || !ok {
		return modified, err
	}

	db, err := s.open()
	if err != nil {
		return modified, err
	}
	defer db.Close()

	err = db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket(MetaBucket)
		if meta == nil {
			return nil
		}
		data := meta.Get(MetaModified)
		if data == nil {
			return nil
		}
		return modified.UnmarshalBinary(data)
	})
	if err != nil {
		return time.Time{}, wrapErr("read", s.path, err)
	}
	return modified, nil
}

// Compact creates a compacted copy of the database, removing unused space.
// This is useful after WriteAll has rewritten the bucket.
func (s *BoltStore) Compact(ctx context.Context) error {
	ok, err := s.exists()
	if err != nil || !ok {
		return err
	}

	srcPath := s.path
	tmpPath := srcPath + ".compact"

	src, err := s.open()
	if err != nil {
		return err
	}

	dst, err := bolt.Open(tmpPath, FilePermSecure, nil)
	if err != nil {
		src.Close()
		return wrapErr("create", tmpPath, err)
	}

	// Copy all buckets
	err = src.View(func(srcTx *bolt.Tx) error {
		return dst.Update(func(dstTx *bolt.Tx) error {
			return srcTx.ForEach(func(name []byte, srcBucket *bolt.Bucket) error {
				if err := ctx.Err(); err != nil {
					return err
				}
				dstBucket, err := dstTx.CreateBucketIfNotExists(name)
				if err != nil {
					return err
				}
				if err := dstBucket.SetSequence(srcBucket.Sequence()); err != nil {
					return err
				}
				return srcBucket.ForEach(func(k, v []byte) error {
					return dstBucket.Put(k, v)
				})
			})
		})
	})
	src.Close()

	if err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return wrapErr("compact", srcPath, err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return wrapErr("close", tmpPath, err)
	}

	// Atomic replace
	backupPath := srcPath + ".backup"
	if err := os.Rename(srcPath, backupPath); err != nil {
		os.Remove(tmpPath)
		return wrapErr("backup", srcPath, err)
	}
	if err := os.Rename(tmpPath, srcPath); err != nil {
		os.Rename(backupPath, srcPath) // rollback
		return wrapErr("replace", srcPath, err)
	}
	os.Remove(backupPath)

	return nil
}

// Close is a no-op; the database is only open during a call
func (s *BoltStore) Close() error {
	return nil
}
