package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const boltBucketStorage = "storage" // key: storage key -> raw value

type Bolt struct {
	db *bbolt.DB
}

// NewBolt opens (creating if needed) a BoltDB file at path.
func NewBolt(path string) (*Bolt, error) {
	if path == "" {
		return nil, errors.New("bolt path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if errors.Is(err, bbolt.ErrTimeout) {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}

	if err != nil {
		return nil, fmt.Errorf("opening bolt database: %w", err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucketStorage))

		return err
	}); err != nil {
		_ = db.Close()

		return nil, err
	}

	return &Bolt{db: db}, nil
}

func (b *Bolt) Ping() error {
	return b.db.View(func(tx *bbolt.Tx) error {
		return nil
	})
}

func (b *Bolt) Get(key string) (string, bool, error) {
	var (
		value string
		found bool
	)

	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(boltBucketStorage)).Get([]byte(key))
		if v == nil {
			return nil
		}

		// v is only valid for the life of the transaction
		value = string(v)
		found = true

		return nil
	})

	return value, found, err
}

func (b *Bolt) Set(key, value string) error {
	if key == "" {
		return errors.New("key is required")
	}

	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketStorage)).Put([]byte(key), []byte(value))
	})
}

func (b *Bolt) Remove(key string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketStorage)).Delete([]byte(key))
	})
}

func (b *Bolt) Keys() ([]string, error) {
	var out []string

	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketStorage)).ForEach(func(k, _ []byte) error {
			out = append(out, string(k))

			return nil
		})
	})

	return out, err
}

func (b *Bolt) Close() error {
	return b.db.Close()
}
