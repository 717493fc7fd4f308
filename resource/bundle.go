package resource

import (
	"fmt"
	"io/fs"
	"time"

	"go.etcd.io/bbolt"
)

var bucketModels = []byte("models")

// Bundle is a single-file model store backed by bbolt. One bundle can hold
// every model payload a registry needs.
type Bundle struct {
	db *bbolt.DB
}

// OpenBundle opens a bundle read-only. The file must exist.
func OpenBundle(path string) (*Bundle, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{ReadOnly: true, Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bundle: %w", err)
	}
	return &Bundle{db: db}, nil
}

// CreateBundle opens a bundle for writing, creating the file if needed.
func CreateBundle(path string) (*Bundle, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bundle: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketModels)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket %s: %w", bucketModels, err)
	}

	return &Bundle{db: db}, nil
}

// ReadFile returns a copy of the named payload.
func (b *Bundle) ReadFile(name string) ([]byte, error) {
	var data []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketModels)
		if bucket == nil {
			return fmt.Errorf("resource %q: %w", name, fs.ErrNotExist)
		}
		v := bucket.Get([]byte(cleanName(name)))
		if v == nil {
			return fmt.Errorf("resource %q: %w", name, fs.ErrNotExist)
		}
		// v is only valid inside the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Put stores a payload under name, replacing any previous one.
func (b *Bundle) Put(name string, data []byte) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketModels)
		if bucket == nil {
			return fmt.Errorf("bundle is read-only or missing bucket %s", bucketModels)
		}
		return bucket.Put([]byte(cleanName(name)), data)
	})
}

// Names lists stored payload names in key order.
func (b *Bundle) Names() ([]string, error) {
	var names []string
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketModels)
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

// Close releases the underlying database.
func (b *Bundle) Close() error {
	return b.db.Close()
}
