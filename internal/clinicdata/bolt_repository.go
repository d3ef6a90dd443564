package clinicdata

import (
	"context"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

var (
	boltBucket = []byte("clinic")
	boltKey    = []byte("document")
)

// BoltRepository keeps the whole document under one key in a bbolt database.
// Same whole-document semantics as the file backing, but each Save is a real
// transaction instead of a bare file overwrite.
type BoltRepository struct {
	db *bolt.DB
}

// OpenBoltRepository opens (or creates) the database at path.
func OpenBoltRepository(path string) (*BoltRepository, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("clinicdata: open bolt db %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("clinicdata: init bolt bucket: %w", err)
	}
	return &BoltRepository{db: db}, nil
}

// Close releases the underlying database handle.
func (r *BoltRepository) Close() error {
	return r.db.Close()
}

// Load reads the stored document, seeding the database on first run.
func (r *BoltRepository) Load(ctx context.Context) (*Document, error) {
	var data []byte
	if err := r.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(boltBucket).Get(boltKey); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("clinicdata: read bolt document: %w", err)
	}
	if data == nil {
		doc := SeedDocument()
		if err := r.Save(ctx, doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("clinicdata: parse bolt document: %w", err)
	}
	return &doc, nil
}

// Save overwrites the stored document in one transaction.
func (r *BoltRepository) Save(ctx context.Context, doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("clinicdata: marshal document: %w", err)
	}
	if err := r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Put(boltKey, data)
	}); err != nil {
		return fmt.Errorf("clinicdata: write bolt document: %w", err)
	}
	return nil
}
