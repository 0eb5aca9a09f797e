// Package emulator serves a local stand-in for the GUS DBW
// variable-data-section endpoint, backed by a bbolt database.
package emulator

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/pigeonworks-llc/gus-income/pkg/gus"
	bolt "go.etcd.io/bbolt"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// Bucket names.
const (
	BucketDataset = "dataset"
	BucketRecords = "records"
	BucketFaults  = "faults"
)

// Dataset keys.
const (
	keyVariableID = "variable_id"
	keySectionID  = "section_id"
	keyPeriodID   = "period_id"
)

// Dataset identifies the single variable/section/period the emulator serves.
type Dataset struct {
	VariableID int64
	SectionID  int64
	PeriodID   int64
}

// DefaultDataset matches the ids the client sends by default.
var DefaultDataset = Dataset{VariableID: 1192, SectionID: 1046, PeriodID: 282}

// Store represents the bbolt database wrapper.
type Store struct {
	db *bolt.DB
}

// NewStore opens the database at dbPath and initializes buckets.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := bolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range []string{BucketDataset, BucketRecords, BucketFaults} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dataset returns the stored dataset ids, or DefaultDataset if none were set.
func (s *Store) Dataset() (Dataset, error) {
	ds := DefaultDataset
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketDataset))
		for key, dst := range map[string]*int64{
			keyVariableID: &ds.VariableID,
			keySectionID:  &ds.SectionID,
			keyPeriodID:   &ds.PeriodID,
		} {
			data := b.Get([]byte(key))
			if data == nil {
				continue
			}
			v, err := strconv.ParseInt(string(data), 10, 64)
			if err != nil {
				return fmt.Errorf("corrupt dataset key %s: %w", key, err)
			}
			*dst = v
		}
		return nil
	})
	return ds, err
}

// SetDataset stores the dataset ids.
func (s *Store) SetDataset(ds Dataset) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketDataset))
		for key, v := range map[string]int64{
			keyVariableID: ds.VariableID,
			keySectionID:  ds.SectionID,
			keyPeriodID:   ds.PeriodID,
		} {
			if err := b.Put([]byte(key), []byte(strconv.FormatInt(v, 10))); err != nil {
				return err
			}
		}
		return nil
	})
}

// PutYear replaces all records of a year.
func (s *Store) PutYear(year int, records []gus.Record) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(records)
		if err != nil {
			return fmt.Errorf("failed to marshal records: %w", err)
		}
		return tx.Bucket([]byte(BucketRecords)).Put(itob(int64(year)), data)
	})
}

// GetYear returns the records of a year in stored order.
// A year that was never stored yields ErrNotFound.
func (s *Store) GetYear(year int) ([]gus.Record, error) {
	var records []gus.Record
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(BucketRecords)).Get(itob(int64(year)))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &records)
	})
	return records, err
}

// Years lists stored years in ascending order.
func (s *Store) Years() ([]int, error) {
	var years []int
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketRecords)).ForEach(func(k, _ []byte) error {
			years = append(years, int(btoi(k)))
			return nil
		})
	})
	return years, err
}

// SetFault makes requests for year answer with the given HTTP status.
// A status of 0 clears the fault.
func (s *Store) SetFault(year, status int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketFaults))
		if status == 0 {
			return b.Delete(itob(int64(year)))
		}
		return b.Put(itob(int64(year)), []byte(strconv.Itoa(status)))
	})
}

// Fault returns the injected status for year, or 0.
func (s *Store) Fault(year int) (int, error) {
	var status int
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(BucketFaults)).Get(itob(int64(year)))
		if data == nil {
			return nil
		}
		v, err := strconv.Atoi(string(data))
		if err != nil {
			return fmt.Errorf("corrupt fault for %d: %w", year, err)
		}
		status = v
		return nil
	})
	return status, err
}

// Reset empties the records and faults buckets.
func (s *Store) Reset() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range []string{BucketRecords, BucketFaults} {
			if err := tx.DeleteBucket([]byte(bucket)); err != nil {
				return fmt.Errorf("failed to drop bucket %s: %w", bucket, err)
			}
			if _, err := tx.CreateBucket([]byte(bucket)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
}

// sortedYears returns the keys of m in ascending order.
func sortedYears[V any](m map[int]V) []int {
	years := make([]int, 0, len(m))
	for y := range m {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// itob converts an int64 to a byte slice for use as a bbolt key.
func itob(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

func btoi(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b))
}
