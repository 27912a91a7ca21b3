package boltdb

import (
	"fmt"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/storecrew/timeclock/internal/domain/attendance"
)

var (
	bucketCheckedIn  = []byte("checked_in")
	bucketCheckedOut = []byte("checked_out")
)

// ledger implements attendance.Ledger on a local bbolt file. Markers are
// stored under employeeID/day/shiftID keys, value is the RFC3339 instant
// the marker was written.
type ledger struct {
	db *bolt.DB
}

func NewLedger(path string) (attendance.Ledger, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger file: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketCheckedIn); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketCheckedOut)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize ledger buckets: %w", err)
	}

	return &ledger{db: db}, nil
}

func markerKey(employeeID, day string, shiftID int64) []byte {
	return []byte(fmt.Sprintf("%s/%s/%d", employeeID, day, shiftID))
}

// MarkCheckedIn implements attendance.Ledger.
func (l *ledger) MarkCheckedIn(employeeID, day string, shiftID int64) error {
	return l.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCheckedIn).Put(markerKey(employeeID, day, shiftID), []byte(time.Now().UTC().Format(time.RFC3339)))
	})
}

// MarkCheckedOut implements attendance.Ledger. The CHECKED_IN marker for
// the same key is removed in the same transaction; repeating the call
// leaves the ledger unchanged.
func (l *ledger) MarkCheckedOut(employeeID, day string, shiftID int64) error {
	key := markerKey(employeeID, day, shiftID)
	return l.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketCheckedIn).Delete(key); err != nil {
			return err
		}
		return tx.Bucket(bucketCheckedOut).Put(key, []byte(time.Now().UTC().Format(time.RFC3339)))
	})
}

// IsCheckedIn implements attendance.Ledger.
func (l *ledger) IsCheckedIn(employeeID, day string, shiftID int64) (bool, error) {
	return l.has(bucketCheckedIn, employeeID, day, shiftID)
}

// IsCheckedOut implements attendance.Ledger.
func (l *ledger) IsCheckedOut(employeeID, day string, shiftID int64) (bool, error) {
	return l.has(bucketCheckedOut, employeeID, day, shiftID)
}

func (l *ledger) has(bucket []byte, employeeID, day string, shiftID int64) (bool, error) {
	var found bool
	err := l.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(bucket).Get(markerKey(employeeID, day, shiftID)) != nil
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to read ledger: %w", err)
	}
	return found, nil
}

// Prune implements attendance.Ledger. Keys whose day segment does not
// parse are dropped as well; they cannot be trusted.
func (l *ledger) Prune(cutoff time.Time) (int, error) {
	cutoffDay := cutoff.Format("2006-01-02")
	removed := 0

	err := l.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketCheckedIn, bucketCheckedOut} {
			b := tx.Bucket(name)

			var stale [][]byte
			c := b.Cursor()
			for k, _ := c.First(); k != nil; k, _ = c.Next() {
				parts := strings.SplitN(string(k), "/", 3)
				if len(parts) != 3 || parts[1] < cutoffDay {
					stale = append(stale, append([]byte(nil), k...))
				}
			}

			for _, k := range stale {
				if err := b.Delete(k); err != nil {
					return err
				}
				removed++
			}
		}
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("failed to prune ledger: %w", err)
	}

	return removed, nil
}

func (l *ledger) Close() error {
	return l.db.Close()
}
