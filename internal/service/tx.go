package service

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// runTx executes fn inside a DB transaction.
// If db is nil (unit tests with mock repos), fn is called with a nil tx.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

const fechaISO = "2006-01-02T15:04:05Z07:00"

func iso(t time.Time) string { return t.Format(fechaISO) }

func isoPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := iso(*t)
	return &s
}
