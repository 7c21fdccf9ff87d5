package gorm

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

const startTimeKey = "pantry:query_start"

// QueryRecorder receives the outcome of every statement GORM executes
type QueryRecorder interface {
	ObserveQuery(operation string, duration time.Duration, err error)
}

// Instrument registers before/after callbacks on db that report each
// create, query, update and delete to rec.
func Instrument(db *gorm.DB, rec QueryRecorder) error {
	cb := db.Callback()

	hooks := []struct {
		operation string
		before    func(name string, fn func(*gorm.DB)) error
		after     func(name string, fn func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
	}

	for _, h := range hooks {
		operation := h.operation
		if err := h.before("pantry:before_"+operation, beforeQuery); err != nil {
			return err
		}
		if err := h.after("pantry:after_"+operation, func(db *gorm.DB) {
			afterQuery(db, operation, rec)
		}); err != nil {
			return err
		}
	}

	return nil
}

func beforeQuery(db *gorm.DB) {
	db.InstanceSet(startTimeKey, time.Now())
}

func afterQuery(db *gorm.DB, operation string, rec QueryRecorder) {
	value, ok := db.InstanceGet(startTimeKey)
	if !ok {
		return
	}
	start, ok := value.(time.Time)
	if !ok {
		return
	}

	err := db.Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = nil
	}
	rec.ObserveQuery(operation, time.Since(start), err)
}
