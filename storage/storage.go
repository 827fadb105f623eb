// Package storage opens the relational database and runs migrations.
package storage

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	sessionrepogorm "github.com/jrsteele09/go-blog-auth/sessions/repogorm"
	userrepogorm "github.com/jrsteele09/go-blog-auth/users/repogorm"
)

// Open connects to the database behind dsn and migrates the schema. SQLite
// DSNs (":memory:", "file:...") get the sqlite driver, everything else is
// treated as Postgres.
func Open(dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		dialector = sqlite.Open(dsn)
	} else {
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "[storage.Open] gorm.Open")
	}

	if err := userrepogorm.Migrate(db); err != nil {
		return nil, errors.Wrap(err, "[storage.Open] migrating users")
	}
	if err := sessionrepogorm.Migrate(db); err != nil {
		return nil, errors.Wrap(err, "[storage.Open] migrating refresh sessions")
	}

	return db, nil
}
