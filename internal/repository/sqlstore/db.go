// Package sqlstore implements the repository interfaces on gorm. The SQL
// stays portable across the mysql, postgres and sqlite dialectors.
package sqlstore

import (
	"context"

	"gorm.io/gorm"
)

func pick(ctx context.Context, db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

func inTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}
