package postgres

import (
	"context"
	"strings"

	"marketplace/internal/adapters/out/postgres/jobrepo"
	"marketplace/internal/adapters/out/postgres/paymentrepo"
	"marketplace/internal/adapters/out/postgres/reviewrepo"
	"marketplace/internal/adapters/out/postgres/userrepo"
	"marketplace/internal/adapters/out/postgres/withdrawrepo"

	"gorm.io/gorm"
)

// models lists every persisted DTO in dependency order.
func models() []any {
	return []any{
		&userrepo.UserDTO{},
		&jobrepo.JobDTO{},
		&jobrepo.DropOffDTO{},
		&jobrepo.QuitDTO{},
		&paymentrepo.EntryDTO{},
		&withdrawrepo.WithdrawDTO{},
		&reviewrepo.ReviewDTO{},
	}
}

// Migrate creates or updates the schema.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(models()...)
}

// Truncate empties every table. Used by integration tests.
func Truncate(ctx context.Context, db *gorm.DB) error {
	tables := make([]string, 0, len(models()))
	for _, m := range models() {
		if t, ok := m.(interface{ TableName() string }); ok {
			tables = append(tables, t.TableName())
		}
	}
	return db.WithContext(ctx).Exec("TRUNCATE TABLE " + strings.Join(tables, ", ") + " CASCADE").Error
}
