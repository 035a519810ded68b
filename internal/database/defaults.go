package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/retrodev-essonne/retrobus-finance/internal/database/repository"
)

// SeedDefaults ensures baseline categories exist for new databases.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	catRepo := repository.NewCategoryRepo(db)
	existing, err := catRepo.List(ctx)
	if err == nil && len(existing) > 0 {
		return nil
	}
	defaults := []string{
		"Member dues",
		"Subsidies",
		"Events",
		"Merchandise",
		"Vehicle maintenance",
		"Fuel",
		"Insurance",
		"Storage & hangar",
		"Administrative",
	}
	for idx, name := range defaults {
		id := uuid.NewSHA1(uuid.NameSpaceOID, []byte("cat:"+name)).String()
		if err := catRepo.Upsert(ctx, repository.Category{ID: id, Name: name, SortOrder: idx}); err != nil {
			return err
		}
	}
	return nil
}
