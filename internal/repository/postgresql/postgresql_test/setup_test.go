package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ledger-backend-go/internal/repository/postgresql"
)

// newTestDatabase connects to TEST_DATABASE_URL, applies the schema and
// empties the tables. Tests are skipped when the variable is unset.
func newTestDatabase(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(db.Close)

	if err := postgresql.Migrate(ctx, db); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}
	if err := truncateAllTables(ctx, db); err != nil {
		t.Fatalf("failed to reset tables: %v", err)
	}
	return db
}

func truncateAllTables(ctx context.Context, db *database.DB) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"transactions", "time_logs", "employees"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}
