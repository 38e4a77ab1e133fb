package service_test

import (
	"testing"

	"github.com/ndewijer/stock-ledger/internal/testutil"
)

func TestSystemService_CheckHealth(t *testing.T) {
	t.Run("healthy database", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSystemService(t, db)

		if err := svc.CheckHealth(); err != nil {
			t.Errorf("CheckHealth() returned unexpected error: %v", err)
		}
	})

	t.Run("closed database", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSystemService(t, db)
		db.Close()

		if err := svc.CheckHealth(); err == nil {
			t.Error("Expected error for closed database, got nil")
		}
	})
}
