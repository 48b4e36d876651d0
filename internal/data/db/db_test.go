package db

import (
	"testing"

	"github.com/yungbote/orderdesk-backend/internal/pkg/logger"
)

func TestSQLiteDSN(t *testing.T) {
	if got := SQLiteDSN(""); got != "file::memory:?cache=shared&_foreign_keys=on&_busy_timeout=5000" {
		t.Fatalf("memory dsn: %q", got)
	}
	if got := SQLiteDSN("/tmp/orderdesk.db"); got != "file:/tmp/orderdesk.db?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000" {
		t.Fatalf("file dsn: %q", got)
	}
	if got := SQLiteDSN("file:x.db?mode=ro"); got != "file:x.db?mode=ro" {
		t.Fatalf("explicit dsn must pass through: %q", got)
	}
}

func TestPostgresDSN(t *testing.T) {
	got := PostgresDSN(Config{PostgresUser: "u", PostgresPassword: "p", PostgresHost: "h", PostgresPort: "5432", PostgresName: "orders"})
	if got != "postgres://u:p@h:5432/orders?sslmode=disable" {
		t.Fatalf("postgres dsn: %q", got)
	}
}

func TestNewServiceSQLiteMigrates(t *testing.T) {
	svc, err := NewService(logger.Nop(), Config{Driver: DriverSQLite, SQLitePath: t.TempDir() + "/orderdesk.db"})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	if svc.Driver() != DriverSQLite {
		t.Fatalf("driver: got=%q", svc.Driver())
	}
	if err := AutoMigrateAll(svc.DB()); err != nil {
		t.Fatalf("AutoMigrateAll: %v", err)
	}
	for _, table := range []string{"customers", "legal_identities", "catalog_items", "orders", "order_lines", "outbox_events"} {
		if !svc.DB().Migrator().HasTable(table) {
			t.Fatalf("missing table %s", table)
		}
	}
}

func TestNewServiceRejectsUnknownDriver(t *testing.T) {
	if _, err := NewService(logger.Nop(), Config{Driver: "oracle"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
