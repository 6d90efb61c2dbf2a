package database

import (
	"context"
	"path/filepath"
	"testing"
)

func TestConnectSQLite(t *testing.T) {
	db, err := ConnectSQL(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("ConnectSQL failed: %v", err)
	}
	defer db.Close()

	var one int
	if err := db.QueryRow("SELECT 1").Scan(&one); err != nil || one != 1 {
		t.Fatalf("SELECT 1 = %d, %v", one, err)
	}
}

func TestConnectSQLUnsupportedDriver(t *testing.T) {
	if _, err := ConnectSQL(context.Background(), "oracle", "whatever"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestConnectSQLiteMissingDirectory(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "missing", "dir", "test.db")
	if _, err := ConnectSQL(context.Background(), DriverSQLite, dsn); err == nil {
		t.Fatal("expected ping failure for unreachable sqlite path")
	}
}
