package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type nopDriver struct{}

func (d nopDriver) Open(name string) (driver.Conn, error) {
	return nopConn{}, nil
}

type nopConn struct{}

func (nopConn) Prepare(query string) (driver.Stmt, error) { return nopStmt{}, nil }
func (nopConn) Close() error                              { return nil }
func (nopConn) Begin() (driver.Tx, error)                 { return nopTx{}, nil }
func (nopConn) Ping(ctx context.Context) error            { return nil }

type nopStmt struct{}

func (nopStmt) Close() error                                    { return nil }
func (nopStmt) NumInput() int                                   { return -1 }
func (nopStmt) Exec(args []driver.Value) (driver.Result, error) { return driver.RowsAffected(0), nil }
func (nopStmt) Query(args []driver.Value) (driver.Rows, error)  { return nil, driver.ErrSkip }

type nopTx struct{}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

var registerTestDriverOnce sync.Once

func withTestDriver(t *testing.T) {
	t.Helper()
	registerTestDriverOnce.Do(func() {
		sql.Register("dbtest", nopDriver{})
	})
	prev := openDB
	openDB = func(name, dsn string) (*sql.DB, error) {
		return sql.Open("dbtest", dsn)
	}
	t.Cleanup(func() { openDB = prev })
}

func TestConnectRequiresURL(t *testing.T) {
	if _, err := Connect(context.Background(), "  ", DefaultServerOptions()); !errors.Is(err, ErrMissingURL) {
		t.Fatalf("expected ErrMissingURL, got %v", err)
	}
}

func TestOptionsFromEnvAppliesOverrides(t *testing.T) {
	withTestDriver(t)

	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_MAX_IDLE_CONNS", "3")
	t.Setenv("DB_CONN_MAX_LIFETIME", "20m")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "45s")
	t.Setenv("DB_PING_TIMEOUT", "1s")

	opts := OptionsFromEnv(DefaultWorkerOptions())
	db, err := Connect(context.Background(), "ignored", opts)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer db.Close()

	if stats := db.Stats(); stats.MaxOpenConnections != 7 {
		t.Fatalf("expected MaxOpenConnections=7, got %d", stats.MaxOpenConnections)
	}
	if opts.MaxIdleConns != 3 || opts.ConnMaxLifetime != 20*time.Minute || opts.ConnMaxIdleTime != 45*time.Second || opts.PingTimeout != time.Second {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestOptionsFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "many")
	t.Setenv("DB_PING_TIMEOUT", "soon")

	opts := OptionsFromEnv(DefaultServerOptions())
	if opts.MaxOpenConns != DefaultServerOptions().MaxOpenConns || opts.PingTimeout != defaultPingTimeout {
		t.Fatalf("invalid env values must keep defaults: %+v", opts)
	}
}

func TestPingNilDatabase(t *testing.T) {
	if err := Ping(context.Background(), nil, 0); err == nil {
		t.Fatalf("expected error for nil database")
	}
}

func TestMigrateNilDatabaseIsNoop(t *testing.T) {
	if err := RunMigrations(context.Background(), nil); err != nil {
		t.Fatalf("expected nil database to be a no-op, got %v", err)
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	names, err := MigrationNames()
	if err != nil {
		t.Fatalf("MigrationNames: %v", err)
	}
	if len(names) == 0 || !strings.HasSuffix(names[0], "00001_init.sql") {
		t.Fatalf("unexpected migrations: %v", names)
	}
	body, err := migrationFiles.ReadFile(names[0])
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	for _, table := range []string{"healthcare_organizations", "strategic_initiatives", "sim_analyses", "members", "analysis_credits"} {
		if !strings.Contains(string(body), "CREATE TABLE IF NOT EXISTS "+table) {
			t.Fatalf("migration missing table %s", table)
		}
	}
}

func TestMigrateCommands(t *testing.T) {
	got := strings.Join(MigrateCommands(), ",")
	if got != "up,down,status,redo,version" {
		t.Fatalf("unexpected commands %q", got)
	}
}
