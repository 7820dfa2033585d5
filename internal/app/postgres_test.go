package app

import (
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/guttosm/ofxpulse/config"
)

func testPostgresConfig() config.Config {
	return config.Config{Postgres: config.PostgresConfig{User: "u", Password: "p", Host: "h", Port: 5432, DBName: "d", SSLMode: "disable"}}
}

func TestInitPostgres_OpenError(t *testing.T) {
	old := sqlOpener
	sqlOpener = func(driverName, dataSourceName string) (*sql.DB, error) {
		return nil, errors.New("open failed")
	}
	t.Cleanup(func() { sqlOpener = old })

	_, err := InitPostgres(testPostgresConfig())
	if err == nil || !strings.Contains(err.Error(), "open") {
		t.Fatalf("expected open error from InitPostgres, got %v", err)
	}
}

func TestInitPostgres_DSN(t *testing.T) {
	var gotDriver, gotDSN string
	old := sqlOpener
	sqlOpener = func(driverName, dataSourceName string) (*sql.DB, error) {
		gotDriver, gotDSN = driverName, dataSourceName
		return nil, errors.New("stop")
	}
	t.Cleanup(func() { sqlOpener = old })

	_, _ = InitPostgres(testPostgresConfig())
	if gotDriver != "postgres" || gotDSN != "postgres://u:p@h:5432/d?sslmode=disable" {
		t.Fatalf("unexpected driver/dsn: %s %s", gotDriver, gotDSN)
	}
}

func TestInitPostgres_PingError(t *testing.T) {
	var mock sqlmock.Sqlmock
	old := sqlOpener
	sqlOpener = func(driverName, dataSourceName string) (*sql.DB, error) {
		db, m, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		if err != nil {
			t.Fatalf("sqlmock new: %v", err)
		}
		mock = m
		mock.ExpectPing().WillReturnError(errors.New("ping failed"))
		mock.ExpectClose()
		return db, nil
	}
	t.Cleanup(func() { sqlOpener = old })

	_, err := InitPostgres(testPostgresConfig())
	if err == nil || !strings.Contains(err.Error(), "ping") {
		t.Fatalf("expected ping error from InitPostgres, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("handle should be closed after failed ping: %v", err)
	}
}

func TestInitPostgres_Success(t *testing.T) {
	old := sqlOpener
	var mock sqlmock.Sqlmock
	sqlOpener = func(driverName, dataSourceName string) (*sql.DB, error) {
		db, m, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		if err != nil {
			t.Fatalf("sqlmock new: %v", err)
		}
		mock = m
		mock.ExpectPing()
		return db, nil
	}
	t.Cleanup(func() { sqlOpener = old })

	db, err := InitPostgres(testPostgresConfig())
	if err != nil || db == nil {
		t.Fatalf("unexpected: db=%v err=%v", db, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
	_ = db.Close()
}
