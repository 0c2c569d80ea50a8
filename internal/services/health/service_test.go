package health

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStatusWithoutDatabase(t *testing.T) {
	got := NewService("dev", "placeholder", false, nil).Status(context.Background())
	if !got.OK || got.Database != "disabled" || got.Provider != "placeholder" {
		t.Fatalf("unexpected status: %+v", got)
	}
}

func TestStatusPingsDatabase(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer sqlDB.Close()

	mock.ExpectPing()
	got := NewService("production", "openai", true, sqlDB).Status(context.Background())
	if !got.OK || got.Database != "ok" {
		t.Fatalf("unexpected status: %+v", got)
	}

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	got = NewService("production", "openai", true, sqlDB).Status(context.Background())
	if got.OK || got.Database != "unreachable" {
		t.Fatalf("expected unreachable database, got %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
