package db

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useMockDriver(t *testing.T, open func() (*sql.DB, error)) {
	t.Helper()
	prev := openDB
	openDB = func(name, dsn string) (*sql.DB, error) {
		return open()
	}
	t.Cleanup(func() { openDB = prev })
}

func mockOpener() (*sql.DB, error) {
	db, _, err := sqlmock.New()
	return db, err
}

func resetSingleton(t *testing.T) {
	t.Helper()
	singletonMu.Lock()
	singletonDB = nil
	singletonInFly = false
	singletonMu.Unlock()
	t.Cleanup(func() {
		singletonMu.Lock()
		singletonDB = nil
		singletonMu.Unlock()
	})
}

func TestConnectRejectsEmptyURL(t *testing.T) {
	_, err := Connect(context.Background(), "  ", DefaultServerOptions())
	assert.Error(t, err)
}

func TestConnectAppliesPresetPools(t *testing.T) {
	useMockDriver(t, mockOpener)

	cases := []struct {
		name    string
		opts    Options
		maxOpen int
	}{
		{"server", DefaultServerOptions(), 10},
		{"lambda", DefaultLambdaOptions(), 2},
		{"migrate and ritualctl", DefaultMigrateOptions(), 1},
		{"zero values fall back", Options{}, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, err := Connect(context.Background(), "postgres://ritual", tc.opts)
			require.NoError(t, err)
			defer db.Close()
			assert.Equal(t, tc.maxOpen, db.Stats().MaxOpenConnections)
		})
	}
}

func TestConnectClosesOnPingFailure(t *testing.T) {
	var mock sqlmock.Sqlmock
	useMockDriver(t, func() (*sql.DB, error) {
		db, m, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		mock = m
		if err == nil {
			m.ExpectPing().WillReturnError(errors.New("connection refused"))
			m.ExpectClose()
		}
		return db, err
	})

	_, err := Connect(context.Background(), "postgres://ritual", DefaultMigrateOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping database")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOptionsFromEnvAppliesOverrides(t *testing.T) {
	useMockDriver(t, mockOpener)
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_MAX_IDLE_CONNS", "3")
	t.Setenv("DB_CONN_MAX_LIFETIME", "20m")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "45s")
	t.Setenv("DB_PING_TIMEOUT", "1s")

	opts := OptionsFromEnv(DefaultServerOptions())
	assert.Equal(t, Options{
		MaxOpenConns:    7,
		MaxIdleConns:    3,
		ConnMaxLifetime: 20 * time.Minute,
		ConnMaxIdleTime: 45 * time.Second,
		PingTimeout:     time.Second,
	}, opts)

	db, err := Connect(context.Background(), "postgres://ritual", opts)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, 7, db.Stats().MaxOpenConnections)
}

func TestOptionsFromEnvKeepsPresetOnMalformedValues(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "many")
	t.Setenv("DB_CONN_MAX_LIFETIME", "forever")
	t.Setenv("DB_PING_TIMEOUT", "")

	assert.Equal(t, DefaultMigrateOptions(), OptionsFromEnv(DefaultMigrateOptions()))
}

func TestGetSingletonReturnsSamePointer(t *testing.T) {
	useMockDriver(t, mockOpener)
	resetSingleton(t)

	db1, err := GetSingleton(context.Background(), "postgres://ritual", DefaultLambdaOptions())
	require.NoError(t, err)
	db2, err := GetSingleton(context.Background(), "postgres://ritual", DefaultLambdaOptions())
	require.NoError(t, err)
	assert.Same(t, db1, db2)
}

func TestGetSingletonRetriesAfterFailure(t *testing.T) {
	var calls atomic.Int32
	useMockDriver(t, func() (*sql.DB, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("dns lookup failed")
		}
		return mockOpener()
	})
	resetSingleton(t)

	_, err := GetSingleton(context.Background(), "postgres://ritual", DefaultLambdaOptions())
	require.Error(t, err)

	db, err := GetSingleton(context.Background(), "postgres://ritual", DefaultLambdaOptions())
	require.NoError(t, err)
	assert.NotNil(t, db)
	assert.Equal(t, int32(2), calls.Load())
}
