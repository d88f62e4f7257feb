package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/finlens/loanadvisor/internal/pkg/goerror"
	"github.com/finlens/loanadvisor/internal/pkg/instrument"
	"github.com/finlens/loanadvisor/internal/twofactor/entity"
)

const testSchema = `
CREATE TABLE profiles (
    user_id            TEXT PRIMARY KEY,
    email              TEXT NOT NULL,
    full_name          TEXT NOT NULL DEFAULT '',
    two_factor_enabled BOOLEAN NOT NULL DEFAULT FALSE,
    created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE otp_verifications (
    id         BIGINT PRIMARY KEY,
    user_id    TEXT NOT NULL,
    otp_code   CHAR(6) NOT NULL,
    expires_at TIMESTAMPTZ NOT NULL,
    consumed   BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// newTestDB starts a disposable PostgreSQL container and returns the
// persistence layer wired to it.
func newTestDB(t *testing.T) (*DB, *pgxpool.Pool) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("loanadvisor"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort(nat.Port("5432/tcp")),
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(time.Minute),
		),
	)
	if err != nil {
		t.Skipf("docker not available: %v", err)
	}
	testcontainers.CleanupContainer(t, ctr)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(ctx, testSchema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	return NewDB(pool, instrument.NewNoop()), pool
}

func TestCreateAndGetLatestUnconsumedOTP(t *testing.T) {
	store, _ := newTestDB(t)
	ctx := context.Background()

	expires := time.Now().Add(5 * time.Minute).UTC()

	first := entity.NewOTPRecord{ID: 1, UserID: "user-1", Code: "111111", ExpiresAt: expires}
	if err := store.CreateOTP(ctx, first); err != nil {
		t.Fatalf("CreateOTP(first) error = %v", err)
	}

	// Insertion order breaks the created_at tie for the newest record.
	time.Sleep(10 * time.Millisecond)
	second := entity.NewOTPRecord{ID: 2, UserID: "user-1", Code: "222222", ExpiresAt: expires}
	if err := store.CreateOTP(ctx, second); err != nil {
		t.Fatalf("CreateOTP(second) error = %v", err)
	}

	got, err := store.GetLatestUnconsumedOTP(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetLatestUnconsumedOTP() error = %v", err)
	}
	if got.ID != 2 || got.Code != "222222" || got.Consumed {
		t.Errorf("record = %+v, want the newest unconsumed code", got)
	}
	if d := got.ExpiresAt.Sub(expires); d < -time.Second || d > time.Second {
		t.Errorf("expires_at = %v, want about %v", got.ExpiresAt, expires)
	}
}

func TestGetLatestUnconsumedOTPNotFound(t *testing.T) {
	store, _ := newTestDB(t)

	_, err := store.GetLatestUnconsumedOTP(context.Background(), "nobody")

	if !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestCreateOTPDuplicateID(t *testing.T) {
	store, _ := newTestDB(t)
	ctx := context.Background()

	rec := entity.NewOTPRecord{ID: 9, UserID: "user-1", Code: "333333", ExpiresAt: time.Now().Add(time.Minute)}
	if err := store.CreateOTP(ctx, rec); err != nil {
		t.Fatalf("CreateOTP() error = %v", err)
	}

	err := store.CreateOTP(ctx, rec)
	if !errors.Is(err, goerror.ErrConflict) {
		t.Fatalf("error = %v, want ErrConflict", err)
	}
}

func TestMarkOTPConsumedExcludesFromLookup(t *testing.T) {
	store, _ := newTestDB(t)
	ctx := context.Background()

	rec := entity.NewOTPRecord{ID: 5, UserID: "user-1", Code: "444444", ExpiresAt: time.Now().Add(time.Minute)}
	if err := store.CreateOTP(ctx, rec); err != nil {
		t.Fatalf("CreateOTP() error = %v", err)
	}

	if err := store.MarkOTPConsumed(ctx, 5); err != nil {
		t.Fatalf("MarkOTPConsumed() error = %v", err)
	}

	_, err := store.GetLatestUnconsumedOTP(ctx, "user-1")
	if !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound after consumption", err)
	}
}

func TestEnableSecondFactor(t *testing.T) {
	store, pool := newTestDB(t)
	ctx := context.Background()

	_, err := pool.Exec(ctx,
		`INSERT INTO profiles (user_id, email) VALUES ($1, $2)`, "user-1", "jane@example.com")
	if err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	if err := store.EnableSecondFactor(ctx, "user-1"); err != nil {
		t.Fatalf("EnableSecondFactor() error = %v", err)
	}

	var enabled bool
	err = pool.QueryRow(ctx,
		`SELECT two_factor_enabled FROM profiles WHERE user_id = $1`, "user-1").Scan(&enabled)
	if err != nil {
		t.Fatalf("read flag: %v", err)
	}
	if !enabled {
		t.Error("two_factor_enabled = false, want true")
	}
}
