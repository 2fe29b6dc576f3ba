package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"credify-backend/internal/adapter/repository/mysql"
	"credify-backend/internal/domain/loan"
	"credify-backend/internal/domain/otp"
	"credify-backend/internal/infrastructure/db"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenGormWithDialector(sqlite.Open("file::memory:"))
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

func execute(t *testing.T, gdb *gorm.DB, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(func() (*gorm.DB, error) { return gdb, nil })
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestMigrate(t *testing.T) {
	gdb := testDB(t)
	out := execute(t, gdb, "migrate")
	require.Contains(t, out, "migrated")
	require.True(t, gdb.Migrator().HasTable(&loan.Loan{}))
}

func TestOTPPurge(t *testing.T) {
	gdb := testDB(t)
	require.NoError(t, mysql.AutoMigrate(gdb))

	repo := mysql.NewOTPRepository(gdb)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &otp.Record{
		Email: "old@example.com", Code: "123456", Purpose: otp.PurposeBorrowerLogin,
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}))
	require.NoError(t, repo.Create(ctx, &otp.Record{
		Email: "new@example.com", Code: "654321", Purpose: otp.PurposeBorrowerLogin,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}))

	out := execute(t, gdb, "otp", "purge")
	require.Equal(t, "purged 1 expired codes\n", out)
}

func TestLoansList(t *testing.T) {
	gdb := testDB(t)
	require.NoError(t, mysql.AutoMigrate(gdb))

	repo := mysql.NewLoanRepository(gdb)
	ctx := context.Background()
	for _, l := range []*loan.Loan{
		{Amount: 10000, Purpose: "Shop fit-out", Duration: 6, MaxRate: 12, Rate: 12, Status: loan.StatusOpen, Source: loan.SourceForm, Version: 1},
		{Amount: 25000, Purpose: "Delivery van", Duration: 24, MaxRate: 15, Rate: 13.5, Status: loan.StatusFunded, Source: loan.SourceForm, Version: 2},
	} {
		require.NoError(t, repo.Create(ctx, l))
	}

	out := execute(t, gdb, "loans", "list")
	require.Contains(t, out, "Shop fit-out")
	require.Contains(t, out, "Delivery van")

	out = execute(t, gdb, "loans", "list", "--status", "Funded")
	require.NotContains(t, out, "Shop fit-out")
	require.Contains(t, out, "Delivery van")
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)
}
