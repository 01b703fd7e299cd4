package postgres

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{name: "postgres_scheme", dsn: "postgres://u:p@db:5432/bids?sslmode=disable", want: "pgx5://u:p@db:5432/bids?sslmode=disable"},
		{name: "postgresql_scheme", dsn: "postgresql://u:p@db/bids", want: "pgx5://u:p@db/bids"},
		{name: "already_pgx5", dsn: "pgx5://u:p@db/bids", want: "pgx5://u:p@db/bids"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, migrateURL(tc.dsn))
		})
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrationFS, "migrations/*.sql")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{
		"migrations/000001_create_bids.up.sql",
		"migrations/000001_create_bids.down.sql",
	}, files)
}
