package migration

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@localhost:5432/db?sslmode=disable",
		DriverURL("postgres://u:p@localhost:5432/db?sslmode=disable"))
	assert.Equal(t, "pgx5://u@h/db", DriverURL("postgresql://u@h/db"))
	assert.Equal(t, "pgx5://u@h/db", DriverURL("pgx5://u@h/db"))
}

func TestScripts_UpAndDownPaired(t *testing.T) {
	ups, err := fs.Glob(scripts, "sql/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(scripts, "sql/*.down.sql")
	require.NoError(t, err)

	require.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}
