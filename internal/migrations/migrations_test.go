package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMigrationOrdersVersions(t *testing.T) {
	mig := &Migrator{
		versions:   []string{},
		migrations: map[string]*migration{},
	}

	for _, v := range []string{"20260102120054", "20250113120000", "20251226100940"} {
		mig.addMigration(&migration{version: v})
	}

	assert.Equal(t, []string{"20250113120000", "20251226100940", "20260102120054"}, mig.versions)
}

func TestReverse(t *testing.T) {
	assert.Equal(t, []string{"c", "b", "a"}, reverse([]string{"a", "b", "c"}))
}

func TestGameDateMigrationRegistered(t *testing.T) {
	mg, ok := m.migrations["20260830091500"]
	require.True(t, ok)
	assert.NotNil(t, mg.up)
	assert.NotNil(t, mg.down)
}
