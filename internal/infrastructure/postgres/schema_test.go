package postgres

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The repositories and the migration must agree on column names; a
// mismatch only surfaces at runtime as a 42703 from the driver. These
// checks parse the migration so the disagreement fails in CI instead.

const migrationUp = "000001_create_identity_tables.up.sql"

var createTableRE = regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS (\w+) \((.*?)\n\);`)

func migratedColumns(t *testing.T) map[string]map[string]bool {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("..", "..", "..", "db", "migrations", migrationUp))
	require.NoError(t, err)

	tables := map[string]map[string]bool{}
	for _, m := range createTableRE.FindAllStringSubmatch(string(raw), -1) {
		cols := map[string]bool{}
		for _, line := range strings.Split(m[2], "\n") {
			fields := strings.Fields(line)
			if len(fields) < 2 || strings.EqualFold(fields[0], "PRIMARY") {
				continue
			}
			cols[fields[0]] = true
		}
		tables[m[1]] = cols
	}
	return tables
}

func splitColumnList(list string) []string {
	parts := strings.Split(list, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func TestUserColumnsExistInMigration(t *testing.T) {
	users := migratedColumns(t)["users"]
	require.NotEmpty(t, users)

	for _, col := range splitColumnList(userColumns) {
		assert.True(t, users[col], "users column %q selected by the repository is missing from the migration", col)
	}
}

func TestRefreshTokenColumnsExistInMigration(t *testing.T) {
	tokens := migratedColumns(t)["refresh_tokens"]
	require.NotEmpty(t, tokens)

	for _, col := range splitColumnList(tokenColumns) {
		assert.True(t, tokens[col], "refresh_tokens column %q selected by the repository is missing from the migration", col)
	}
}

func TestRoleColumnsExistInMigration(t *testing.T) {
	roles := migratedColumns(t)["roles"]
	require.NotEmpty(t, roles)

	for _, col := range []string{"id", "name", "normalized_name", "created_at"} {
		assert.True(t, roles[col], "roles column %q selected by the repository is missing from the migration", col)
	}
}

func TestLinkTableColumnsExistInMigration(t *testing.T) {
	links := migratedColumns(t)["user_roles"]
	require.NotEmpty(t, links)
	assert.True(t, links["user_id"])
	assert.True(t, links["role_id"])
}
