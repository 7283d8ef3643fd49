package sanitize

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestParseTables(t *testing.T) {
	valid, invalid := ParseTables(" users, keuangan_kas ,,drop table x;, _tmp1")
	if diff := cmp.Diff([]string{"users", "keuangan_kas", "_tmp1"}, valid); diff != "" {
		t.Errorf("valid tables (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"drop table x;"}, invalid)
}

func TestTruncateStatementQuotes(t *testing.T) {
	got := TruncateStatement([]string{"users", "roles"})
	assert.Equal(t, `TRUNCATE TABLE "users", "roles" RESTART IDENTITY CASCADE`, got)
}

func TestDefaultTablesAreIdentifiers(t *testing.T) {
	valid, invalid := ParseTables(strings.Join(DefaultTables, ","))
	assert.Empty(t, invalid)
	assert.Equal(t, DefaultTables, valid)
}
