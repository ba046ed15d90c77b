package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitStatements_QuotesAndComments(t *testing.T) {
	got := SplitStatements("INSERT INTO t VALUES ('a;b', 'it''s'); -- comment\nDELETE FROM t;")

	assert.Equal(t, []string{
		"INSERT INTO t VALUES ('a;b', 'it''s')",
		"DELETE FROM t",
	}, got)
}

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{
			name:   "empty",
			script: " \n\t ",
			want:   nil,
		},
		{
			name:   "skips empty statements",
			script: ";;SELECT 1;  ;\n;SELECT 2",
			want:   []string{"SELECT 1", "SELECT 2"},
		},
		{
			name:   "comment after tokens",
			script: "SELECT 1 -- trailing; not a boundary\n, 2;",
			want:   []string{"SELECT 1 \n, 2"},
		},
		{
			name:   "comment at end without newline",
			script: "SELECT 1; -- done",
			want:   []string{"SELECT 1"},
		},
		{
			name:   "dashes inside literal",
			script: "SELECT '--not a comment;';",
			want:   []string{"SELECT '--not a comment;'"},
		},
		{
			name:   "quoted identifier",
			script: `ALTER TABLE "odd;name" ADD COLUMN "a""b" TEXT; SELECT 1`,
			want:   []string{`ALTER TABLE "odd;name" ADD COLUMN "a""b" TEXT`, "SELECT 1"},
		},
		{
			name:   "block comment",
			script: "SELECT /* a; b */ 1; /* only a comment; */",
			want:   []string{"SELECT   1"},
		},
		{
			name: "dollar quoted body",
			script: "CREATE FUNCTION f() RETURNS void AS $$ BEGIN PERFORM 1; END; $$ LANGUAGE plpgsql;\n" +
				"DO $body$ BEGIN RAISE NOTICE 'x;y'; END $body$;",
			want: []string{
				"CREATE FUNCTION f() RETURNS void AS $$ BEGIN PERFORM 1; END; $$ LANGUAGE plpgsql",
				"DO $body$ BEGIN RAISE NOTICE 'x;y'; END $body$",
			},
		},
		{
			name:   "positional parameters are not dollar quotes",
			script: "PREPARE p AS SELECT $1; EXECUTE p(1);",
			want:   []string{"PREPARE p AS SELECT $1", "EXECUTE p(1)"},
		},
		{
			name:   "unterminated literal runs to end",
			script: "SELECT 'open; SELECT 2",
			want:   []string{"SELECT 'open; SELECT 2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitStatements(tt.script))
		})
	}
}
