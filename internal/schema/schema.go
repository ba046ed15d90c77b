// Package schema describes expected table layouts and turns them into
// idempotent, additive DDL.
package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrInvalidSchema = errors.New("invalid schema")

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

type Column struct {
	Name       string
	Type       string // SQL type, e.g. TEXT, CHAR(2), BIGSERIAL
	PrimaryKey bool
	NotNull    bool
	Default    string // SQL expression

	// Required marks a NOT NULL column without a default that belongs to the
	// table's first version. It is only emitted in CREATE TABLE.
	Required bool
	References string // e.g. "usuarios(id) ON DELETE CASCADE"

	// Backfill rewrites NULL or blank values to Default after the column is
	// ensured.
	Backfill bool
}

type Index struct {
	Name    string
	Columns []string // column names or expressions
	Unique  bool

	// Supersedes names constraints and indexes that must be gone before this
	// index is created.
	Supersedes []string
}

type Table struct {
	Name    string
	Columns []Column
	Indexes []Index

	// Seeds are idempotent statements run after the table and its indexes.
	Seeds []string
}

type Schema struct {
	Name   string
	Tables []Table
}

func (c Column) definition() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte(' ')
	b.WriteString(c.Type)
	if c.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	}
	if (c.NotNull || c.Required) && !c.PrimaryKey {
		b.WriteString(" NOT NULL")
	}
	if c.Default != "" {
		b.WriteString(" DEFAULT ")
		b.WriteString(c.Default)
	}
	if c.References != "" {
		b.WriteString(" REFERENCES ")
		b.WriteString(c.References)
	}
	return b.String()
}

// Validate rejects schemas whose DDL would not be additive-safe: unknown
// identifiers, NOT NULL columns that could not be added to populated tables,
// backfills without a default, and indexes superseding themselves.
func (s Schema) Validate() error {
	tables := map[string]bool{}
	indexes := map[string]bool{}
	for _, t := range s.Tables {
		if !identPattern.MatchString(t.Name) {
			return fmt.Errorf("%w: table name %q", ErrInvalidSchema, t.Name)
		}
		if tables[t.Name] {
			return fmt.Errorf("%w: duplicate table %q", ErrInvalidSchema, t.Name)
		}
		tables[t.Name] = true

		columns := map[string]bool{}
		pk := 0
		for _, c := range t.Columns {
			if !identPattern.MatchString(c.Name) {
				return fmt.Errorf("%w: column %s.%q", ErrInvalidSchema, t.Name, c.Name)
			}
			if columns[c.Name] {
				return fmt.Errorf("%w: duplicate column %s.%s", ErrInvalidSchema, t.Name, c.Name)
			}
			columns[c.Name] = true
			if c.Type == "" {
				return fmt.Errorf("%w: column %s.%s has no type", ErrInvalidSchema, t.Name, c.Name)
			}
			if c.PrimaryKey {
				pk++
				continue
			}
			if c.Required {
				if c.Backfill {
					return fmt.Errorf("%w: required column %s.%s cannot backfill", ErrInvalidSchema, t.Name, c.Name)
				}
				continue
			}
			if c.NotNull && c.Default == "" {
				return fmt.Errorf("%w: column %s.%s is NOT NULL without a default", ErrInvalidSchema, t.Name, c.Name)
			}
			if c.Backfill && c.Default == "" {
				return fmt.Errorf("%w: column %s.%s backfills without a default", ErrInvalidSchema, t.Name, c.Name)
			}
		}
		if pk != 1 {
			return fmt.Errorf("%w: table %s needs exactly one primary key column", ErrInvalidSchema, t.Name)
		}

		for _, idx := range t.Indexes {
			if !identPattern.MatchString(idx.Name) {
				return fmt.Errorf("%w: index name %q", ErrInvalidSchema, idx.Name)
			}
			if indexes[idx.Name] {
				return fmt.Errorf("%w: duplicate index %q", ErrInvalidSchema, idx.Name)
			}
			indexes[idx.Name] = true
			if len(idx.Columns) == 0 {
				return fmt.Errorf("%w: index %s has no columns", ErrInvalidSchema, idx.Name)
			}
			for _, old := range idx.Supersedes {
				if old == idx.Name {
					return fmt.Errorf("%w: index %s supersedes itself", ErrInvalidSchema, idx.Name)
				}
				if !identPattern.MatchString(old) {
					return fmt.Errorf("%w: superseded name %q", ErrInvalidSchema, old)
				}
			}
		}
	}
	return nil
}

// Statements returns the DDL that brings a database to s, in execution
// order. Every statement is safe to run again.
func (s Schema) Statements() []string {
	var out []string
	for _, t := range s.Tables {
		out = append(out, t.statements()...)
	}
	return out
}

func (t Table) statements() []string {
	defs := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		defs = append(defs, c.definition())
	}
	out := []string{
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", t.Name, strings.Join(defs, ", ")),
	}

	for _, c := range t.Columns {
		if c.PrimaryKey || c.Required {
			continue
		}
		out = append(out, fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s", t.Name, c.definition()))
	}

	for _, c := range t.Columns {
		if !c.Backfill {
			continue
		}
		out = append(out, fmt.Sprintf(
			"UPDATE %s SET %s = %s WHERE %s IS NULL OR btrim(%s::text) = ''",
			t.Name, c.Name, c.Default, c.Name, c.Name))
	}

	for _, idx := range t.Indexes {
		for _, old := range idx.Supersedes {
			out = append(out,
				fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s", t.Name, old),
				fmt.Sprintf("DROP INDEX IF EXISTS %s", old))
		}
		kind := "INDEX"
		if idx.Unique {
			kind = "UNIQUE INDEX"
		}
		out = append(out, fmt.Sprintf("CREATE %s IF NOT EXISTS %s ON %s (%s)",
			kind, idx.Name, t.Name, strings.Join(idx.Columns, ", ")))
	}

	return append(out, t.Seeds...)
}
