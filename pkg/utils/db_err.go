package utils

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	SQLStateUniqueViolation   = "23505"
	SQLStateDuplicateDatabase = "42P04"
	SQLStateInvalidCatalog    = "3D000"
)

// DBError carries the operation, SQLSTATE and server message of a failed
// database call. errors.Is matches both the driver error and Kind.
type DBError struct {
	Op      string
	Code    string
	Message string
	Kind    error
	Err     error
}

func (e *DBError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (SQLSTATE %s)", e.Op, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DBError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// WrapDBError classifies err into the taxonomy sentinels. nil stays nil.
func WrapDBError(op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *DBError
	if errors.As(err, &existing) {
		return err
	}

	de := &DBError{Op: op, Err: err, Kind: ErrDatabaseError, Message: err.Error()}

	var (
		pgErr   *pgconn.PgError
		connErr *pgconn.ConnectError
		netErr  net.Error
	)
	switch {
	case errors.As(err, &pgErr):
		de.Code = pgErr.Code
		de.Message = pgErr.Message
		de.Kind = classifySQLState(pgErr.Code)
	case errors.As(err, &connErr), errors.As(err, &netErr), errors.Is(err, driver.ErrBadConn):
		de.Kind = ErrTransientConnection
	}
	return de
}

func classifySQLState(code string) error {
	switch {
	case code == SQLStateInvalidCatalog:
		return ErrTenantUnavailable
	case strings.HasPrefix(code, "08"), code == "57P01", code == "57P02", code == "57P03", code == "53300":
		return ErrTransientConnection
	case strings.HasPrefix(code, "23"), strings.HasPrefix(code, "42"), strings.HasPrefix(code, "2B"):
		return ErrSchemaConflict
	default:
		return ErrDatabaseError
	}
}

// SQLState returns the PostgreSQL error code carried by err, if any.
func SQLState(err error) string {
	var de *DBError
	if errors.As(err, &de) && de.Code != "" {
		return de.Code
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func IsUniqueViolation(err error) bool {
	return SQLState(err) == SQLStateUniqueViolation
}
