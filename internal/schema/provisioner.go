package schema

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"cogniseguros/pkg/utils"
)

// StatementError reports the statement that made a provisioning transaction
// roll back.
type StatementError struct {
	Index     int
	Statement string
	Err       error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("statement %d (%s): %v", e.Index+1, abbreviate(e.Statement, 80), e.Err)
}

func (e *StatementError) Unwrap() error { return e.Err }

func abbreviate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

type Provisioner struct {
	logger *zap.Logger
}

func NewProvisioner(logger *zap.Logger) *Provisioner {
	return &Provisioner{logger: logger}
}

// Ensure brings db to the shape described by s. It is safe to call on every
// startup; all statements run in one transaction.
func (p *Provisioner) Ensure(ctx context.Context, db *gorm.DB, s Schema) error {
	if err := s.Validate(); err != nil {
		return err
	}
	start := time.Now()
	n, err := p.run(ctx, db, s.Statements())
	if err != nil {
		p.logger.Warn("Schema provisioning rolled back",
			zap.String("schema", s.Name), zap.Error(err))
		return err
	}
	p.logger.Debug("Schema ensured",
		zap.String("schema", s.Name),
		zap.Int("statements", n),
		zap.Duration("took", time.Since(start)))
	return nil
}

// ApplyScript runs a raw SQL script in one transaction and returns the number
// of statements executed.
func (p *Provisioner) ApplyScript(ctx context.Context, db *gorm.DB, script string) (int, error) {
	return p.run(ctx, db, SplitStatements(script))
}

func (p *Provisioner) run(ctx context.Context, db *gorm.DB, statements []string) (int, error) {
	if len(statements) == 0 {
		return 0, nil
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, stmt := range statements {
			if err := tx.Exec(stmt).Error; err != nil {
				return &StatementError{
					Index:     i,
					Statement: stmt,
					Err:       utils.WrapDBError("provision", err),
				}
			}
		}
		return nil
	})
	if err != nil {
		var stmtErr *StatementError
		if !errors.As(err, &stmtErr) {
			err = utils.WrapDBError("provision", err)
		}
		return 0, err
	}
	return len(statements), nil
}
