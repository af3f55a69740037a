package db

import (
	"context"

	"go.uber.org/zap"

	"github.com/teranos/kinlink/errors"
	"github.com/teranos/kinlink/sym"
)

// Savepoints issues named nested transactions on an open transaction.
type Savepoints struct {
	conn   DBTX
	logger *zap.SugaredLogger
}

// NewSavepoints binds savepoint statements to conn, normally a *sql.Tx.
func NewSavepoints(conn DBTX, logger *zap.SugaredLogger) *Savepoints {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Savepoints{conn: conn, logger: logger}
}

// Savepoint opens a savepoint called name.
func (s *Savepoints) Savepoint(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	if _, err := s.conn.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return errors.Wrapf(err, "savepoint %s", name)
	}
	s.logger.Debugw("Savepoint opened", "name", name, "symbol", sym.DB)
	return nil
}

// Release commits the work done since the savepoint into the enclosing transaction.
func (s *Savepoints) Release(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	if _, err := s.conn.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return errors.Wrapf(err, "release savepoint %s", name)
	}
	s.logger.Debugw("Savepoint released", "name", name, "symbol", sym.DB)
	return nil
}

// RollbackTo discards the work done since the savepoint and removes it.
func (s *Savepoints) RollbackTo(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	if _, err := s.conn.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); err != nil {
		return errors.Wrapf(err, "rollback to savepoint %s", name)
	}
	// ROLLBACK TO leaves the savepoint on the stack
	if _, err := s.conn.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return errors.Wrapf(err, "release savepoint %s after rollback", name)
	}
	s.logger.Debugw("Savepoint rolled back", "name", name, "symbol", sym.DB)
	return nil
}

// validName accepts plain SQL identifiers only, since names are spliced into SQL.
func validName(name string) error {
	if name == "" {
		return errors.New("savepoint name is empty")
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return errors.Newf("invalid savepoint name %q", name)
		}
	}
	return nil
}
