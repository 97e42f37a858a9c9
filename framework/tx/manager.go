package tx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ── Errors ────────────────────────────────────────────────────────────────────

var (
	// ErrTxCompleted — the unit of work already committed or rolled back;
	// exactly one of the two is allowed per Tx.
	ErrTxCompleted = errors.New("tx: transaction already completed")

	// ErrBeginFailed, ErrCommitFailed, ErrRollbackFailed wrap the
	// resource-layer cause. A commit failure does not trigger an automatic
	// rollback; that choice stays with the caller.
	ErrBeginFailed    = errors.New("tx: begin failed")
	ErrCommitFailed   = errors.New("tx: commit failed")
	ErrRollbackFailed = errors.New("tx: rollback failed")
)

// ── Unit of work ──────────────────────────────────────────────────────────────

// Tx is one resource-scoped unit of work: a connection pinned out of the
// pool for the duration of the transaction, plus the transaction opened on
// it — the ConnectionHolder and TransactionStatus of the design, collapsed.
//
// The connection is released back to the pool when the unit of work
// completes, on the commit and rollback paths alike.
type Tx struct {
	id           string
	conn         *sql.Conn
	tx           *sql.Tx
	newTx        bool
	rollbackOnly bool
	completed    bool
}

// ID is the unit of work's correlation id, present on every log line the
// manager writes about it.
func (t *Tx) ID() string { return t.id }

// IsNew reports whether this unit of work opened its own transaction
// (always true in this manager; kept for the contract).
func (t *Tx) IsNew() bool { return t.newTx }

// SetRollbackOnly marks the unit of work so the owning boundary rolls back
// instead of committing.
func (t *Tx) SetRollbackOnly() { t.rollbackOnly = true }

// IsRollbackOnly reports the rollback-only mark.
func (t *Tx) IsRollbackOnly() bool { return t.rollbackOnly }

// Completed reports whether commit or rollback already ran.
func (t *Tx) Completed() bool { return t.completed }

// Handle exposes the underlying *sql.Tx for statements inside the boundary.
func (t *Tx) Handle() *sql.Tx { return t.tx }

// ── Manager ───────────────────────────────────────────────────────────────────

// Manager coordinates resource-scoped units of work.
//
//	// Spring: public interface PlatformTransactionManager {
//	//     TransactionStatus getTransaction(TransactionDefinition definition);
//	//     void commit(TransactionStatus status);
//	//     void rollback(TransactionStatus status);
//	// }
type Manager interface {
	Begin(ctx context.Context, def Definition) (*Tx, error)
	Commit(t *Tx) error
	Rollback(t *Tx) error
}

// ── DataSourceManager ─────────────────────────────────────────────────────────

// DataSourceManager drives units of work against a *sql.DB. Begin pins a
// dedicated connection and opens a transaction on it with the definition's
// isolation level and read-only flag (implicit auto-commit is off for the
// transaction's extent); Commit and Rollback finish the transaction and
// unconditionally release the connection back to the pool.
type DataSourceManager struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDataSourceManager builds a manager over db.
func NewDataSourceManager(db *sql.DB) *DataSourceManager {
	return &DataSourceManager{db: db, logger: zap.NewNop()}
}

// SetLogger attaches a structured logger for begin/commit/rollback events.
func (m *DataSourceManager) SetLogger(logger *zap.Logger) {
	if logger != nil {
		m.logger = logger
	}
}

// DB returns the managed data source.
func (m *DataSourceManager) DB() *sql.DB { return m.db }

// InterceptionExempt marks the manager so the interception pipeline never
// proxies it.
func (m *DataSourceManager) InterceptionExempt() {}

// Begin opens a new unit of work.
func (m *DataSourceManager) Begin(ctx context.Context, def Definition) (*Tx, error) {
	if m.db == nil {
		return nil, fmt.Errorf("%w: no data source configured", ErrBeginFailed)
	}

	conn, err := m.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: acquiring connection: %w", ErrBeginFailed, err)
	}

	sqlTx, err := conn.BeginTx(ctx, &sql.TxOptions{
		Isolation: def.Isolation,
		ReadOnly:  def.ReadOnly,
	})
	if err != nil {
		_ = conn.Close() // release on the failure path too
		return nil, fmt.Errorf("%w: %w", ErrBeginFailed, err)
	}

	t := &Tx{
		id:    uuid.NewString(),
		conn:  conn,
		tx:    sqlTx,
		newTx: true,
	}
	m.logger.Debug("transaction begun",
		zap.String("tx", t.id),
		zap.Int("isolation", int(def.Isolation)),
		zap.Bool("readOnly", def.ReadOnly))
	return t, nil
}

// Commit commits the unit of work and releases its connection. A failed
// commit is reported as-is; no rollback is attempted on the caller's
// behalf.
func (m *DataSourceManager) Commit(t *Tx) error {
	if t == nil || t.completed {
		return ErrTxCompleted
	}
	t.completed = true
	defer m.release(t)

	if err := t.tx.Commit(); err != nil {
		m.logger.Error("commit failed", zap.String("tx", t.id), zap.Error(err))
		return fmt.Errorf("%w: tx %s: %w", ErrCommitFailed, t.id, err)
	}
	m.logger.Debug("transaction committed", zap.String("tx", t.id))
	return nil
}

// Rollback rolls the unit of work back and releases its connection.
func (m *DataSourceManager) Rollback(t *Tx) error {
	if t == nil || t.completed {
		return ErrTxCompleted
	}
	t.completed = true
	defer m.release(t)

	if err := t.tx.Rollback(); err != nil {
		m.logger.Error("rollback failed", zap.String("tx", t.id), zap.Error(err))
		return fmt.Errorf("%w: tx %s: %w", ErrRollbackFailed, t.id, err)
	}
	m.logger.Debug("transaction rolled back", zap.String("tx", t.id))
	return nil
}

// release returns the pinned connection to the pool; it runs on every
// completion path.
func (m *DataSourceManager) release(t *Tx) {
	if t.conn == nil {
		return
	}
	if err := t.conn.Close(); err != nil {
		m.logger.Warn("releasing connection", zap.String("tx", t.id), zap.Error(err))
	}
	t.conn = nil
}
