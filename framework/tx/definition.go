package tx

import (
	"database/sql"
	"time"
)

// ── Propagation ───────────────────────────────────────────────────────────────

// Propagation describes how a transactional call relates to a transaction
// already in flight. Carried on the Definition for callers that layer
// propagation semantics on top; the manager itself always opens a new
// resource-scoped transaction (PropagationRequired behaviour with no
// ambient transaction).
type Propagation int

const (
	PropagationRequired Propagation = iota
	PropagationSupports
	PropagationMandatory
	PropagationRequiresNew
	PropagationNotSupported
	PropagationNever
	PropagationNested
)

// ── Definition ────────────────────────────────────────────────────────────────

// Definition is the transaction-boundary value object handed to Begin.
//
// Isolation and ReadOnly are honored against the resource handle via
// sql.TxOptions, and Timeout bounds the boundary's context when set;
// Propagation is informational, recorded for callers and logs.
//
//	// Spring: TransactionDefinition definition = new DefaultTransactionDefinition();
//	def := tx.NewDefinition()
type Definition struct {
	Propagation Propagation
	Isolation   sql.IsolationLevel
	Timeout     time.Duration
	ReadOnly    bool
}

// NewDefinition returns the default boundary: required propagation, the
// driver's default isolation, no timeout, read-write.
func NewDefinition() Definition {
	return Definition{
		Propagation: PropagationRequired,
		Isolation:   sql.LevelDefault,
	}
}
