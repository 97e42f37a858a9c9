package tx

import (
	"context"
	"reflect"

	"github.com/km-arc/go-spring/framework/aop"
	"go.uber.org/zap"
)

// ── TransactionInterceptor ────────────────────────────────────────────────────

// TransactionInterceptor scopes a unit of work to each intercepted call:
// begin before proceeding, commit on normal return, rollback (and re-raise)
// when the call fails or marked itself rollback-only.
//
//	// Spring: TransactionStatus status = transactionManager.getTransaction(definition);
//	//         try { Object r = invocation.proceed(); transactionManager.commit(status); return r; }
//	//         catch (Exception e) { transactionManager.rollback(status); throw e; }
//	interceptor := tx.NewTransactionInterceptor(manager, tx.NewDefinition())
type TransactionInterceptor struct {
	manager    Manager
	definition Definition
	logger     *zap.Logger
}

// NewTransactionInterceptor builds an interceptor opening boundaries from
// def against the given manager.
func NewTransactionInterceptor(manager Manager, def Definition) *TransactionInterceptor {
	return &TransactionInterceptor{
		manager:    manager,
		definition: def,
		logger:     zap.NewNop(),
	}
}

// SetLogger attaches a structured logger for boundary events.
func (i *TransactionInterceptor) SetLogger(logger *zap.Logger) {
	if logger != nil {
		i.logger = logger
	}
}

// Invoke implements aop.Interceptor. Boundaries are synchronous and scoped
// strictly to the intercepted call's extent, so the context never outlives
// the invocation.
func (i *TransactionInterceptor) Invoke(inv *aop.Invocation) ([]reflect.Value, error) {
	ctx := context.Background()
	if i.definition.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.definition.Timeout)
		defer cancel()
	}

	unit, err := i.manager.Begin(ctx, i.definition)
	if err != nil {
		return nil, err
	}
	i.logger.Debug("transaction boundary opened",
		zap.String("tx", unit.ID()), zap.String("method", inv.MethodName()))

	out, err := inv.Proceed()
	if err != nil {
		if rbErr := i.manager.Rollback(unit); rbErr != nil {
			i.logger.Error("rollback after failure",
				zap.String("tx", unit.ID()), zap.Error(rbErr))
		}
		return out, err
	}

	if unit.IsRollbackOnly() {
		if rbErr := i.manager.Rollback(unit); rbErr != nil {
			return out, rbErr
		}
		return out, nil
	}

	if err := i.manager.Commit(unit); err != nil {
		return out, err
	}
	return out, nil
}
