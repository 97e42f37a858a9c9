// Package tx provides resource-scoped transaction management over
// database/sql: a unit-of-work type with commit/rollback exclusivity, a
// manager that pins and unconditionally releases connections, and an
// interceptor that scopes a transaction around each proxied call.
//
//	manager := tx.NewDataSourceManager(db)
//	unit, err := manager.Begin(ctx, tx.NewDefinition())
//	if err != nil { ... }
//	if _, err := unit.Handle().ExecContext(ctx, stmt); err != nil {
//	    _ = manager.Rollback(unit)
//	    return err
//	}
//	return manager.Commit(unit)
//
// Exactly one of Commit and Rollback runs per unit of work (the second
// reports ErrTxCompleted), and the pinned connection goes back to the pool
// on both paths. Commit failures are surfaced without an automatic
// rollback.
package tx
