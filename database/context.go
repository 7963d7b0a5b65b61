package database

// Context is implemented by both the database itself and by a
// Transaction, letting store functions accept either one without
// caring whether they are running inside a transaction.
type Context interface {
	accessor() DataAccessor
}

// NoTx wraps a Database so it can be passed wherever a Context is
// expected, for callers that aren't running inside a transaction.
type NoTxContext struct {
	db Database
}

// NoTx returns a Context backed directly by db, with no transaction.
func NoTx(db Database) Context {
	return &NoTxContext{db: db}
}

func (ctx *NoTxContext) accessor() DataAccessor {
	return ctx.db
}

// TxContext wraps a Transaction so it can be passed wherever a Context
// is expected.
type TxContext struct {
	tx Transaction
}

// TxFromContext returns ctx's underlying Transaction, and true, if ctx
// is backed by one.
func TxFromContext(ctx Context) (Transaction, bool) {
	txCtx, ok := ctx.(*TxContext)
	if !ok {
		return nil, false
	}
	return txCtx.tx, true
}

// NewTx opens a new Transaction against db and wraps it in a Context.
func NewTx(db Database) (*TxContext, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	return &TxContext{tx: tx}, nil
}

func (ctx *TxContext) accessor() DataAccessor {
	return ctx.tx
}

// Commit commits the underlying transaction.
func (ctx *TxContext) Commit() error {
	return ctx.tx.Commit()
}

// RollbackUnlessClosed rolls back the underlying transaction unless it
// has already been committed or rolled back. Callers defer this
// immediately after NewTx succeeds.
func (ctx *TxContext) RollbackUnlessClosed() error {
	return ctx.tx.RollbackUnlessClosed()
}

func accessorFor(ctx Context) DataAccessor {
	return ctx.accessor()
}
