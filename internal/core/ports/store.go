package ports

import "context"

// StoreHealth reports whether the record store can serve requests. Ready
// returns domain.ErrStoreUnavailable when it cannot.
type StoreHealth interface {
	Ready() error
}

// Transactor runs fn so that every repository call made with the ctx it
// receives commits or fails together. Atomic reports whether that guarantee
// actually holds; when it is false fn runs as a plain sequence of writes.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	Atomic() bool
}

// UnitOfWork is a record store handle that can also group writes.
type UnitOfWork interface {
	StoreHealth
	Transactor
}
