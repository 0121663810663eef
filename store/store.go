package store

import (
	"context"
	"errors"

	"fixture_lend_tool/models"
)

var (
	// ErrSourceUnavailable 底层文件/库不可用
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrSchema 缺少必需的列或表
	ErrSchema = errors.New("invalid schema")
)

// FixtureSource is the read-only inventory snapshot. Every call re-reads the
// backing store; load volume is low enough that no cache is kept.
type FixtureSource interface {
	LoadFixtures(ctx context.Context) ([]models.FixtureRecord, error)
}

// LedgerStore holds the borrow ledger. SaveLoans rewrites the whole ledger and
// must replace it atomically; callers serialize load+save through a guard.
type LedgerStore interface {
	LoadLoans(ctx context.Context) ([]models.LoanRecord, error)
	SaveLoans(ctx context.Context, loans []models.LoanRecord) error
}
