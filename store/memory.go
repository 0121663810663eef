package store

import (
	"context"
	"sync"

	"fixture_lend_tool/models"
)

// Memory backs both contracts with slices. Used by tests and for demo runs
// without any files or database.
type Memory struct {
	mu       sync.RWMutex
	fixtures []models.FixtureRecord
	loans    []models.LoanRecord
}

func NewMemory(fixtures []models.FixtureRecord) *Memory {
	m := &Memory{fixtures: append([]models.FixtureRecord(nil), fixtures...)}
	for i := range m.fixtures {
		m.fixtures[i].Classify()
	}
	return m
}

func (m *Memory) LoadFixtures(ctx context.Context) ([]models.FixtureRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.FixtureRecord(nil), m.fixtures...), nil
}

func (m *Memory) LoadLoans(ctx context.Context) ([]models.LoanRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.LoanRecord(nil), m.loans...), nil
}

func (m *Memory) SaveLoans(ctx context.Context, loans []models.LoanRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans = append([]models.LoanRecord(nil), loans...)
	return nil
}
