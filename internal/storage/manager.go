// Package storage provides the top-level StorageManager that coordinates
// the 2 storage areas: internaldb and foliodb.
package storage

import (
	"fmt"

	"github.com/folioai/folio/internal/common"
	"github.com/folioai/folio/internal/interfaces"
	"github.com/folioai/folio/internal/storage/foliodb"
	"github.com/folioai/folio/internal/storage/internaldb"
)

// Manager implements interfaces.StorageManager using 2 storage areas.
type Manager struct {
	internal *internaldb.Store
	folio    *foliodb.Store
	logger   *common.Logger
}

// NewManager creates a new StorageManager with the 2 storage areas.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	internalStore, err := internaldb.NewStore(logger, config.Storage.Internal.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create internal store: %w", err)
	}

	folioStore, err := foliodb.NewStore(logger, config.Storage.Folio.Path)
	if err != nil {
		internalStore.Close()
		return nil, fmt.Errorf("failed to create folio store: %w", err)
	}

	logger.Info().
		Str("internal", config.Storage.Internal.Path).
		Str("folio", config.Storage.Folio.Path).
		Msg("Storage manager initialized (2 areas)")

	return &Manager{
		internal: internalStore,
		folio:    folioStore,
		logger:   logger,
	}, nil
}

func (m *Manager) InternalStore() interfaces.InternalStore {
	return m.internal
}

func (m *Manager) PortfolioStore() interfaces.PortfolioStore {
	return m.folio
}

// Close shuts down both storage areas, returning the first error encountered.
func (m *Manager) Close() error {
	var firstErr error
	if err := m.internal.Close(); err != nil {
		firstErr = err
	}
	if err := m.folio.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
