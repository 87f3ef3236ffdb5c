package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/prefrank/config"
	"github.com/katalvlaran/prefrank/engine"
	"github.com/katalvlaran/prefrank/store/memstore"
)

// loadStore reads a memstore.Snapshot from path, or returns an empty Store
// if the file does not exist yet (first run).
func loadStore(path string) (*memstore.Store, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return memstore.New(), nil
	}
	if err != nil {
		return nil, err
	}

	var snap memstore.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return memstore.Import(snap), nil
}

// saveStore writes store's current state back to path.
func saveStore(path string, store *memstore.Store) error {
	data, err := json.MarshalIndent(store.Export(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// newEngine builds an Engine over store using the package-default
// configuration and a production zap logger.
func newEngine(store *memstore.Store) (*engine.Engine, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	return engine.New(store, store, store, config.New(), logger)
}

func statePath(cmd *cobra.Command) (string, error) {
	return cmd.Flags().GetString("state")
}
