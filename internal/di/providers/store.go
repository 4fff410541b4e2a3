package providers

import (
	"context"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/ichigoapp/ichigo-server/internal/config"
	"github.com/ichigoapp/ichigo-server/internal/logger"
	"github.com/ichigoapp/ichigo-server/internal/store"
	"github.com/ichigoapp/ichigo-server/internal/store/badgerstore"
	"github.com/ichigoapp/ichigo-server/internal/store/mongostore"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the persistence backend. MONGO_URI selects the
// cloud document store; otherwise the embedded local store is used.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Store.UseMongo() {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		db, err := mongostore.New(ctx, cfg.Store.MongoURI, cfg.Store.MongoDatabase, log.Logger)
		if err != nil {
			return nil, err
		}
		log.Info("Cloud store connected", "database", cfg.Store.MongoDatabase)
		return &StoreHandle{Store: db}, nil
	}

	dbPath := filepath.Join(cfg.Store.DataPath, "db")
	db, err := badgerstore.New(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}
	log.Info("Local store initialized", "path", dbPath)
	return &StoreHandle{Store: db}, nil
}
