package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/ichigoapp/ichigo-server/internal/config"
	"github.com/ichigoapp/ichigo-server/internal/domain"
	"github.com/ichigoapp/ichigo-server/internal/logger"
	"github.com/ichigoapp/ichigo-server/internal/search"
	"github.com/ichigoapp/ichigo-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
// Index is nil when no index path is configured.
type SearchIndexHandle struct {
	Index *search.MessageIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	if h.Index == nil {
		return nil
	}
	return h.Index.Close()
}

// ProvideSearchIndex provides the Bleve message index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Search.IndexPath == "" {
		log.Info("Search disabled, no index path configured")
		return &SearchIndexHandle{}, nil
	}

	index, err := search.NewMessageIndex(search.Options{
		DataPath: cfg.Search.IndexPath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{Index: index}, nil
}

// TriggerSearchReindexIfNeeded rebuilds an empty index from the store.
// Should be called after all services are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	if indexHandle.Index == nil {
		return
	}
	messageService := do.MustInvoke[*service.MessageService](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := indexHandle.Index.DocumentCount()
	if docCount > 0 {
		return
	}

	// Anything in the shared log or a question thread needs indexing.
	ctx := context.Background()
	messages, err := storeHandle.ListMessages(ctx, domain.SharedThreadID)
	if err != nil {
		return
	}
	if len(messages) == 0 {
		questions, err := storeHandle.ListQuestions(ctx)
		if err != nil || len(questions) == 0 {
			return
		}
	}

	log.Info("Search index is empty but messages exist, triggering initial reindex")

	go func() {
		reindexCtx := context.Background()
		if err := messageService.ReindexAll(reindexCtx); err != nil {
			log.Error("Initial search reindex failed", "error", err)
		} else {
			count, _ := indexHandle.Index.DocumentCount()
			log.Info("Initial search reindex completed", "documents", count)
		}
	}()
}
