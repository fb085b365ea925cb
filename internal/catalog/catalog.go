// Package catalog хранит снимок товаров и категорий для синхронного поиска.
package catalog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sharifShaikh1/cravecrafters-frontend/internal/model"
)

// Source описывает контракт получения каталога с бэкенда.
type Source interface {
	Products(ctx context.Context) ([]model.Product, error)
	Categories(ctx context.Context) ([]model.Category, error)
}

// Snapshot — неизменяемый снимок каталога на момент загрузки.
// Поиск всегда выполняется над одним захваченным снимком: обновление каталога
// подменяет указатель целиком и не мутирует уже выданные снимки.
type Snapshot struct {
	Products   []model.Product
	Categories []model.Category
	FetchedAt  time.Time
}

// Catalog кэширует снимок каталога с периодическим фоновым обновлением.
type Catalog struct {
	source Source
	logger *zap.Logger
	ttl    time.Duration

	mu   sync.RWMutex
	snap *Snapshot
}

// New создаёт каталог с указанным источником и интервалом устаревания снимка.
func New(source Source, logger *zap.Logger, ttl time.Duration) *Catalog {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Catalog{
		source: source,
		logger: logger,
		ttl:    ttl,
	}
}

// Snapshot возвращает актуальный снимок каталога, при необходимости загружая его.
// Устаревший снимок обновляется синхронно; если обновление не удалось, а
// предыдущий снимок есть, возвращается он.
func (c *Catalog) Snapshot(ctx context.Context) (*Snapshot, error) {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()

	if snap != nil && time.Since(snap.FetchedAt) < c.ttl {
		return snap, nil
	}

	if err := c.Refresh(ctx); err != nil {
		if snap != nil {
			c.logger.Warn("catalog refresh failed, serving stale snapshot",
				zap.Time("fetchedAt", snap.FetchedAt),
				zap.Error(err),
			)
			return snap, nil
		}
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap, nil
}

// Refresh загружает каталог с бэкенда и атомарно подменяет снимок.
func (c *Catalog) Refresh(ctx context.Context) error {
	products, err := c.source.Products(ctx)
	if err != nil {
		return err
	}

	categories, err := c.source.Categories(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.snap = &Snapshot{
		Products:   products,
		Categories: categories,
		FetchedAt:  time.Now(),
	}
	c.mu.Unlock()

	return nil
}

// StartRefresh запускает фоновый процесс периодического обновления снимка.
func (c *Catalog) StartRefresh(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(c.ttl)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := c.Refresh(ctx); err != nil {
					c.logger.Warn("background catalog refresh failed", zap.Error(err))
				}
			}
		}
	}()
}
