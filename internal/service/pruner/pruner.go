package pruner

import (
	"context"
	"time"

	"github.com/AbdelRahmanAlTamimi/Chirpy/internal/logger"
)

const DefaultRetention = 7 * 24 * time.Hour

type tokenRepo interface {
	DeleteRevokedBefore(ctx context.Context, before time.Time) (int64, error)
}

// Deletes refresh tokens that are revoked and expired longer than retention ago
// Tokens that are not revoked are never touched
type Pruner struct {
	interval  time.Duration
	retention time.Duration
	repo      tokenRepo
	logger    logger.Logger
	now       func() time.Time
}

func New(interval time.Duration, retention time.Duration, repo tokenRepo, logger logger.Logger) *Pruner {
	if retention < 0 {
		retention = DefaultRetention
	}

	return &Pruner{
		interval:  interval,
		retention: retention,
		repo:      repo,
		logger:    logger,
		now:       time.Now,
	}
}

// Prune once, return count of deleted tokens
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	return p.repo.DeleteRevokedBefore(ctx, p.now().Add(-p.retention))
}

// Run prune loop until context is done
// Returned channel is closed when loop stopped. Zero interval disables the loop
func (p *Pruner) Run(ctx context.Context) <-chan struct{} {
	idleStopped := make(chan struct{})

	if p.interval <= 0 {
		p.logger.Debug("Pruner disabled")
		close(idleStopped)
		return idleStopped
	}

	p.logger.Debug("Starting pruner", "interval", p.interval, "retention", p.retention)

	go func() {
		defer close(idleStopped)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				p.logger.Debug("Pruner stopped by context")
				return

			case <-ticker.C:
				deleted, err := p.Prune(ctx)
				if err != nil {
					p.logger.Error("Failed to prune refresh tokens", "error", err)
					continue
				}
				if deleted > 0 {
					p.logger.Info("Refresh tokens pruned", "deleted", deleted)
				}
			}
		}
	}()

	return idleStopped
}
