package service

import (
	"context"
	"log"
	"time"
)

// CleanupService periodically revokes stale refresh-token rows so the
// sessions table does not grow without bound.
type CleanupService struct {
	auth     *AuthService
	interval time.Duration
}

func NewCleanupService(auth *AuthService, interval time.Duration) *CleanupService {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &CleanupService{auth: auth, interval: interval}
}

// Start runs the sweep until the context is cancelled. One sweep runs
// immediately so a restart does not postpone cleanup by a full interval.
func (w *CleanupService) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Printf("Token cleanup worker started - sweeping every %s", w.interval)
	w.sweep()

	for {
		select {
		case <-ctx.Done():
			log.Println("Token cleanup worker stopped")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *CleanupService) sweep() {
	count, err := w.auth.CleanupExpiredTokens()
	if err != nil {
		log.Printf("Error cleaning up expired tokens: %v", err)
		return
	}
	if count > 0 {
		log.Printf("Revoked %d expired refresh token(s)", count)
	}
}
