package services

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"finquest-progression/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// EventStream pushes a user's new ledger rows over server-sent events so the
// UI can pop level-up and achievement toasts.
type EventStream struct {
	DB           *gorm.DB
	PollInterval time.Duration
}

func NewEventStream(db *gorm.DB) *EventStream {
	return &EventStream{DB: db, PollInterval: 2 * time.Second}
}

// EventsSince returns the user's ledger rows created after cursor, oldest first.
func (s *EventStream) EventsSince(ctx context.Context, externalUserID string, cursor time.Time) ([]models.ProgressionEvent, error) {
	var events []models.ProgressionEvent
	err := s.DB.WithContext(ctx).
		Where("external_user_id = ? AND created_at > ?", externalUserID, cursor).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}

// Serve streams progression events for the authenticated user.
func (s *EventStream) Serve(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	ctx := c.Context()

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	ctx.SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(s.PollInterval)
		defer ticker.Stop()

		cursor := time.Now().UTC()

		w.WriteString(":\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case <-ticker.C:
				events, err := s.EventsSince(context.Background(), userID, cursor)
				if err != nil {
					log.Printf("[EVENT_STREAM] query error for user %s: %v", userID, err)
					continue
				}
				if len(events) == 0 {
					// keepalive so proxies don't drop the connection
					w.WriteString(":\n\n")
				}
				for _, e := range events {
					payload, _ := json.Marshal(e)
					fmt.Fprintf(w, "id: %s\nevent: progression\ndata: %s\n\n", e.ID, payload)
					cursor = e.CreatedAt
				}
				if err := w.Flush(); err != nil {
					// client disconnected
					return
				}
			case <-ctx.Done():
				return
			}
		}
	})
	return nil
}
