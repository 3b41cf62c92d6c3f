package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"ideadeck/api-gateway/middleware"
	"ideadeck/api-gateway/models"
)

// liveFrame is one websocket message on the live-ideas channel. Snapshot
// frames carry the full refreshed collection, newest first; error frames
// signal a transport failure without closing the channel.
type liveFrame struct {
	Type    string             `json:"type"` // "snapshot" or "error"
	Ideas   []models.SavedIdea `json:"ideas,omitempty"`
	Message string             `json:"message,omitempty"`
}

// RequireUpgrade rejects plain HTTP requests on websocket-only routes.
func RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// IdeasLive streams the caller's saved-ideas collection over a websocket.
// One subscription per connection: it is opened after the session gate has
// resolved the identity and always released when the socket goes away, so no
// listener outlives its view.
func (h *ApplicationHandler) IdeasLive() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		defer conn.Close()

		ident, ok := conn.Locals(middleware.IdentityLocal).(*middleware.Identity)
		if !ok || ident == nil {
			_ = conn.WriteJSON(liveFrame{Type: "error", Message: "Sign in to follow your ideas."})
			return
		}

		sub := h.Store.Subscribe(ident.UserID)
		defer sub.Unsubscribe()

		// Reader goroutine: we never expect client frames, but reading is the
		// only way to notice the peer going away.
		gone := make(chan struct{})
		go func() {
			defer close(gone)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-gone:
				return
			case ideas, open := <-sub.Snapshots():
				if !open {
					return
				}
				if err := conn.WriteJSON(liveFrame{Type: "snapshot", Ideas: ideas}); err != nil {
					return
				}
			case err, open := <-sub.Errors():
				if !open {
					return
				}
				h.Logger.WithField("user_id", ident.UserID).WithError(err).Warn("Live ideas refresh failed")
				if werr := conn.WriteJSON(liveFrame{Type: "error", Message: "Could not refresh your ideas. Still retrying."}); werr != nil {
					return
				}
			}
		}
	})
}
