package analysisHandler

import (
	"context"
	"time"

	"github.com/gofiber/websocket/v2"
)

// handleLiveDetection streams face locations back for every binary frame a
// client sends, without running emotion inference.
func (h *AnalysisHandler) handleLiveDetection(c *websocket.Conn) {
	h.log.Info("Live detection WebSocket client connected")
	defer h.log.Info("Live detection WebSocket client disconnected")

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	maxReadTimeout := 60 * time.Second

	for {
		if err := c.SetReadDeadline(time.Now().Add(maxReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Errorf("Live detection WebSocket error: %v", err)
			} else {
				h.log.Info("Live detection WebSocket connection closed")
			}
			break
		}

		if messageType != websocket.BinaryMessage {
			continue
		}

		result, err := h.analysisService.Pipeline().DetectOnly(context.Background(), message)
		if err != nil {
			if writeErr := c.WriteJSON(map[string]string{"error": err.Error()}); writeErr != nil {
				h.log.Errorf("Error sending error response: %v", writeErr)
				break
			}
			continue
		}

		if err := c.WriteJSON(result); err != nil {
			h.log.Errorf("Error writing JSON response: %v", err)
			break
		}
	}
}
