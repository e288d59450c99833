package server

import (
	"context"
	"fmt"
	"log"

	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/labstack/echo/v4"
	"golang.org/x/net/websocket"
)

// StreamMessage is one websocket frame of a render stream
type StreamMessage struct {
	Type     string          `json:"type"` // "progress", "error", "complete"
	Progress *ProgressUpdate `json:"progress,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// handleRenderWebSocket streams each progressive pass as a JSON websocket frame.
// The render stops when the client closes the connection.
func (s *Server) handleRenderWebSocket(c echo.Context) error {
	websocket.Handler(func(ws *websocket.Conn) {
		defer ws.Close()

		req, err := parseRenderRequest(c.QueryParams())
		if err != nil {
			sendStreamMessage(ws, StreamMessage{Type: "error", Error: fmt.Sprintf("Invalid request: %v", err)})
			return
		}

		ctx, cancel := context.WithCancel(c.Request().Context())
		defer cancel()

		// Any read ending means the client went away
		go func() {
			defer cancel()
			var discard string
			for websocket.Message.Receive(ws, &discard) == nil {
			}
		}()

		pipeline, err := setupRenderingPipeline(req, renderer.NewDefaultLogger())
		if err != nil {
			sendStreamMessage(ws, StreamMessage{Type: "error", Error: err.Error()})
			return
		}

		passChan, _, errChan := pipeline.Raytracer.RenderProgressive(ctx, renderer.RenderOptions{})
		for passResult := range passChan {
			update, err := newProgressUpdate(passResult, pipeline)
			if err != nil {
				log.Printf("Error encoding pass %d: %v", passResult.PassNumber, err)
				continue
			}
			if err := sendStreamMessage(ws, StreamMessage{Type: "progress", Progress: &update}); err != nil {
				cancel()
			}
		}

		if err := <-errChan; err != nil {
			sendStreamMessage(ws, StreamMessage{Type: "error", Error: fmt.Sprintf("Rendering failed: %v", err)})
			return
		}
		sendStreamMessage(ws, StreamMessage{Type: "complete"})
	}).ServeHTTP(c.Response(), c.Request())
	return nil
}

// sendStreamMessage writes one JSON frame
func sendStreamMessage(ws *websocket.Conn, msg StreamMessage) error {
	if err := websocket.JSON.Send(ws, msg); err != nil {
		log.Printf("Websocket send failed: %v", err)
		return err
	}
	return nil
}
