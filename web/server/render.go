package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
	"github.com/labstack/echo/v4"
)

// TileUpdate represents a single tile update sent via SSE
type TileUpdate struct {
	TileX       int    `json:"tileX"`
	TileY       int    `json:"tileY"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG of just this tile
	PassNumber  int    `json:"passNumber"`
	TileNumber  int    `json:"tileNumber"`  // Current tile number in this pass (1-based)
	TotalTiles  int    `json:"totalTiles"`  // Total number of tiles in the image
	TotalPasses int    `json:"totalPasses"` // Total number of passes planned
}

// SSEEvent is one event for the single SSE writer goroutine
type SSEEvent struct {
	Type string `json:"type"` // "console", "tile", "progress", "error", "complete"
	Data string `json:"data"` // JSON-encoded data or a plain message
}

// RenderingPipeline contains the configured scene and raytracer
type RenderingPipeline struct {
	Scene     *scene.Scene
	Raytracer *renderer.ProgressiveRaytracer
	Request   *RenderRequest
	StartTime time.Time
}

// handleRender streams a progressive render as Server-Sent Events.
// Input errors are reported as an "error" event on a 200 stream, like render failures.
func (s *Server) handleRender(c echo.Context) error {
	w := c.Response()
	setSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	ctx := c.Request().Context()

	// All writes go through one goroutine
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		writeSSEEvents(ctx, w, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := parseRenderRequest(c.QueryParams())
	if err != nil {
		sendEvent(ctx, sseEventChan, SSEEvent{Type: "error", Data: fmt.Sprintf("Invalid request: %v", err)})
		return nil
	}

	consoleChan, webLogger := setupConsoleLogging()
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	var final SSEEvent
	pipeline, err := setupRenderingPipeline(req, webLogger)
	if err != nil {
		final = SSEEvent{Type: "error", Data: err.Error()}
	} else {
		passChan, tileChan, errChan := pipeline.Raytracer.RenderProgressive(ctx, renderer.RenderOptions{TileUpdates: req.TileUpdates})
		final = handleRenderingEvents(ctx, sseEventChan, passChan, tileChan, errChan, pipeline)
	}

	// Flush pending console lines so the terminal event is the last one on the stream
	close(consoleChan)
	<-consoleDone
	sendEvent(ctx, sseEventChan, final)
	return nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
}

// setupConsoleLogging creates console channel and web logger for a render
func setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	return consoleChan, NewWebLogger(renderID, consoleChan)
}

// setupRenderingPipeline creates the scene and a progressive raytracer for the request
func setupRenderingPipeline(req *RenderRequest, logger core.Logger) (*RenderingPipeline, error) {
	sceneObj, err := createScene(req)
	if err != nil {
		return nil, err
	}

	config := renderer.ProgressiveConfig{
		TileSize:           DefaultTileSize,
		InitialSamples:     1,
		MaxSamplesPerPixel: req.MaxSamples,
		MaxPasses:          req.MaxPasses,
		NumWorkers:         0, // Auto-detect
	}

	raytracer, err := renderer.NewProgressiveRaytracer(sceneObj, config, nil, logger)
	if err != nil {
		return nil, err
	}

	return &RenderingPipeline{
		Scene:     sceneObj,
		Raytracer: raytracer,
		Request:   req,
		StartTime: time.Now(),
	}, nil
}

// writeSSEEvents writes events until the channel closes or the client disconnects
func writeSSEEvents(ctx context.Context, w *echo.Response, sseEventChan <-chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}
			if ctx.Err() != nil {
				continue // Drain without writing
			}

			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				continue
			}
			w.Flush()

		case <-ctx.Done():
			// Keep draining so senders never block
			for range sseEventChan {
			}
			return
		}
	}
}

// streamConsoleMessages forwards logger output as "console" events, dropping them when the stream is busy
func streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}

		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		default:
			// Channel full, skip message to avoid blocking
		}
	}
}

// handleRenderingEvents forwards pass and tile results until rendering ends and returns the terminal event
func handleRenderingEvents(ctx context.Context, sseEventChan chan<- SSEEvent,
	passChan <-chan renderer.PassResult, tileChan <-chan renderer.TileCompletionResult, errChan <-chan error,
	pipeline *RenderingPipeline) SSEEvent {

	for passChan != nil || tileChan != nil {
		select {
		case passResult, ok := <-passChan:
			if !ok {
				passChan = nil // Channel closed
				continue
			}
			update, err := newProgressUpdate(passResult, pipeline)
			if err != nil {
				log.Printf("Error encoding pass %d: %v", passResult.PassNumber, err)
				continue
			}
			sendJSONEvent(ctx, sseEventChan, "progress", update)

		case tileResult, ok := <-tileChan:
			if !ok {
				tileChan = nil // Channel closed
				continue
			}
			update, err := newTileUpdate(tileResult)
			if err != nil {
				log.Printf("Error encoding tile image (%d, %d): %v", tileResult.TileX, tileResult.TileY, err)
				continue
			}
			sendJSONEvent(ctx, sseEventChan, "tile", update)
		}
	}

	if err := <-errChan; err != nil {
		return SSEEvent{Type: "error", Data: fmt.Sprintf("Rendering failed: %v", err)}
	}
	return SSEEvent{Type: "complete", Data: "Rendering completed"}
}

// newProgressUpdate converts a finished pass to its wire form
func newProgressUpdate(passResult renderer.PassResult, pipeline *RenderingPipeline) (ProgressUpdate, error) {
	imageData, err := imageToBase64PNG(passResult.Image)
	if err != nil {
		return ProgressUpdate{}, err
	}

	return ProgressUpdate{
		PassNumber:  passResult.PassNumber,
		TotalPasses: pipeline.Request.MaxPasses,
		ImageData:   imageData,
		Stats: Stats{
			TotalPixels:    passResult.Stats.TotalPixels,
			TotalSamples:   int64(passResult.Stats.TotalSamples),
			AverageSamples: passResult.Stats.AverageSamples,
			MaxSamples:     passResult.Stats.MaxSamples,
			MinSamples:     passResult.Stats.MinSamples,
			MaxSamplesUsed: passResult.Stats.MaxSamplesUsed,
		},
		IsComplete:     passResult.IsLast,
		ElapsedMs:      time.Since(pipeline.StartTime).Milliseconds(),
		PrimitiveCount: pipeline.Scene.GetPrimitiveCount(),
	}, nil
}

// newTileUpdate converts a finished tile to its wire form
func newTileUpdate(tileResult renderer.TileCompletionResult) (TileUpdate, error) {
	tileData, err := imageToBase64PNG(tileResult.TileImage)
	if err != nil {
		return TileUpdate{}, err
	}

	return TileUpdate{
		TileX:       tileResult.TileX,
		TileY:       tileResult.TileY,
		ImageData:   tileData,
		PassNumber:  tileResult.PassNumber,
		TileNumber:  tileResult.TileNumber,
		TotalTiles:  tileResult.TotalTiles,
		TotalPasses: tileResult.TotalPasses,
	}, nil
}

// sendJSONEvent marshals data and queues it as an event of the given type
func sendJSONEvent(ctx context.Context, sseEventChan chan<- SSEEvent, eventType string, data interface{}) {
	encoded, err := json.Marshal(data)
	if err != nil {
		log.Printf("Error marshaling %s event: %v", eventType, err)
		return
	}
	sendEvent(ctx, sseEventChan, SSEEvent{Type: eventType, Data: string(encoded)})
}

// sendEvent queues an event unless the client has gone away
func sendEvent(ctx context.Context, sseEventChan chan<- SSEEvent, event SSEEvent) {
	select {
	case sseEventChan <- event:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
