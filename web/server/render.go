package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/websocket"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Stream message types
const (
	MessageConsole  = "console"
	MessagePass     = "pass"
	MessageError    = "error"
	MessageComplete = "complete"
)

// StreamMessage is one JSON message on the render websocket
type StreamMessage struct {
	Type    string          `json:"type"`
	Console *ConsoleMessage `json:"console,omitempty"`
	Pass    *PassUpdate     `json:"pass,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// PassUpdate carries a completed progressive pass
type PassUpdate struct {
	PassNumber     int    `json:"passNumber"`
	TotalPasses    int    `json:"totalPasses"`
	ImageData      string `json:"imageData"` // Base64 encoded PNG
	Stats          Stats  `json:"stats"`
	IsLast         bool   `json:"isLast"`
	ElapsedMs      int64  `json:"elapsedMs"`
	PrimitiveCount int    `json:"primitiveCount"`
}

// RenderingPipeline contains the configured scene and raytracer
type RenderingPipeline struct {
	Scene     *scene.Scene
	Raytracer *renderer.ProgressiveRaytracer
}

// handleRender upgrades to a websocket and streams progressive passes until
// the render finishes or the client goes away
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	consoleChan, webLogger := s.setupConsoleLogging()

	pipeline, err := s.setupRenderingPipeline(req, webLogger)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		glog.Warningf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The client sends nothing; a read error means it went away
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Single writer goroutine: gorilla connections allow one concurrent writer
	messages := make(chan StreamMessage, 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeMessages(conn, messages, cancel)
	}()

	var consoleWG sync.WaitGroup
	consoleWG.Add(1)
	go func() {
		defer consoleWG.Done()
		s.streamConsoleMessages(ctx, consoleChan, messages)
	}()

	startTime := time.Now()
	passChan, errChan := pipeline.Raytracer.RenderProgressive(ctx)
	s.handleRenderingEvents(ctx, messages, passChan, errChan, pipeline.Scene, req, startTime)

	// The render goroutine has exited, so nothing logs to consoleChan anymore
	close(consoleChan)
	consoleWG.Wait()

	s.sendMessage(ctx, messages, StreamMessage{Type: MessageComplete})
	close(messages)
	<-writerDone

	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	return consoleChan, NewWebLogger(renderID, consoleChan)
}

// setupRenderingPipeline creates and configures the scene and raytracer
func (s *Server) setupRenderingPipeline(req *RenderRequest, logger core.Logger) (*RenderingPipeline, error) {
	sceneObj, err := s.createScene(req.Scene)
	if err != nil {
		return nil, err
	}

	rt := sceneObj.NewRaytracer(renderer.SamplingConfig{
		Width:           req.Width,
		Height:          req.Height,
		SamplesPerPixel: req.MaxSamples,
		MaxDepth:        req.MaxDepth,
	}, logger)

	config := renderer.ProgressiveConfig{
		InitialSamples:     1,
		MaxSamplesPerPixel: req.MaxSamples,
		MaxPasses:          req.MaxPasses,
	}

	return &RenderingPipeline{
		Scene:     sceneObj,
		Raytracer: renderer.NewProgressiveRaytracer(rt, config, logger),
	}, nil
}

// writeMessages writes every message to conn. After a write failure it
// cancels the render and keeps draining so senders never block.
func (s *Server) writeMessages(conn *websocket.Conn, messages <-chan StreamMessage, cancel context.CancelFunc) {
	failed := false
	for msg := range messages {
		if failed {
			continue
		}
		if err := conn.WriteJSON(msg); err != nil {
			glog.V(1).Infof("websocket write failed: %v", err)
			failed = true
			cancel()
		}
	}
}

// streamConsoleMessages forwards console output until consoleChan closes
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, messages chan<- StreamMessage) {
	for consoleMsg := range consoleChan {
		msg := consoleMsg
		select {
		case messages <- StreamMessage{Type: MessageConsole, Console: &msg}:
		case <-ctx.Done():
		default:
			// Channel full, skip message to avoid blocking
		}
	}
}

// handleRenderingEvents forwards passes until the render stops
func (s *Server) handleRenderingEvents(ctx context.Context, messages chan<- StreamMessage,
	passChan <-chan renderer.PassResult, errChan <-chan error,
	sceneObj *scene.Scene, req *RenderRequest, startTime time.Time) {

	for passResult := range passChan {
		update, err := newPassUpdate(passResult, req, sceneObj, startTime)
		if err != nil {
			glog.Errorf("Error encoding pass %d: %v", passResult.PassNumber, err)
			continue
		}
		s.sendMessage(ctx, messages, StreamMessage{Type: MessagePass, Pass: update})
	}

	if err := <-errChan; err != nil && ctx.Err() == nil {
		s.sendMessage(ctx, messages, StreamMessage{Type: MessageError, Error: fmt.Sprintf("Rendering failed: %v", err)})
	}
}

func newPassUpdate(passResult renderer.PassResult, req *RenderRequest, sceneObj *scene.Scene, startTime time.Time) (*PassUpdate, error) {
	img := passResult.Frame.Image()
	imageData, err := imageToBase64PNG(img)
	if err != nil {
		return nil, err
	}

	return &PassUpdate{
		PassNumber:  passResult.PassNumber,
		TotalPasses: req.MaxPasses,
		ImageData:   imageData,
		Stats: Stats{
			TotalPixels:      passResult.Stats.TotalPixels,
			TotalSamples:     passResult.Stats.TotalSamples,
			AverageSamples:   passResult.Stats.AverageSamples,
			MinSamples:       passResult.Stats.MinSamples,
			MaxSamplesUsed:   passResult.Stats.MaxSamplesUsed,
			AverageLuminance: renderer.CalculateAverageLuminance(img),
		},
		IsLast:         passResult.IsLast,
		ElapsedMs:      time.Since(startTime).Milliseconds(),
		PrimitiveCount: sceneObj.GetPrimitiveCount(),
	}, nil
}

// sendMessage queues msg unless the render was cancelled
func (s *Server) sendMessage(ctx context.Context, messages chan<- StreamMessage, msg StreamMessage) {
	select {
	case messages <- msg:
	case <-ctx.Done():
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
