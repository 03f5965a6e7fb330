package liveview

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"github.com/Mafufuyu/DriveLens/internal/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server exposes the rendered stream to browsers over WebSocket. It is an
// optional display sink: with no viewers connected, Publish is a cheap
// no-op and upload behavior is unaffected.
type Server struct {
	hub    *Hub
	logger *logger.Logger
}

func NewServer(logger *logger.Logger) *Server {
	return &Server{
		hub:    NewHub(logger),
		logger: logger,
	}
}

// Serve runs the hub and the HTTP listener. Blocks; run in a goroutine.
func (s *Server) Serve(port int) error {
	go s.hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/view", s.viewHandler)

	s.logger.Info("Live view listening on :%d", port)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}

// viewHandler upgrades a viewer connection and parks it on the hub until
// it drops.
func (s *Server) viewHandler(w http.ResponseWriter, r *http.Request) {
	connection, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade error: %v", err)
		return
	}
	connection.SetReadLimit(512)
	connection.SetReadDeadline(time.Now().Add(60 * time.Second))
	connection.SetPongHandler(func(appData string) error {
		connection.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	defer connection.Close()

	s.hub.Register(connection)
	defer s.hub.Unregister(connection)

	for {
		if _, _, err := connection.ReadMessage(); err != nil {
			break
		}
	}
}

// Publish encodes the rendered frame and broadcasts it to viewers as a
// base64 JSON message. Skips the encode entirely when nobody is watching.
func (s *Server) Publish(frame gocv.Mat) {
	if s.hub.ClientCount() == 0 {
		return
	}

	buf, err := gocv.IMEncode(".jpg", frame)
	if err != nil {
		s.logger.Error("Failed to encode live view frame: %v", err)
		return
	}
	defer buf.Close()

	encoded := base64.StdEncoding.EncodeToString(buf.GetBytes())
	msg := fmt.Sprintf(`{"image":"%s"}`, encoded)
	s.hub.Broadcast([]byte(msg))
}
