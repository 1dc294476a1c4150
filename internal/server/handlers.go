package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ariel-frischer/ccem/internal/audit"
	"github.com/ariel-frischer/ccem/internal/conflict"
	"github.com/ariel-frischer/ccem/internal/merge"
	"github.com/ariel-frischer/ccem/internal/project"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// event is the payload broadcast to dashboards after each operation.
type event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// mergeRequest is the body of POST /api/merge.
type mergeRequest struct {
	Strategy string           `json:"strategy"`
	Rules    *merge.Rules     `json:"rules,omitempty"`
	Configs  []project.Config `json:"configs"`
}

// configsRequest is the body of POST /api/conflicts.
type configsRequest struct {
	Configs []project.Config `json:"configs"`
}

// auditRequest is the body of POST /api/audit: any merge-result-shaped value.
type auditRequest struct {
	Permissions  []string                       `json:"permissions"`
	Integrations map[string]project.Integration `json:"integrations"`
	Settings     map[string]any                 `json:"settings"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, map[string]any{
		"status":  "ok",
		"uptime":  time.Since(s.startTime).String(),
		"clients": s.hub.ClientCount(),
	})
}

func (s *Server) handleGetProjects(w http.ResponseWriter, r *http.Request) {
	sources, err := project.Discover(s.projectsDir)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, sources)
}

func (s *Server) handleGetStrategies(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, merge.Strategies)
}

func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	var req mergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var opts *merge.Options
	if req.Rules != nil {
		opts = &merge.Options{Rules: req.Rules}
	}
	result, err := merge.Merge(merge.Strategy(req.Strategy), req.Configs, opts)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	auditResult := audit.Merge(result)
	s.broadcast("merge", map[string]any{
		"strategy":  req.Strategy,
		"stats":     result.Stats,
		"riskLevel": auditResult.RiskLevel,
	})

	s.respondJSON(w, map[string]any{
		"result": result,
		"audit":  auditResult,
	})
}

func (s *Server) handleConflicts(w http.ResponseWriter, r *http.Request) {
	var req configsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	report := conflict.Detect(req.Configs)
	s.broadcast("conflicts", report.Summary)
	s.respondJSON(w, report)
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	var req auditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result := audit.Audit(audit.Target{
		Permissions:  req.Permissions,
		Integrations: req.Integrations,
		Settings:     req.Settings,
	})
	s.broadcast("audit", map[string]any{
		"riskLevel": result.RiskLevel,
		"passed":    result.Passed,
	})
	s.respondJSON(w, result)
}

// handleEvents streams hub broadcasts as server-sent events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.hub.Subscribe()
	defer s.hub.Unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case message, ok := <-ch:
			if !ok {
				return
			}
			w.Write([]byte("data: "))
			w.Write(message)
			w.Write([]byte("\n\n"))
			flusher.Flush()
		}
	}
}

// handleWebSocket upgrades to WebSocket and manages the connection.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, EventBufferSize),
	}
	s.hub.Register(client)

	go client.writePump()
	go client.readPump()
}

// readPump discards inbound messages and unregisters on close.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump forwards hub broadcasts to the connection.
func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

func (s *Server) broadcast(eventType string, data any) {
	payload, err := json.Marshal(event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
	if err != nil {
		return
	}
	s.hub.Broadcast(payload)
}

func (s *Server) respondJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
