package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type apiMove struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type saveRequest struct {
	Name string `json:"name"`
}

type networkRequest struct {
	Addr string `json:"addr"`
	Name string `json:"name"`
}

type restartRequest struct {
	Accept *bool `json:"accept"`
}

type chatRequest struct {
	Text string `json:"text"`
}

// API binds the HTTP surface to one controller.
type API struct {
	controller *GameController
	hub        *Hub
	saves      *SaveStore
	logger     *zap.Logger
}

func NewAPI(controller *GameController, hub *Hub, saves *SaveStore, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{controller: controller, hub: hub, saves: saves, logger: logger}
}

func (a *API) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(a.logger))
	r.Use(recoverer(a.logger))

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/status", a.handleStatus)
	r.Post("/api/move", a.handleMove)
	r.Post("/api/undo", a.statusAfter(a.controller.Undo))
	r.Post("/api/restart", a.statusAfter(a.controller.Restart))
	r.Post("/api/mode", a.handleMode)
	r.Get("/api/config", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, GetConfig())
	})
	r.Post("/api/config", a.handleConfig)
	r.Get("/api/snapshot", a.handleSnapshot)
	r.Post("/api/snapshot", a.handleRestore)
	r.Post("/api/save", a.handleSave)
	r.Post("/api/load", a.handleLoad)
	r.Get("/api/saves", a.handleListSaves)

	r.Route("/api/network", func(r chi.Router) {
		r.Post("/host", a.handleHost)
		r.Post("/join", a.handleJoin)
		r.Post("/disconnect", a.statusAfter(a.controller.Disconnect))
		r.Post("/restart", a.handleNetworkRestart)
		r.Post("/chat", a.handleChat)
	})

	r.Get("/ws/", a.serveWS)
	r.Get("/ws/peer", a.servePeerWS)
	return r
}

func (a *API) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := a.controller.Status()
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// statusAfter wraps a controller command that takes no input and answers
// with the resulting status.
func (a *API) statusAfter(cmd func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cmd(); err != nil {
			a.writeError(w, err)
			return
		}
		a.handleStatus(w, r)
	}
}

func (a *API) handleMove(w http.ResponseWriter, r *http.Request) {
	var payload apiMove
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if err := a.controller.SubmitMove(payload.Row, payload.Col); err != nil {
		a.writeError(w, err)
		return
	}
	a.handleStatus(w, r)
}

func (a *API) handleMode(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Settings GameSettingsDTO `json:"settings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	current, err := a.controller.Settings()
	if err != nil {
		a.writeError(w, err)
		return
	}
	settings, err := settingsFromDTO(payload.Settings, current)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := a.controller.SetMode(settings); err != nil {
		a.writeError(w, err)
		return
	}
	a.handleStatus(w, r)
}

func (a *API) handleConfig(w http.ResponseWriter, r *http.Request) {
	config := GetConfig()
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	configStore.Update(config)
	a.logger.Info("config updated",
		zap.Int("ai_think_step_ms", config.AiThinkStepMs),
		zap.Int("ai_hard_depth", config.AiHardDepth),
	)
	writeJSON(w, http.StatusOK, config)
}

func (a *API) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := a.controller.Snapshot()
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (a *API) handleRestore(w http.ResponseWriter, r *http.Request) {
	var snap Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if err := a.controller.Restore(snap); err != nil {
		a.writeError(w, err)
		return
	}
	a.handleStatus(w, r)
}

func (a *API) handleSave(w http.ResponseWriter, r *http.Request) {
	var payload saveRequest
	if err := decodeOptionalJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	snap, err := a.controller.Snapshot()
	if err != nil {
		a.writeError(w, err)
		return
	}
	name, err := a.saves.Save(payload.Name, snap)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": name})
}

func (a *API) handleLoad(w http.ResponseWriter, r *http.Request) {
	var payload saveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	snap, err := a.saves.Load(payload.Name)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if err := a.controller.Restore(snap); err != nil {
		a.writeError(w, err)
		return
	}
	a.handleStatus(w, r)
}

func (a *API) handleListSaves(w http.ResponseWriter, r *http.Request) {
	saves, err := a.saves.List()
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"saves": saves})
}

func (a *API) handleHost(w http.ResponseWriter, r *http.Request) {
	payload, ok := a.decodeNetworkRequest(w, r)
	if !ok {
		return
	}
	if payload.Addr == "" {
		payload.Addr = ":0"
	}
	addr, err := a.controller.HostNetworkGame(payload.Addr, payload.Name)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"addr": addr})
}

func (a *API) handleJoin(w http.ResponseWriter, r *http.Request) {
	payload, ok := a.decodeNetworkRequest(w, r)
	if !ok {
		return
	}
	if payload.Addr == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "addr is required"})
		return
	}
	if err := a.controller.JoinNetworkGame(r.Context(), payload.Addr, payload.Name); err != nil {
		a.writeError(w, err)
		return
	}
	a.handleStatus(w, r)
}

func (a *API) decodeNetworkRequest(w http.ResponseWriter, r *http.Request) (networkRequest, bool) {
	var payload networkRequest
	if err := decodeOptionalJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return payload, false
	}
	payload.Addr = strings.TrimSpace(payload.Addr)
	if strings.TrimSpace(payload.Name) == "" {
		payload.Name = GetConfig().PlayerName
	}
	return payload, true
}

func (a *API) handleNetworkRestart(w http.ResponseWriter, r *http.Request) {
	var payload restartRequest
	if err := decodeOptionalJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	var err error
	if payload.Accept == nil {
		err = a.controller.Restart()
	} else {
		err = a.controller.RespondRestart(*payload.Accept)
	}
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.handleStatus(w, r)
}

func (a *API) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || strings.TrimSpace(payload.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if err := a.controller.SendChat(payload.Text); err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"sent": true})
}

func (a *API) serveWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{hub: a.hub, send: make(chan []byte, 16)}
	a.hub.Register(client)
	a.sendStatus(client)

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			a.logger.Debug("ui websocket write failed", zap.Error(err))
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			a.hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_status":
			a.sendStatus(client)
		}
	}
}

func (a *API) sendStatus(client *Client) {
	status, err := a.controller.Status()
	if err != nil {
		return
	}
	client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(status)})
}

// servePeerWS lets a guest join over WebSocket a game this backend is
// hosting. Connections without a pending host request are refused before the
// upgrade.
func (a *API) servePeerWS(w http.ResponseWriter, r *http.Request) {
	if err := a.controller.WaitingForGuest(); err != nil {
		a.logger.Warn("refused peer websocket", zap.String("remote", r.RemoteAddr), zap.Error(err))
		a.writeError(w, err)
		return
	}
	transport, err := upgradePeerWS(w, r)
	if err != nil {
		a.logger.Warn("peer websocket upgrade failed", zap.Error(err))
		return
	}
	if err := a.controller.AttachHostedPeer(transport); err != nil {
		a.logger.Warn("rejected peer websocket", zap.String("remote", transport.RemoteAddr()), zap.Error(err))
	}
}

func (a *API) writeError(w http.ResponseWriter, err error) {
	code := statusCodeFor(err)
	if code >= http.StatusInternalServerError {
		a.logger.Error("request failed", zap.Error(err))
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func statusCodeFor(err error) int {
	switch {
	case errors.Is(err, ErrIllegalMove), errors.Is(err, ErrMalformedMessage), errors.Is(err, ErrInvalidSnapshot):
		return http.StatusBadRequest
	case errors.Is(err, ErrSaveNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrOutOfTurn), errors.Is(err, ErrGameOver), errors.Is(err, ErrNothingToUndo),
		errors.Is(err, ErrUndoUnsupported), errors.Is(err, ErrNoRestartRequest), errors.Is(err, ErrPeerConnected),
		errors.Is(err, ErrNotHosting):
		return http.StatusConflict
	case errors.Is(err, ErrNoPeer), errors.Is(err, ErrTransportFailure), errors.Is(err, ErrControllerStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeOptionalJSON accepts an empty body.
func decodeOptionalJSON(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
