package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/xpanvictor/linguavox/internal/domains/preference"
	"github.com/xpanvictor/linguavox/internal/domains/recognition"
	"github.com/xpanvictor/linguavox/pkg/Logger"
	"github.com/xpanvictor/linguavox/pkg/io/history"
	"github.com/xpanvictor/linguavox/pkg/io/translate"
)

type HandlerConfig struct {
	HistorySize    int
	SessionTimeout time.Duration
}

// RecognitionHandler hosts one recognition controller per page connection
type RecognitionHandler struct {
	logger            *Logger.Logger
	translator        translate.Translator
	preferenceService preference.PreferenceService
	connectionManager *ConnectionManager
	upgrader          websocket.Upgrader
	cfg               HandlerConfig
}

// NewRecognitionHandler creates a new WebSocket handler
func NewRecognitionHandler(
	logger *Logger.Logger,
	translator translate.Translator,
	preferenceService preference.PreferenceService,
	cfg HandlerConfig,
) *RecognitionHandler {
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 32
	}
	return &RecognitionHandler{
		logger:            logger.Named("ws"),
		translator:        translator,
		preferenceService: preferenceService,
		connectionManager: NewConnectionManager(logger, cfg.SessionTimeout),
		cfg:               cfg,
		upgrader: websocket.Upgrader{
			// public, credential-less surface like /translate
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers WebSocket routes
func (h *RecognitionHandler) RegisterRoutes(router gin.IRouter) {
	ws := router.Group("/ws")
	{
		ws.GET("/recognition", h.HandleRecognitionWebSocket)
		ws.GET("/stats", h.HandleStats)
	}
}

// HandleRecognitionWebSocket handles one page connection
func (h *RecognitionHandler) HandleRecognitionWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("WebSocket upgrade failed: %v", err)
		return
	}

	session := NewSession(conn, h.translator, history.New(h.cfg.HistorySize), h.logger)
	h.connectionManager.RegisterConnection(session)
	defer h.connectionManager.UnregisterConnection(session.SessionID)

	h.handleConnection(session)
}

// HandleStats provides connection statistics
func (h *RecognitionHandler) HandleStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"data":   h.connectionManager.GetStats(),
	})
}

func (h *RecognitionHandler) handleConnection(session *Session) {
	for {
		messageType, data, err := session.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Errorf("WebSocket read error: %v", err)
			} else {
				h.logger.Infof("WebSocket connection closed for session %s", session.SessionID)
			}
			return
		}

		session.UpdateLastActive()

		if messageType != websocket.TextMessage {
			session.SendError("INVALID_MESSAGE", "Only JSON text messages are accepted")
			continue
		}
		h.handleTextMessage(session, data)
	}
}

func (h *RecognitionHandler) handleTextMessage(session *Session, data []byte) {
	var msg InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		h.logger.Debugf("Failed to unmarshal WebSocket message: %v", err)
		session.SendError("INVALID_MESSAGE", "Invalid message format")
		return
	}

	var err error
	switch msg.Type {
	case MessageTypeInit:
		err = h.handleInit(session, msg.Data)
	case MessageTypeSettings:
		err = h.handleSettings(session, msg.Data)
	case MessageTypeListeningControl:
		err = h.handleListeningControl(session, msg.Data)
	case MessageTypeRecognitionEvent:
		err = h.handleRecognitionEvent(session, msg.Data)
	case MessageTypeText:
		err = h.handleText(session, msg.Data)
	case MessageTypeHistory:
		err = session.SendWebSocketMessage(MessageTypeHistory, HistoryMessage{Entries: session.History.Snapshot()})
	default:
		h.logger.Warnf("Unknown message type: %s", msg.Type)
		session.SendError("UNKNOWN_MESSAGE_TYPE", fmt.Sprintf("Unknown message type: %s", msg.Type))
		return
	}

	if err != nil {
		h.logger.Debugf("%s message failed: %v", msg.Type, err)
		session.SendError(errorCode(err), err.Error())
	}
}

func (h *RecognitionHandler) handleInit(session *Session, raw json.RawMessage) error {
	var init InitMessage
	if err := decode(raw, &init); err != nil {
		return err
	}

	if init.Supported != nil && !*init.Supported {
		session.Controller.MarkUnavailable(session.Context())
	}
	if err := session.ApplySettings(init.Settings); err != nil {
		return err
	}
	if init.ClientID != "" {
		session.SetClientID(init.ClientID)
		theme, err := h.preferenceService.Theme(session.Context(), init.ClientID)
		if err != nil {
			h.logger.Warnf("theme lookup for %s failed: %v", init.ClientID, err)
		} else {
			session.SetTheme(theme)
		}
	}

	return session.SendWebSocketMessage(MessageTypeSessionState, session.SessionState())
}

func (h *RecognitionHandler) handleSettings(session *Session, raw json.RawMessage) error {
	var settings Settings
	if err := decode(raw, &settings); err != nil {
		return err
	}
	if err := session.ApplySettings(settings); err != nil {
		return err
	}
	return session.SendWebSocketMessage(MessageTypeSessionState, session.SessionState())
}

func (h *RecognitionHandler) handleListeningControl(session *Session, raw json.RawMessage) error {
	var control ListeningControl
	if err := decode(raw, &control); err != nil {
		return err
	}

	switch control.Action {
	case ActionStartListening:
		return session.Controller.Start(session.Context())
	case ActionStopListening:
		return session.Controller.Stop(session.Context())
	default:
		return fmt.Errorf("%w: unknown listening action %q", errInvalidMessage, control.Action)
	}
}

func (h *RecognitionHandler) handleRecognitionEvent(session *Session, raw json.RawMessage) error {
	var ev RecognitionEvent
	if err := decode(raw, &ev); err != nil {
		return err
	}

	ctx := session.Context()
	switch ev.Event {
	case "start":
		session.Controller.HandleStart()
	case "result":
		session.Controller.HandleResult(ev.Transcript)
	case "error":
		session.Controller.HandleError(ctx, ev.Error)
	case "end":
		session.Controller.HandleEnd(ctx)
	default:
		return fmt.Errorf("%w: unknown recognition event %q", errInvalidMessage, ev.Event)
	}
	return nil
}

// handleText translates manually entered text with the session settings.
func (h *RecognitionHandler) handleText(session *Session, raw json.RawMessage) error {
	var text TextMessage
	if err := decode(raw, &text); err != nil {
		return err
	}
	session.handleTranscript(text.Content)
	return nil
}

// Close shuts down the WebSocket handler
func (h *RecognitionHandler) Close() error {
	return h.connectionManager.Close()
}

var errInvalidMessage = errors.New("invalid message")

func decode(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing data", errInvalidMessage)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidMessage, err)
	}
	return nil
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, errInvalidMessage):
		return "INVALID_MESSAGE"
	case errors.Is(err, recognition.ErrUnavailable):
		return "RECOGNITION_UNAVAILABLE"
	case errors.Is(err, recognition.ErrBusy):
		return "RECOGNITION_BUSY"
	default:
		return "RECOGNITION_ERROR"
	}
}
