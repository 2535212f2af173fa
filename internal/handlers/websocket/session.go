package websocket

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/xpanvictor/linguavox/internal/domains/preference"
	"github.com/xpanvictor/linguavox/internal/domains/recognition"
	"github.com/xpanvictor/linguavox/internal/domains/translation"
	"github.com/xpanvictor/linguavox/pkg/Logger"
	"github.com/xpanvictor/linguavox/pkg/io/history"
	"github.com/xpanvictor/linguavox/pkg/io/translate"
)

var defaultSettings = Settings{
	SourceLanguage: translation.Italian,
	TargetLanguage: translation.Greek,
	Tone:           translation.Formal,
}

// Session is one page connection. It drives the page's speech recognition
// engine through recognition_command messages and owns the controller that
// decides when to start and stop it.
type Session struct {
	SessionID  uuid.UUID
	Conn       *websocket.Conn
	Controller *recognition.Controller
	History    history.Ring

	translator translate.Translator
	logger     *Logger.Logger

	// only touched by the controller, under its lock
	engineCfg recognition.EngineConfig

	ctx    context.Context
	cancel context.CancelFunc
	seq    atomic.Int64

	// State
	ConnectedAt time.Time
	lastActive  time.Time
	IsActive    bool
	clientID    string
	settings    Settings
	theme       preference.ThemePreference
	mutex       sync.RWMutex
	writeMu     sync.Mutex
}

// NewSession creates a new WebSocket session
func NewSession(conn *websocket.Conn, translator translate.Translator, ring history.Ring, logger *Logger.Logger) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		SessionID:   uuid.New(),
		Conn:        conn,
		History:     ring,
		translator:  translator,
		ctx:         ctx,
		cancel:      cancel,
		ConnectedAt: time.Now(),
		lastActive:  time.Now(),
		IsActive:    true,
		settings:    defaultSettings,
	}
	s.logger = logger.With("session", s.SessionID.String())
	s.Controller = recognition.NewController(s, recognition.Config{
		SourceLanguage: defaultSettings.SourceLanguage,
		OnTranscript:   s.handleTranscript,
		OnStateChange:  s.publishState,
		OnStatus:       s.publishStatus,
	}, s.logger)
	return s
}

// Configure implements recognition.Engine.
func (s *Session) Configure(cfg recognition.EngineConfig) {
	s.engineCfg = cfg
}

// Start implements recognition.Engine.
func (s *Session) Start() error {
	return s.SendWebSocketMessage(MessageTypeRecognitionCommand, RecognitionCommand{
		Action:       "start",
		EngineConfig: s.engineCfg,
	})
}

// Stop implements recognition.Engine.
func (s *Session) Stop() error {
	return s.SendWebSocketMessage(MessageTypeRecognitionCommand, RecognitionCommand{
		Action:       "stop",
		EngineConfig: s.engineCfg,
	})
}

// Context is cancelled when the session closes.
func (s *Session) Context() context.Context {
	return s.ctx
}

func (s *Session) Settings() Settings {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.settings
}

// ApplySettings merges non-empty fields. The source language goes through
// the controller, which refuses it while capture is running.
func (s *Session) ApplySettings(next Settings) error {
	if next.SourceLanguage != "" {
		if err := s.Controller.SetSourceLanguage(next.SourceLanguage); err != nil {
			return err
		}
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if next.SourceLanguage != "" {
		s.settings.SourceLanguage = next.SourceLanguage
	}
	if next.TargetLanguage != "" {
		s.settings.TargetLanguage = next.TargetLanguage
	}
	if next.Tone != "" {
		s.settings.Tone = next.Tone
	}
	return nil
}

func (s *Session) ClientID() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.clientID
}

func (s *Session) SetClientID(id string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.clientID = id
}

func (s *Session) SetTheme(theme preference.ThemePreference) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.theme = theme
}

func (s *Session) SessionState() SessionStateMessage {
	// the controller takes this mutex while it holds its own lock
	available := s.Controller.Available()

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return SessionStateMessage{
		Settings:  s.settings,
		Theme:     s.theme,
		Available: available,
	}
}

// handleTranscript echoes the utterance and translates it in the
// background with the settings current at this moment. Results of
// concurrent utterances may arrive in any order; seq tells them apart.
func (s *Session) handleTranscript(text string) {
	seq := s.seq.Add(1)
	if err := s.SendWebSocketMessage(MessageTypeTranscript, TranscriptMessage{Seq: seq, Content: text}); err != nil {
		s.logger.Debugf("transcript not delivered: %v", err)
	}

	settings := s.Settings()
	req := translation.Request{
		Text:           text,
		SourceLanguage: settings.SourceLanguage,
		TargetLanguage: settings.TargetLanguage,
		Tone:           settings.Tone,
	}
	go s.translate(seq, req)
}

func (s *Session) translate(seq int64, req translation.Request) {
	res := s.translator.Translate(s.ctx, req)

	msg := TranslationMessage{
		Seq:     seq,
		OK:      res.OK(),
		Failure: string(res.Failure),
		Display: res.Display(),
	}
	if res.OK() {
		msg.Translation = res.Text
	}

	if s.History != nil {
		entry := history.Entry{
			Seq:         seq,
			Transcript:  req.Text,
			Translation: msg.Translation,
			Failure:     msg.Failure,
			At:          time.Now(),
		}
		if err := s.History.Push(entry); err != nil {
			s.logger.Warnf("history entry %d dropped: %v", seq, err)
		}
	}

	if err := s.SendWebSocketMessage(MessageTypeTranslation, msg); err != nil {
		s.logger.Debugf("translation %d not delivered: %v", seq, err)
	}
}

func (s *Session) publishState(state recognition.State) {
	msg := ListeningStateMessage{State: state, Listening: state == recognition.Listening}
	if err := s.SendWebSocketMessage(MessageTypeListeningState, msg); err != nil {
		s.logger.Debugf("state not delivered: %v", err)
	}
}

func (s *Session) publishStatus(message string) {
	if err := s.SendWebSocketMessage(MessageTypeStatus, StatusMessage{Message: message}); err != nil {
		s.logger.Debugf("status not delivered: %v", err)
	}
}

// SendWebSocketMessage sends a message to the WebSocket client
func (s *Session) SendWebSocketMessage(msgType MessageType, data interface{}) error {
	if !s.IsAlive() {
		return fmt.Errorf("session not active")
	}

	msg := WSMessage{
		Type:      msgType,
		Data:      data,
		SessionID: s.SessionID.String(),
		Timestamp: time.Now(),
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.Conn.WriteJSON(msg)
}

// SendError sends an error message to the client
func (s *Session) SendError(code, message string) error {
	return s.SendWebSocketMessage(MessageTypeError, ErrorMessage{
		Code:    code,
		Message: message,
	})
}

// UpdateLastActive updates the last activity timestamp
func (s *Session) UpdateLastActive() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.lastActive = time.Now()
}

// Close abandons capture, cancels pending translations and closes the socket.
func (s *Session) Close() error {
	s.mutex.Lock()
	if !s.IsActive {
		s.mutex.Unlock()
		return nil
	}
	s.IsActive = false
	s.mutex.Unlock()

	s.cancel()
	s.Controller.Reset(context.Background())
	return s.Conn.Close()
}

// IsExpired checks if the session has expired based on inactivity
func (s *Session) IsExpired(timeout time.Duration) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return time.Since(s.lastActive) > timeout
}

// IsAlive checks if the session is active
func (s *Session) IsAlive() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.IsActive
}

// LastActive returns the last activity timestamp
func (s *Session) LastActive() time.Time {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.lastActive
}
