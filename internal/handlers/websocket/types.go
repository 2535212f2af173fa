package websocket

import (
	"encoding/json"
	"time"

	"github.com/xpanvictor/linguavox/internal/domains/preference"
	"github.com/xpanvictor/linguavox/internal/domains/recognition"
	"github.com/xpanvictor/linguavox/internal/domains/translation"
	"github.com/xpanvictor/linguavox/pkg/io/history"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// client -> server
	MessageTypeInit             MessageType = "init"
	MessageTypeSettings         MessageType = "settings"
	MessageTypeListeningControl MessageType = "listening_control"
	MessageTypeRecognitionEvent MessageType = "recognition_event"
	MessageTypeText             MessageType = "text"
	MessageTypeHistory          MessageType = "history"

	// server -> client
	MessageTypeRecognitionCommand MessageType = "recognition_command"
	MessageTypeListeningState     MessageType = "listening_state"
	MessageTypeTranscript         MessageType = "transcript"
	MessageTypeTranslation        MessageType = "translation"
	MessageTypeStatus             MessageType = "status"
	MessageTypeSessionState       MessageType = "session_state"
	MessageTypeError              MessageType = "error"
)

// WSMessage is what the server writes
type WSMessage struct {
	Type      MessageType `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	SessionID string      `json:"sessionId,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// InboundMessage is what the page sends; Data is decoded per Type
type InboundMessage struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Settings are the session parameters chosen on the page
type Settings struct {
	SourceLanguage translation.Language `json:"sourceLanguage"`
	TargetLanguage translation.Language `json:"targetLanguage"`
	Tone           translation.Tone     `json:"tone"`
}

// InitMessage opens the session. Supported is false when the browser has
// no speech recognition; it defaults to true when omitted.
type InitMessage struct {
	Settings
	ClientID  string `json:"clientId,omitempty"`
	Supported *bool  `json:"supported,omitempty"`
}

// ListeningControl contains listening control commands
type ListeningControl struct {
	Action string `json:"action"` // "start_listening", "stop_listening"
}

const (
	ActionStartListening = "start_listening"
	ActionStopListening  = "stop_listening"
)

// RecognitionEvent relays one event of the browser recognition engine
type RecognitionEvent struct {
	Event      string `json:"event"` // start, result, error, end
	Transcript string `json:"transcript,omitempty"`
	Error      string `json:"error,omitempty"`
}

// TextMessage contains manually entered text
type TextMessage struct {
	Content string `json:"content"`
}

// RecognitionCommand asks the page to start or stop its engine
type RecognitionCommand struct {
	Action string `json:"action"` // "start", "stop"
	recognition.EngineConfig
}

// ListeningStateMessage mirrors the controller state
type ListeningStateMessage struct {
	State     recognition.State `json:"state"`
	Listening bool              `json:"listening"`
}

type TranscriptMessage struct {
	Seq     int64  `json:"seq"`
	Content string `json:"content"`
}

// TranslationMessage carries the outcome of one utterance; Display is what
// to render, OK tells success from failure.
type TranslationMessage struct {
	Seq         int64  `json:"seq"`
	OK          bool   `json:"ok"`
	Translation string `json:"translation,omitempty"`
	Failure     string `json:"failure,omitempty"`
	Display     string `json:"display"`
}

type StatusMessage struct {
	Message string `json:"message"`
}

type SessionStateMessage struct {
	Settings
	Theme     preference.ThemePreference `json:"theme"`
	Available bool                       `json:"available"`
}

type HistoryMessage struct {
	Entries []history.Entry `json:"entries"`
}

// ErrorMessage contains error information
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
