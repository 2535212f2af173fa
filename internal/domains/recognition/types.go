package recognition

import "errors"

type State string

const (
	Idle      State = "idle"
	Listening State = "listening"
	Stopping  State = "stopping" // halt requested, waiting for the engine's end
)

// fsm event names
const (
	eventStart = "start"
	eventStop  = "stop"
	eventFail  = "fail"
	eventEnd   = "end"
)

const UnsupportedMessage = "Speech recognition not supported in this browser."

var (
	ErrUnavailable = errors.New("speech recognition unavailable")
	ErrBusy        = errors.New("recognition session is not idle")
)

// EngineConfig is applied to the engine before every start.
type EngineConfig struct {
	Locale         string `json:"lang"`
	Continuous     bool   `json:"continuous"`
	InterimResults bool   `json:"interimResults"`
}

// Engine is the host speech-recognition capability. Start and Stop only
// request a transition; the engine reports back through the controller's
// Handle* methods.
type Engine interface {
	Configure(cfg EngineConfig)
	Start() error
	Stop() error
}
