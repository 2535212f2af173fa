package recognition

import (
	"context"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
)

// Session is one capture session. It lives until an explicit stop or an
// engine error brings it back to Idle; automatic restarts keep it.
type Session struct {
	ID           uuid.UUID
	machine      *fsm.FSM
	restartOnEnd bool
	locale       string
}

// States:
//
//	idle -start-> listening -stop-> stopping -end-> idle
//	listening -end-> idle (engine timeout, restarted by the controller)
//	listening|stopping -fail-> idle
func newSession(onEnter func(State)) *Session {
	s := &Session{ID: uuid.New()}
	s.machine = fsm.NewFSM(
		string(Idle),
		fsm.Events{
			{Name: eventStart, Src: []string{string(Idle)}, Dst: string(Listening)},
			{Name: eventStop, Src: []string{string(Listening)}, Dst: string(Stopping)},
			{Name: eventFail, Src: []string{string(Listening), string(Stopping)}, Dst: string(Idle)},
			{Name: eventEnd, Src: []string{string(Listening), string(Stopping)}, Dst: string(Idle)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				if onEnter != nil {
					onEnter(State(e.Dst))
				}
			},
		},
	)
	return s
}

func (s *Session) State() State {
	return State(s.machine.Current())
}

func (s *Session) fire(ctx context.Context, event string) error {
	return s.machine.Event(ctx, event)
}
