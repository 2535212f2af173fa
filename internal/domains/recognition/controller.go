package recognition

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/xpanvictor/linguavox/internal/domains/translation"
	"github.com/xpanvictor/linguavox/pkg/Logger"
)

// Config wires the controller to its surroundings. Callbacks run after the
// controller lock is released, in the order the events happened.
type Config struct {
	SourceLanguage translation.Language
	OnTranscript   func(transcript string)
	OnStateChange  func(state State)
	OnStatus       func(message string)
}

// Controller drives continuous capture on top of an engine that only
// recognises one utterance per session, restarting it whenever it ends on
// its own. Engine implementations must not call back into the controller
// synchronously from Configure, Start or Stop.
type Controller struct {
	mu             sync.Mutex
	engine         Engine
	cfg            Config
	sourceLanguage translation.Language
	session        *Session
	unavailable    bool
	pending        []func()
	logger         *Logger.Logger
}

func NewController(engine Engine, cfg Config, logger *Logger.Logger) *Controller {
	c := &Controller{
		engine:         engine,
		cfg:            cfg,
		sourceLanguage: cfg.SourceLanguage,
		logger:         logger.Named("recognition"),
	}
	c.session = c.newSession()
	if engine == nil {
		c.MarkUnavailable(context.Background())
	}
	return c
}

// Start begins capture with the locale of the current source language.
// Starting while Listening is a no-op.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	err := c.start(ctx)
	c.unlockAndDispatch()
	return err
}

func (c *Controller) start(ctx context.Context) error {
	if c.unavailable {
		return ErrUnavailable
	}
	switch c.session.State() {
	case Listening:
		return nil
	case Stopping:
		return ErrBusy
	}
	return c.startSession(ctx, translation.LocaleFor(c.sourceLanguage))
}

func (c *Controller) startSession(ctx context.Context, locale string) error {
	c.engine.Configure(EngineConfig{Locale: locale, Continuous: true, InterimResults: false})
	c.session.locale = locale
	if err := c.session.fire(ctx, eventStart); err != nil {
		return fmt.Errorf("start recognition: %w", err)
	}
	c.session.restartOnEnd = true
	if err := c.engine.Start(); err != nil {
		c.logger.Errorf("recognition engine refused to start: %v", err)
		c.fail(ctx)
		return fmt.Errorf("start recognition engine: %w", err)
	}
	c.logger.Infof("listening session=%s locale=%s", c.session.ID, locale)
	return nil
}

// Stop asks the engine to halt. The session reaches Idle on the engine's end
// event and is not restarted. Stop outside Listening is a no-op.
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.unlockAndDispatch()

	if c.session.State() != Listening {
		c.logger.Debugf("stop ignored in state %s", c.session.State())
		return nil
	}
	if err := c.session.fire(ctx, eventStop); err != nil {
		return fmt.Errorf("stop recognition: %w", err)
	}
	c.session.restartOnEnd = false
	if err := c.engine.Stop(); err != nil {
		c.logger.Errorf("recognition engine refused to stop: %v", err)
		c.fail(ctx)
		return fmt.Errorf("stop recognition engine: %w", err)
	}
	return nil
}

// HandleStart records the engine's start acknowledgement.
func (c *Controller) HandleStart() {
	c.mu.Lock()
	defer c.unlockAndDispatch()
	c.logger.Debugf("recognition started session=%s", c.session.ID)
}

// HandleResult forwards the transcript of the latest recognised segment.
// Results still arrive while Stopping because a graceful stop flushes the
// utterance in progress.
func (c *Controller) HandleResult(transcript string) {
	c.mu.Lock()
	defer c.unlockAndDispatch()

	switch c.session.State() {
	case Listening, Stopping:
		c.logger.Debugf("recognized text: %q", transcript)
		if c.cfg.OnTranscript != nil {
			c.pending = append(c.pending, func() { c.cfg.OnTranscript(transcript) })
		}
	default:
		c.logger.Debugf("result dropped while idle")
	}
}

// HandleError ends the session. Engine errors are never retried.
func (c *Controller) HandleError(ctx context.Context, code string) {
	c.mu.Lock()
	defer c.unlockAndDispatch()

	c.logger.Errorf("speech recognition error: %s (session=%s)", code, c.session.ID)
	c.fail(ctx)
}

// HandleEnd resolves the stop/end race: the restart decision reads the flag
// now, so an end that arrives after Stop never resurrects the session.
func (c *Controller) HandleEnd(ctx context.Context) {
	c.mu.Lock()
	defer c.unlockAndDispatch()

	if c.session.State() == Idle {
		// engines emit end after error as well
		return
	}
	restart := c.session.restartOnEnd
	locale := c.session.locale
	if err := c.session.fire(ctx, eventEnd); err != nil {
		c.logger.Errorf("recognition end: %v", err)
		return
	}
	if !restart {
		c.logger.Infof("recognition ended session=%s", c.session.ID)
		c.session = c.newSession()
		return
	}
	if err := c.startSession(ctx, locale); err != nil {
		c.logger.Errorf("recognition restart failed: %v", err)
	}
}

// MarkUnavailable disables the controller for good. The status message is
// reported only the first time.
func (c *Controller) MarkUnavailable(ctx context.Context) {
	c.mu.Lock()
	defer c.unlockAndDispatch()

	if c.unavailable {
		return
	}
	c.unavailable = true
	c.fail(ctx)
	if c.cfg.OnStatus != nil {
		c.pending = append(c.pending, func() { c.cfg.OnStatus(UnsupportedMessage) })
	}
}

// Reset abandons the current session without asking the engine, used when
// the host goes away.
func (c *Controller) Reset(ctx context.Context) {
	c.mu.Lock()
	defer c.unlockAndDispatch()
	c.fail(ctx)
}

// SetSourceLanguage changes the capture language; only allowed while Idle.
func (c *Controller) SetSourceLanguage(lang translation.Language) error {
	c.mu.Lock()
	defer c.unlockAndDispatch()

	if c.session.State() != Idle {
		return ErrBusy
	}
	c.sourceLanguage = lang
	return nil
}

func (c *Controller) SourceLanguage() translation.Language {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sourceLanguage
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.State()
}

func (c *Controller) SessionID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.ID
}

func (c *Controller) Available() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.unavailable
}

// fail moves to Idle, clears the restart flag and replaces the session.
func (c *Controller) fail(ctx context.Context) {
	c.session.restartOnEnd = false
	if c.session.State() != Idle {
		if err := c.session.fire(ctx, eventFail); err != nil {
			c.logger.Errorf("recognition fail transition: %v", err)
		}
	}
	c.session = c.newSession()
}

func (c *Controller) newSession() *Session {
	return newSession(func(s State) {
		if c.cfg.OnStateChange != nil {
			c.pending = append(c.pending, func() { c.cfg.OnStateChange(s) })
		}
	})
}

func (c *Controller) unlockAndDispatch() {
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}
