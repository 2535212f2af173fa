package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xpanvictor/linguavox/pkg/Logger"
)

// ConnectionManager tracks live page sessions and reaps idle ones
type ConnectionManager struct {
	logger         *Logger.Logger
	sessions       map[uuid.UUID]*Session
	mutex          sync.RWMutex
	cleanupTicker  *time.Ticker
	stopCleanup    chan struct{}
	closeOnce      sync.Once
	sessionTimeout time.Duration
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager(logger *Logger.Logger, sessionTimeout time.Duration) *ConnectionManager {
	if sessionTimeout <= 0 {
		sessionTimeout = 30 * time.Minute
	}
	cm := &ConnectionManager{
		logger:         logger,
		sessions:       make(map[uuid.UUID]*Session),
		stopCleanup:    make(chan struct{}),
		sessionTimeout: sessionTimeout,
	}

	cm.startCleanupRoutine()

	return cm
}

// RegisterConnection registers a new session
func (cm *ConnectionManager) RegisterConnection(session *Session) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	cm.sessions[session.SessionID] = session
	cm.logger.Infof("Registered session %s", session.SessionID)
}

// UnregisterConnection closes and forgets a session
func (cm *ConnectionManager) UnregisterConnection(sessionID uuid.UUID) {
	cm.mutex.Lock()
	session, exists := cm.sessions[sessionID]
	delete(cm.sessions, sessionID)
	cm.mutex.Unlock()

	if !exists {
		return
	}
	cm.logger.Infof("Unregistering session %s (connected for %v)", sessionID, time.Since(session.ConnectedAt))
	if err := session.Close(); err != nil {
		cm.logger.Debugf("Error closing session %s: %v", sessionID, err)
	}
}

func (cm *ConnectionManager) startCleanupRoutine() {
	cm.cleanupTicker = time.NewTicker(5 * time.Minute)

	go func() {
		for {
			select {
			case <-cm.cleanupTicker.C:
				cm.cleanupExpiredSessions()
			case <-cm.stopCleanup:
				cm.cleanupTicker.Stop()
				return
			}
		}
	}()
}

func (cm *ConnectionManager) cleanupExpiredSessions() {
	cm.mutex.Lock()
	expired := make([]*Session, 0)
	for id, session := range cm.sessions {
		if session.IsExpired(cm.sessionTimeout) {
			expired = append(expired, session)
			delete(cm.sessions, id)
		}
	}
	cm.mutex.Unlock()

	for _, session := range expired {
		cm.logger.Infof("Cleaning up expired session %s", session.SessionID)
		_ = session.Close()
	}
	if len(expired) > 0 {
		cm.logger.Infof("Cleaned up %d expired sessions", len(expired))
	}
}

// Close shuts down the connection manager
func (cm *ConnectionManager) Close() error {
	cm.closeOnce.Do(func() { close(cm.stopCleanup) })

	cm.mutex.Lock()
	sessions := cm.sessions
	cm.sessions = make(map[uuid.UUID]*Session)
	cm.mutex.Unlock()

	for id, session := range sessions {
		cm.logger.Infof("Closing session %s", id)
		if err := session.Close(); err != nil {
			cm.logger.Errorf("Error closing session %s: %v", id, err)
		}
	}

	cm.logger.Infof("Connection manager closed")
	return nil
}

// GetStats returns connection manager statistics
func (cm *ConnectionManager) GetStats() map[string]interface{} {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	sessionStats := make([]map[string]interface{}, 0, len(cm.sessions))
	for _, session := range cm.sessions {
		sessionStats = append(sessionStats, map[string]interface{}{
			"session_id":   session.SessionID.String(),
			"client_id":    session.ClientID(),
			"connected_at": session.ConnectedAt,
			"last_active":  session.LastActive(),
			"state":        session.Controller.State(),
		})
	}

	return map[string]interface{}{
		"active_sessions": len(cm.sessions),
		"session_timeout": cm.sessionTimeout.String(),
		"sessions":        sessionStats,
	}
}
