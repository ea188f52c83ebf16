package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
)

type userMeta struct {
	name        string
	role        Role
	connectedAt time.Time
}

// room is the live connection state for one session: connection and presence
// per participant id, join order for snapshots, and the phase echoed to new
// joiners. Rooms are created lazily and dropped once empty.
type room struct {
	mu       sync.Mutex
	conns    map[string]Conn
	meta     map[string]userMeta
	order    []string
	phase    string
	lastSeen map[string]time.Time
}

func newRoom() *room {
	return &room{
		conns:    make(map[string]Conn),
		meta:     make(map[string]userMeta),
		lastSeen: make(map[string]time.Time),
	}
}

// Hub is the per-process registry of rooms. The hub lock only guards the
// room map; each room serializes its own joins, leaves, snapshots and
// broadcasts, so distinct sessions proceed fully in parallel.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*room
	now   func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]*room),
		now:   time.Now,
	}
}

func (h *Hub) getRoom(sessionID string, create bool) *room {
	h.mu.RLock()
	r := h.rooms[sessionID]
	h.mu.RUnlock()
	if r != nil || !create {
		return r
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if r = h.rooms[sessionID]; r == nil {
		r = newRoom()
		h.rooms[sessionID] = r
	}
	return r
}

func (h *Hub) dropIfEmpty(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r := h.rooms[sessionID]
	if r == nil {
		return
	}
	r.mu.Lock()
	empty := len(r.conns) == 0
	r.mu.Unlock()
	if empty {
		delete(h.rooms, sessionID)
	}
}

// Join registers a connection for a participant, replacing and closing any
// prior connection for the same id with the dedicated replacement code. The
// welcome snapshot is sent to the joiner before anyone else hears about the
// join, and both happen under the room lock so a concurrent phase change
// cannot interleave between them.
func (h *Hub) Join(sessionID, userID, name string, role Role, conn Conn) {
	r := h.getRoom(sessionID, true)
	r.mu.Lock()
	defer r.mu.Unlock()

	now := h.now()
	if prev, ok := r.conns[userID]; ok {
		if prev != conn {
			prev.CloseWithCode(CloseReplaced, ReasonReplaced)
		}
	} else {
		r.order = append(r.order, userID)
	}
	r.conns[userID] = conn
	r.meta[userID] = userMeta{name: name, role: role, connectedAt: now}
	r.lastSeen[userID] = now

	welcome := Welcome(sessionID, You{UserID: userID, Role: role, Name: name}, r.snapshotLocked(sessionID))
	if data, err := json.Marshal(welcome); err == nil {
		if err := conn.Send(data); err != nil {
			log.Printf("ws: welcome write error for %s: %v", userID, err)
		}
	}

	r.broadcastLocked(UserJoined(sessionID, UserSummary{
		UserID:      userID,
		Name:        name,
		Role:        role,
		ConnectedAt: now.UnixMilli(),
	}), userID)

	log.Printf("ws: %s joined session %s (total: %d)", userID, sessionID, len(r.conns))
}

// Leave removes a participant on an explicit leave request and notifies the
// room. The connection itself is closed by the caller.
func (h *Hub) Leave(sessionID, userID string) {
	r := h.getRoom(sessionID, false)
	if r == nil {
		return
	}

	r.mu.Lock()
	if _, ok := r.conns[userID]; !ok {
		r.mu.Unlock()
		return
	}
	r.removeLocked(userID)
	r.broadcastLocked(UserLeft(sessionID, userID), "")
	empty := len(r.conns) == 0
	r.mu.Unlock()

	log.Printf("ws: %s left session %s", userID, sessionID)
	if empty {
		h.dropIfEmpty(sessionID)
	}
}

// Disconnect removes a participant when its transport closes. It is a
// compare-and-delete: if the registered connection is no longer the one that
// closed, a newer reconnection has taken the slot and must not be evicted.
func (h *Hub) Disconnect(sessionID, userID string, conn Conn) {
	r := h.getRoom(sessionID, false)
	if r == nil {
		return
	}

	r.mu.Lock()
	cur, ok := r.conns[userID]
	if !ok || cur != conn {
		r.mu.Unlock()
		return
	}
	r.removeLocked(userID)
	r.broadcastLocked(UserLeft(sessionID, userID), "")
	empty := len(r.conns) == 0
	r.mu.Unlock()

	log.Printf("ws: %s disconnected from session %s", userID, sessionID)
	if empty {
		h.dropIfEmpty(sessionID)
	}
}

// Broadcast fans an event out to every live connection of a session, except
// exceptUserID when non-empty.
func (h *Hub) Broadcast(sessionID string, msg ServerMessage, exceptUserID string) {
	r := h.getRoom(sessionID, false)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcastLocked(msg, exceptUserID)
}

// Snapshot returns the room's phase and present participants in join order.
func (h *Hub) Snapshot(sessionID string) RoomSnapshot {
	r := h.getRoom(sessionID, false)
	if r == nil {
		return RoomSnapshot{SessionID: sessionID, Users: []UserSummary{}}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked(sessionID)
}

// SetPhase records the phase echoed to new joiners of the session.
func (h *Hub) SetPhase(sessionID, phase string) {
	r := h.getRoom(sessionID, true)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phase = phase
}

// NotifyPhase records the phase and broadcasts the change in one step under
// the room lock, so the phase new joiners see and the events in flight can
// never disagree. It implements services.PhaseNotifier.
func (h *Hub) NotifyPhase(sessionID, phase, byUserID string) {
	r := h.getRoom(sessionID, true)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phase = phase
	r.broadcastLocked(PhaseChanged(sessionID, phase, byUserID), "")
}

// Touch records heartbeat activity for a participant.
func (h *Hub) Touch(sessionID, userID string) {
	r := h.getRoom(sessionID, false)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[userID]; ok {
		r.lastSeen[userID] = h.now()
	}
}

// CloseStale force-closes connections with no activity within threshold and
// removes them from their rooms. Transport-level close events remain the
// usual leave signal; this catches half-open connections that stopped
// pinging without ever closing.
func (h *Hub) CloseStale(threshold time.Duration) int {
	h.mu.RLock()
	rooms := make(map[string]*room, len(h.rooms))
	for id, r := range h.rooms {
		rooms[id] = r
	}
	h.mu.RUnlock()

	cutoff := h.now().Add(-threshold)
	closed := 0
	for sessionID, r := range rooms {
		r.mu.Lock()
		var stale []string
		for userID, seen := range r.lastSeen {
			if seen.Before(cutoff) {
				stale = append(stale, userID)
			}
		}
		for _, userID := range stale {
			if conn, ok := r.conns[userID]; ok {
				conn.CloseWithCode(CloseHeartbeatTimeout, ReasonHeartbeatTimeout)
			}
			r.removeLocked(userID)
			r.broadcastLocked(UserLeft(sessionID, userID), "")
			closed++
		}
		empty := len(r.conns) == 0
		r.mu.Unlock()
		if empty {
			h.dropIfEmpty(sessionID)
		}
	}
	return closed
}

// StartReaper sweeps for stale connections on interval until ctx is done.
func (h *Hub) StartReaper(ctx context.Context, interval, threshold time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := h.CloseStale(threshold); n > 0 {
					log.Printf("ws: reaped %d stale connections", n)
				}
			}
		}
	}()
}

func (r *room) removeLocked(userID string) {
	delete(r.conns, userID)
	delete(r.meta, userID)
	delete(r.lastSeen, userID)
	for i, id := range r.order {
		if id == userID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *room) snapshotLocked(sessionID string) RoomSnapshot {
	users := make([]UserSummary, 0, len(r.order))
	for _, userID := range r.order {
		m, ok := r.meta[userID]
		if !ok {
			continue
		}
		users = append(users, UserSummary{
			UserID:      userID,
			Name:        m.name,
			Role:        m.role,
			ConnectedAt: m.connectedAt.UnixMilli(),
		})
	}
	return RoomSnapshot{SessionID: sessionID, Phase: r.phase, Users: users}
}

// broadcastLocked serializes the event once and sends best-effort: a failed
// write to one peer never stalls or aborts delivery to the rest. Eviction of
// broken peers is left to their own close events.
func (r *room) broadcastLocked(msg ServerMessage, exceptUserID string) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}
	for _, userID := range r.order {
		if exceptUserID != "" && userID == exceptUserID {
			continue
		}
		conn, ok := r.conns[userID]
		if !ok {
			continue
		}
		if err := conn.Send(data); err != nil {
			log.Printf("ws: write error to %s: %v", userID, err)
		}
	}
}
