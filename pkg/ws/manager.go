// Copyright 2025 Wachportal Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ws

import (
	"sync"
)

// DefaultHub is the default connection manager.
type DefaultHub struct {
	conns map[string]Conn
	mu    sync.RWMutex
}

// NewHub creates a new connection manager.
func NewHub() Hub {
	return &DefaultHub{
		conns: make(map[string]Conn),
	}
}

// Register registers a new connection.
func (h *DefaultHub) Register(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn.ID()] = conn
}

// Unregister removes a connection.
func (h *DefaultHub) Unregister(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[conn.ID()]; ok {
		delete(h.conns, conn.ID())
		_ = conn.Close()
	}
}

// BroadcastJSON sends a JSON message to all connections.
func (h *DefaultHub) BroadcastJSON(v any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, conn := range h.conns {
		go func(c Conn) {
			_ = c.WriteJSON(v)
		}(conn)
	}
}

// SendToIDJSON sends a JSON message to the connection with the given ID.
func (h *DefaultHub) SendToIDJSON(id string, v any) error {
	h.mu.RLock()
	conn, ok := h.conns[id]
	h.mu.RUnlock()

	if !ok {
		return ErrConnNotFound
	}

	return conn.WriteJSON(v)
}

// GetConn returns the connection with the given ID.
func (h *DefaultHub) GetConn(id string) (Conn, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	conn, ok := h.conns[id]
	return conn, ok
}

// Count returns the current number of connections.
func (h *DefaultHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
