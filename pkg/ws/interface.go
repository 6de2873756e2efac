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
	"context"
)

// Conn represents a single websocket connection.
type Conn interface {
	// ID returns the unique identifier of the connection.
	ID() string

	// ReadMessage reads one message.
	ReadMessage() (messageType int, p []byte, err error)

	// WriteMessage writes one message.
	WriteMessage(messageType int, data []byte) error

	// WriteJSON writes a JSON message.
	WriteJSON(v any) error

	// ReadJSON reads a JSON message.
	ReadJSON(v any) error

	// Close closes the connection.
	Close() error

	// RemoteAddr returns the remote address.
	RemoteAddr() string

	// Context returns the connection context.
	Context() context.Context

	// SetContext sets the connection context.
	SetContext(ctx context.Context)
}

// Hub manages all websocket connections.
type Hub interface {
	// Register registers a new connection.
	Register(conn Conn)

	// Unregister removes a connection.
	Unregister(conn Conn)

	// BroadcastJSON sends a JSON message to all connections.
	BroadcastJSON(v any)

	// SendToIDJSON sends a JSON message to the connection with the given ID.
	SendToIDJSON(id string, v any) error

	// GetConn returns the connection with the given ID.
	GetConn(id string) (Conn, bool)

	// Count returns the current number of connections.
	Count() int
}

// Handler receives websocket lifecycle events.
type Handler interface {
	// OnConnect is called when a connection is established.
	OnConnect(conn Conn) error

	// OnMessage is called when a message arrives.
	OnMessage(conn Conn, messageType int, data []byte) error

	// OnDisconnect is called when a connection closes.
	OnDisconnect(conn Conn, err error)

	// OnError is called when an error occurs.
	OnError(conn Conn, err error)
}

// Websocket message type constants.
const (
	TextMessage   = 1
	BinaryMessage = 2
	CloseMessage  = 8
	PingMessage   = 9
	PongMessage   = 10
)
