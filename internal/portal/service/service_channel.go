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

package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/wachportal/wachportal/internal/portal/consts"
	"github.com/wachportal/wachportal/internal/portal/model"
	"github.com/wachportal/wachportal/internal/portal/repo"
	"github.com/wachportal/wachportal/pkg/event"
	"github.com/wachportal/wachportal/pkg/log"
	"github.com/wachportal/wachportal/pkg/metrics"
	"github.com/wachportal/wachportal/pkg/retry"
	"github.com/wachportal/wachportal/pkg/safe"
	"github.com/wachportal/wachportal/pkg/ws"
)

type authCtxKey struct{}

// WithAuthContext attaches the session identity to a context for handoff
// into the channel connection.
func WithAuthContext(ctx context.Context, auth model.AuthorizationContext) context.Context {
	return context.WithValue(ctx, authCtxKey{}, auth)
}

// AuthFromContext extracts the session identity placed by WithAuthContext.
func AuthFromContext(ctx context.Context) (model.AuthorizationContext, bool) {
	auth, ok := ctx.Value(authCtxKey{}).(model.AuthorizationContext)
	return auth, ok
}

var errConnUnauthenticated = errors.New("channel connection carries no session identity")

// ChannelService bridges the portal shell and the embedded content view.
// The content view announces readiness with IFRAME_READY; the service
// answers with the full AUTH_DATA payload, once per readiness signal, and
// pushes fresh payloads when the menu document or module flags change.
type ChannelService struct {
	hub      ws.Hub
	composer *MenuComposer
	gate     *TenantModuleGate
	userRepo repo.IUserRepository

	mu       sync.RWMutex
	sessions map[string]model.AuthorizationContext
}

func NewChannelService(hub ws.Hub, composer *MenuComposer, gate *TenantModuleGate, userRepo repo.IUserRepository, bus *event.EventBus) *ChannelService {
	s := &ChannelService{
		hub:      hub,
		composer: composer,
		gate:     gate,
		userRepo: userRepo,
		sessions: make(map[string]model.AuthorizationContext),
	}
	if bus != nil {
		bus.RegisterHandler(consts.EventMenuUpdated, event.HandlerFunc(func(event.Event) {
			s.composer.InvalidateTree()
			s.pushAll(nil)
		}))
		bus.RegisterHandler(consts.EventModulesUpdated, event.HandlerFunc(func(e event.Event) {
			if evt, ok := e.(ModulesUpdatedEvent); ok {
				s.pushAll(func(auth model.AuthorizationContext) bool {
					return auth.TenantId == evt.TenantId
				})
				return
			}
			s.pushAll(nil)
		}))
	}
	return s
}

// OnConnect records the session identity. Nothing is sent yet; the payload
// waits for the peer's readiness signal.
func (s *ChannelService) OnConnect(conn ws.Conn) error {
	auth, ok := AuthFromContext(conn.Context())
	if !ok {
		return errConnUnauthenticated
	}
	s.mu.Lock()
	s.sessions[conn.ID()] = auth
	s.mu.Unlock()
	log.Debugw("channel connected", "connId", conn.ID(), "uid", auth.Uid, "tenantId", auth.TenantId)
	return nil
}

func (s *ChannelService) OnMessage(conn ws.Conn, messageType int, data []byte) error {
	if messageType != ws.TextMessage {
		return nil
	}

	var msg model.ChannelMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return errors.Wrap(err, "decode channel message")
	}

	auth, ok := s.session(conn.ID())
	if !ok {
		return errConnUnauthenticated
	}

	switch msg.Type {
	case model.MsgIframeReady:
		s.sendAuthData(conn, auth)
	case model.MsgModulesUpdated:
		// Only a persisted change warrants a reload; navigation echoes
		// carry other reasons and are ignored.
		if msg.Reason != model.ReasonSaved {
			return nil
		}
		s.invalidate(conn.Context(), auth.TenantId)
		s.sendAuthData(conn, auth)
	case model.MsgMenuUpdated:
		s.invalidate(conn.Context(), auth.TenantId)
		s.sendAuthData(conn, auth)
	case model.MsgNavigateToHome:
		return conn.WriteJSON(model.ChannelMessage{
			Type:   model.MsgNavigateToHome,
			Target: "/home",
		})
	default:
		log.Debugw("channel message ignored", "type", msg.Type)
	}
	return nil
}

func (s *ChannelService) OnDisconnect(conn ws.Conn, err error) {
	s.mu.Lock()
	delete(s.sessions, conn.ID())
	s.mu.Unlock()
	if err != nil {
		log.Debugw("channel disconnected", "connId", conn.ID(), "err", err)
		return
	}
	log.Debugw("channel disconnected", "connId", conn.ID())
}

func (s *ChannelService) OnError(conn ws.Conn, err error) {
	log.Warnw("channel error", "connId", conn.ID(), "err", err)
}

// invalidate resets the cached tree and the tenant's enablement snapshot.
// Both reload triggers drop both, so the following pass always composes
// from fresh state.
func (s *ChannelService) invalidate(ctx context.Context, tenantId string) {
	s.composer.InvalidateTree()
	s.gate.Invalidate(ctx, tenantId)
}

func (s *ChannelService) session(connId string) (model.AuthorizationContext, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	auth, ok := s.sessions[connId]
	return auth, ok
}

// sendAuthData delivers the payload with a bounded fixed-interval retry.
// A composition pass can be dropped while another is running; retrying
// re-triggers it from fresh state. When the budget runs out the handshake
// is abandoned silently, leaving the peer to its last known state.
func (s *ChannelService) sendAuthData(conn ws.Conn, auth model.AuthorizationContext) {
	ctx := conn.Context()
	err := retry.Do(ctx, func(ctx context.Context) error {
		result, ok := s.composer.Compose(ctx, auth)
		if !ok {
			return errors.New("composition pass in flight")
		}
		return conn.WriteJSON(s.buildPayload(ctx, auth, result))
	},
		retry.WithMaxAttempts(consts.HandshakeRetryAttempts),
		retry.WithBackoff(retry.Fixed(consts.HandshakeRetryInterval)),
	)
	if err != nil {
		metrics.HandshakeRetriesExhausted.Inc()
		log.Warnw("auth handshake abandoned", "connId", conn.ID(), "uid", auth.Uid, "err", err)
	}
}

func (s *ChannelService) buildPayload(ctx context.Context, auth model.AuthorizationContext, result *model.ComposedResult) model.AuthDataPayload {
	payload := model.AuthDataPayload{
		Type:      model.MsgAuthData,
		Data:      model.AuthData{AuthorizationContext: auth},
		Modules:   s.composer.Modules(ctx, auth),
		MenuItems: result.Flattened,
	}
	if user, err := s.userRepo.GetByUid(auth.Uid); err == nil {
		payload.Data.Profile = &model.UserProfile{
			Uid:         user.Uid,
			Username:    user.Username,
			DisplayName: user.DisplayName,
			Email:       user.Email,
		}
	} else {
		log.Debugw("profile lookup failed", "uid", auth.Uid, "err", err)
	}
	return payload
}

// pushAll re-sends the payload to every live connection matching the
// filter. Sends run off the event path so a slow peer never stalls the
// publisher.
func (s *ChannelService) pushAll(match func(model.AuthorizationContext) bool) {
	s.mu.RLock()
	targets := make(map[string]model.AuthorizationContext, len(s.sessions))
	for connId, auth := range s.sessions {
		if match == nil || match(auth) {
			targets[connId] = auth
		}
	}
	s.mu.RUnlock()

	for connId, auth := range targets {
		conn, ok := s.hub.GetConn(connId)
		if !ok {
			continue
		}
		c, a := conn, auth
		safe.Go(func() {
			s.sendAuthData(c, a)
		})
	}
}
