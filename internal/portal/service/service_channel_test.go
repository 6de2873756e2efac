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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wachportal/wachportal/internal/portal/consts"
	"github.com/wachportal/wachportal/internal/portal/model"
	"github.com/wachportal/wachportal/pkg/cache"
	"github.com/wachportal/wachportal/pkg/event"
	"github.com/wachportal/wachportal/pkg/ws"
)

// fakeConn is an in-memory ws.Conn capturing written payloads.
type fakeConn struct {
	id  string
	ctx context.Context

	mu      sync.Mutex
	written []any
}

func newFakeConn(id string, auth model.AuthorizationContext) *fakeConn {
	return &fakeConn{
		id:  id,
		ctx: WithAuthContext(context.Background(), auth),
	}
}

func (f *fakeConn) ID() string                        { return f.id }
func (f *fakeConn) ReadMessage() (int, []byte, error) { return 0, nil, nil }
func (f *fakeConn) WriteMessage(int, []byte) error    { return nil }
func (f *fakeConn) ReadJSON(any) error                { return nil }
func (f *fakeConn) Close() error                      { return nil }
func (f *fakeConn) RemoteAddr() string                { return "test" }
func (f *fakeConn) Context() context.Context          { return f.ctx }
func (f *fakeConn) SetContext(ctx context.Context)    { f.ctx = ctx }

func (f *fakeConn) WriteJSON(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = append(f.written, v)
	return nil
}

func (f *fakeConn) payloads() []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]any(nil), f.written...)
}

func newTestChannelWith(t *testing.T, menuRepo *fakeMenuRepo, c cache.ICache) (*ChannelService, *fakeTenantRepo) {
	t.Helper()
	authorizer := NewRoleAuthorizer()
	bus := event.NewEventBus()
	registry := NewModuleRegistry(&fakeModuleRepo{}, authorizer, bus)
	tenantRepo := &fakeTenantRepo{flags: map[string]map[string]bool{
		"wache-nord": {consts.ModuleSchichtplan: true},
	}}
	gate := NewTenantModuleGate(tenantRepo, c, bus)
	composer := NewMenuComposer(registry, gate, menuRepo, authorizer)
	userRepo := &fakeUserRepo{users: map[string]*model.User{
		"u-2": {Uid: "u-2", Username: "mmeier", DisplayName: "M. Meier", Email: "mmeier@example.org"},
	}}
	return NewChannelService(ws.NewHub(), composer, gate, userRepo, bus), tenantRepo
}

func newTestChannel(t *testing.T) (*ChannelService, *fakeTenantRepo) {
	return newTestChannelWith(t, &fakeMenuRepo{}, nil)
}

func sendMessage(t *testing.T, svc *ChannelService, conn *fakeConn, msg model.ChannelMessage) {
	t.Helper()
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, svc.OnMessage(conn, ws.TextMessage, data))
}

func TestOnConnectRequiresIdentity(t *testing.T) {
	svc, _ := newTestChannel(t)

	conn := &fakeConn{id: "c-1", ctx: context.Background()}
	assert.Error(t, svc.OnConnect(conn))
}

func TestReadinessTriggersAuthData(t *testing.T) {
	svc, _ := newTestChannel(t)
	conn := newFakeConn("c-1", benutzerCtx)
	require.NoError(t, svc.OnConnect(conn))

	// nothing is pushed before the peer signals readiness
	assert.Empty(t, conn.payloads())

	sendMessage(t, svc, conn, model.ChannelMessage{Type: model.MsgIframeReady})

	written := conn.payloads()
	require.Len(t, written, 1)
	payload, ok := written[0].(model.AuthDataPayload)
	require.True(t, ok)

	assert.Equal(t, model.MsgAuthData, payload.Type)
	assert.Equal(t, benutzerCtx.Uid, payload.Data.Uid)
	require.NotNil(t, payload.Data.Profile)
	assert.Equal(t, "M. Meier", payload.Data.Profile.DisplayName)

	ids := make([]string, 0, len(payload.Modules))
	for _, mod := range payload.Modules {
		ids = append(ids, mod.Id)
	}
	assert.Contains(t, ids, consts.ModuleHome)
	assert.Contains(t, ids, consts.ModuleSchichtplan)
	assert.NotContains(t, ids, consts.ModuleChat)
	assert.NotEmpty(t, payload.MenuItems)
}

func TestModulesUpdatedReasonFilter(t *testing.T) {
	svc, _ := newTestChannel(t)
	conn := newFakeConn("c-1", benutzerCtx)
	require.NoError(t, svc.OnConnect(conn))

	// navigation noise is ignored
	sendMessage(t, svc, conn, model.ChannelMessage{Type: model.MsgModulesUpdated, Reason: "navigated"})
	assert.Empty(t, conn.payloads())

	// a persisted change triggers a fresh payload
	sendMessage(t, svc, conn, model.ChannelMessage{Type: model.MsgModulesUpdated, Reason: model.ReasonSaved})
	assert.Len(t, conn.payloads(), 1)
}

func TestModulesUpdatedPicksUpNewFlags(t *testing.T) {
	svc, tenantRepo := newTestChannel(t)
	conn := newFakeConn("c-1", benutzerCtx)
	require.NoError(t, svc.OnConnect(conn))

	tenantRepo.flags["wache-nord"][consts.ModuleChat] = true
	sendMessage(t, svc, conn, model.ChannelMessage{Type: model.MsgModulesUpdated, Reason: model.ReasonSaved})

	written := conn.payloads()
	require.Len(t, written, 1)
	payload := written[0].(model.AuthDataPayload)

	ids := make([]string, 0, len(payload.Modules))
	for _, mod := range payload.Modules {
		ids = append(ids, mod.Id)
	}
	assert.Contains(t, ids, consts.ModuleChat)
}

func TestModulesUpdatedRereadsMenuDocument(t *testing.T) {
	menuRepo := &fakeMenuRepo{}
	svc, _ := newTestChannelWith(t, menuRepo, nil)
	conn := newFakeConn("c-1", benutzerCtx)
	require.NoError(t, svc.OnConnect(conn))

	sendMessage(t, svc, conn, model.ChannelMessage{Type: model.MsgIframeReady})

	// a menu document appears behind the composer's cached tree
	menuRepo.items = []model.MenuEntry{
		{Id: consts.ModuleHome, Label: "Startseite", Kind: consts.MenuKindModule, Level: 0},
		{Id: "l-intranet", Label: "Intranet", Location: "https://intranet", Kind: consts.MenuKindCustom, Level: 0},
	}
	menuRepo.exists = true

	sendMessage(t, svc, conn, model.ChannelMessage{Type: model.MsgModulesUpdated, Reason: model.ReasonSaved})

	written := conn.payloads()
	require.Len(t, written, 2)
	payload := written[1].(model.AuthDataPayload)
	assert.Contains(t, flattenedIds(payload.MenuItems), "l-intranet")
}

func TestMenuUpdatedDropsTenantSnapshot(t *testing.T) {
	c := newFakeCache()
	svc, tenantRepo := newTestChannelWith(t, &fakeMenuRepo{}, c)
	conn := newFakeConn("c-1", benutzerCtx)
	require.NoError(t, svc.OnConnect(conn))

	// the first payload warms the cached enablement snapshot
	sendMessage(t, svc, conn, model.ChannelMessage{Type: model.MsgIframeReady})

	// the flag flips in the store while the snapshot is still warm
	tenantRepo.flags["wache-nord"][consts.ModuleChat] = true

	sendMessage(t, svc, conn, model.ChannelMessage{Type: model.MsgMenuUpdated})

	written := conn.payloads()
	require.Len(t, written, 2)
	payload := written[1].(model.AuthDataPayload)

	ids := make([]string, 0, len(payload.Modules))
	for _, mod := range payload.Modules {
		ids = append(ids, mod.Id)
	}
	assert.Contains(t, ids, consts.ModuleChat)
}

func TestMenuUpdatedResendsPayload(t *testing.T) {
	svc, _ := newTestChannel(t)
	conn := newFakeConn("c-1", benutzerCtx)
	require.NoError(t, svc.OnConnect(conn))

	sendMessage(t, svc, conn, model.ChannelMessage{Type: model.MsgMenuUpdated})
	written := conn.payloads()
	require.Len(t, written, 1)
	_, ok := written[0].(model.AuthDataPayload)
	assert.True(t, ok)
}

func TestNavigateToHomePassThrough(t *testing.T) {
	svc, _ := newTestChannel(t)
	conn := newFakeConn("c-1", benutzerCtx)
	require.NoError(t, svc.OnConnect(conn))

	sendMessage(t, svc, conn, model.ChannelMessage{Type: model.MsgNavigateToHome})

	written := conn.payloads()
	require.Len(t, written, 1)
	msg, ok := written[0].(model.ChannelMessage)
	require.True(t, ok)
	assert.Equal(t, model.MsgNavigateToHome, msg.Type)
	assert.Equal(t, "/home", msg.Target)
}

func TestUnknownMessageIgnored(t *testing.T) {
	svc, _ := newTestChannel(t)
	conn := newFakeConn("c-1", benutzerCtx)
	require.NoError(t, svc.OnConnect(conn))

	sendMessage(t, svc, conn, model.ChannelMessage{Type: "SOMETHING_ELSE"})
	assert.Empty(t, conn.payloads())
}

func TestDisconnectForgetsSession(t *testing.T) {
	svc, _ := newTestChannel(t)
	conn := newFakeConn("c-1", benutzerCtx)
	require.NoError(t, svc.OnConnect(conn))

	svc.OnDisconnect(conn, nil)

	// without a session the readiness signal is rejected
	data, err := json.Marshal(model.ChannelMessage{Type: model.MsgIframeReady})
	require.NoError(t, err)
	assert.Error(t, svc.OnMessage(conn, ws.TextMessage, data))
}
