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

package model

// Message types exchanged on the cross-frame channel.
const (
	MsgIframeReady    = "IFRAME_READY"
	MsgModulesUpdated = "MODULES_UPDATED"
	MsgMenuUpdated    = "MENU_UPDATED"
	MsgNavigateToHome = "NAVIGATE_TO_HOME"
	MsgAuthData       = "AUTH_DATA"
)

// ReasonSaved is the only MODULES_UPDATED reason that triggers a reload;
// anything else is incidental navigation noise.
const ReasonSaved = "saved"

// ChannelMessage is a message received from the content view.
type ChannelMessage struct {
	Type   string `json:"type"`
	Reason string `json:"reason,omitempty"`
	Target string `json:"target,omitempty"`
}

// AuthDataPayload is the full authorization payload sent to the content
// view, exactly once per readiness signal.
type AuthDataPayload struct {
	Type      string           `json:"type"`
	Data      AuthData         `json:"data"`
	Modules   []ModuleInfo     `json:"modules"`
	MenuItems []FlattenedEntry `json:"menuItems"`
}

// AuthData combines the session identity with pre-fetched profile data.
type AuthData struct {
	AuthorizationContext
	Profile *UserProfile `json:"profile,omitempty"`
}
