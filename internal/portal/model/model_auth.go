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

// AuthorizationContext is the per-session identity resolved once at sign-in.
// It is immutable for the session's lifetime; a role or tenant change
// requires re-authentication.
type AuthorizationContext struct {
	Uid      string `json:"uid"`
	TenantId string `json:"tenantId"`
	Role     string `json:"role"`
}

// UserProfile is denormalized profile data handed to the content view
// together with the authorization payload.
type UserProfile struct {
	Uid         string `json:"uid"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// User is the persisted account record backing the profile lookup.
type User struct {
	BaseModel
	Uid         string `gorm:"column:uid;not null;uniqueIndex" json:"uid"`
	Username    string `gorm:"column:username;not null" json:"username"`
	DisplayName string `gorm:"column:display_name" json:"displayName"`
	Email       string `gorm:"column:email" json:"email"`
	TenantId    string `gorm:"column:tenant_id;index" json:"tenantId"`
	Role        string `gorm:"column:role" json:"role"`
}

func (u *User) TableName() string {
	return "t_user"
}
