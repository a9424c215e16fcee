package webclient

import (
	"fmt"
	"net/http"
)

type AuthType string

const (
	AuthNone   AuthType = "no_auth"
	AuthBasic  AuthType = "basic"
	AuthBearer AuthType = "bearer"
)

type BasicAuth struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type BearerAuth struct {
	Token string `json:"token"`
}

// AuthConfig selects one authentication variant per request. A nil config,
// an empty AuthType, or a variant without its payload behaves as no-auth.
type AuthConfig struct {
	AuthType AuthType    `json:"auth_type"`
	Basic    *BasicAuth  `json:"basic,omitempty"`
	Bearer   *BearerAuth `json:"bearer,omitempty"`
}

// Validate rejects unknown auth types.
func (a *AuthConfig) Validate() error {
	if a == nil {
		return nil
	}
	switch a.AuthType {
	case "", AuthNone, AuthBasic, AuthBearer:
		return nil
	default:
		return fmt.Errorf("unsupported auth_type %q", a.AuthType)
	}
}

// apply injects credentials into an already header-merged request. Basic
// credentials go through the transport's Basic mechanism; a bearer token never
// replaces an Authorization header the caller set explicitly.
func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	switch a.AuthType {
	case AuthBasic:
		if a.Basic != nil {
			req.SetBasicAuth(a.Basic.Username, a.Basic.Password)
		}
	case AuthBearer:
		if a.Bearer != nil && a.Bearer.Token != "" && req.Header.Get("Authorization") == "" {
			req.Header.Set("Authorization", "Bearer "+a.Bearer.Token)
		}
	}
}
