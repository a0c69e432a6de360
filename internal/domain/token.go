package domain

import "time"

// TokenClaims represents session JWT claims. The session token carries only
// the user id; everything else is resolved from the store on demand.
type TokenClaims struct {
	UserID string `json:"user_id"`
	Exp    int64  `json:"exp"`
	Iat    int64  `json:"iat"`
}

// IsExpired checks if the token is expired
func (tc TokenClaims) IsExpired() bool {
	return time.Now().Unix() > tc.Exp
}
