// Package identity defines the requester value attached to every request by
// an entry adapter. How the value is obtained (OAuth session, bot gateway
// member lookup) is an adapter concern; the core only reads the claims.
package identity

// Requester is the identity acting on a request.
//
// IsAdmin is a capability claim derived at the adapter boundary (role
// membership on the web side, guild role on the Discord side). The lifecycle
// service trusts the claim as-is and never re-derives it mid-operation.
type Requester struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	IsAdmin     bool   `json:"isAdmin"`
}

// IsAuthenticated reports whether the requester carries an identity at all.
// A zero requester means "no capabilities".
func (r Requester) IsAuthenticated() bool {
	return r.ID != ""
}
