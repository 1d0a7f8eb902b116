package user

// User represents a user registered at the vendor's identity service.
// Values are taken verbatim from the user listing API and are never modified afterwards.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	TenantID string `json:"tenantId"`
}

// Session represents an active session of a single user.
// CreatedAt is kept as the raw string the API returned so that it can be reported unchanged.
type Session struct {
	ID        string `json:"id,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
	IPAddress string `json:"ipAddress,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// LatestSession returns the session assumed to be the most recent one.
// The vendor API does not document the ordering of the session list; the first entry is used.
func LatestSession(sessions []Session) (Session, bool) {
	if len(sessions) == 0 {
		return Session{}, false
	}
	return sessions[0], true
}
