package services

// Session is the authenticated identity attached to a request.
type Session struct {
	UserID string
	Email  string
	Role   string
}
