package services

// Session identifies who is acting. It is passed into every operation
// instead of living in package state.
type Session struct {
	UserID    string
	CompanyID string
}
