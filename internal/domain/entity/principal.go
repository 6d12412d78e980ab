package entity

// Principal identifies the authenticated actor behind a request. It is
// resolved once from the bearer token and passed explicitly into every
// service call, never kept in ambient state.
type Principal struct {
	UserID    int64  `json:"user_id"`
	Role      string `json:"role"`
	CompanyID int64  `json:"company_id"`
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
