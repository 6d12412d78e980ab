package entity

import "time"

// User belongs to exactly one company. ManagerID is self-referential and the
// resulting graph must stay acyclic; that is enforced when a manager is
// assigned, not here.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CompanyID    int64     `json:"company_id"`
	ManagerID    *int64    `json:"manager_id,omitempty"`
	IsApprover   bool      `json:"is_approver"`
	CreatedAt    time.Time `json:"created_at"`
}

// CanApprove reports whether the user may sit in an approver pool.
func (u *User) CanApprove() bool {
	return u.IsApprover || u.Role == RoleAdmin
}
