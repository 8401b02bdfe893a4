// Package model defines domain entities for the application.
package model

// User represents a user record in the collection.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserPatch carries a partial update. Nil fields are left unchanged.
type UserPatch struct {
	Name  *string
	Email *string
}

// Apply overwrites the fields of u that are set on the patch.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
}

// IsEmpty returns true if the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil
}
