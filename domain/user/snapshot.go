/*
Package user describes the read-only view of users owned by the external user service.
*/
package user

import "context"

// Snapshot user data as reported by the user service
type Snapshot struct {
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	BirthDate string `json:"birthDate"`
	Email     string `json:"email"`
}

// Directory is a best-effort lookup of users.
// ok is false whenever the user is unknown or the directory is unreachable; it never fails the caller.
type Directory interface {
	Fetch(ctx context.Context, userID string) (snapshot Snapshot, ok bool)
}
