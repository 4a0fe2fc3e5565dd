// Package models defines the typed payloads cached by the console. Each
// query-key family has its own concrete type, so cached data keeps its shape
// instead of living as raw JSON.
package models

import "time"

// AdminStatus is the approval state of an admin account. The transition is
// one-way: a pending account is either approved or removed outright on
// rejection. There is no path back to pending.
type AdminStatus string

const (
	AdminStatusPending  AdminStatus = "pending"
	AdminStatusApproved AdminStatus = "approved"
)

// DocumentStatus is the identity-document verification state. Both verified
// and rejected are terminal.
type DocumentStatus string

const (
	DocumentNotVerified DocumentStatus = "notVerified"
	DocumentVerified    DocumentStatus = "verified"
	DocumentRejected    DocumentStatus = "rejected"
)

type User struct {
	ID             string         `json:"_id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Status         AdminStatus    `json:"status"`
	DocumentStatus DocumentStatus `json:"documentStatus"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// UserList mirrors the list responses of the admin API.
type UserList struct {
	Users []User `json:"users"`
}

// Remove returns a copy of the list without the user with the given id.
func (l UserList) Remove(id string) UserList {
	out := UserList{Users: make([]User, 0, len(l.Users))}
	for _, u := range l.Users {
		if u.ID != id {
			out.Users = append(out.Users, u)
		}
	}
	return out
}

// Prepend returns a copy of the list with u inserted at the front.
func (l UserList) Prepend(u User) UserList {
	out := UserList{Users: make([]User, 0, len(l.Users)+1)}
	out.Users = append(out.Users, u)
	out.Users = append(out.Users, l.Users...)
	return out
}

// UserCount is the aggregate returned by /totalUsers.
type UserCount struct {
	Users int `json:"users"`
}

// UserDetails wraps the single-user detail response.
type UserDetails struct {
	User User `json:"user"`
}

// UserDocuments is the identity-document view for one user.
type UserDocuments struct {
	UserID         string         `json:"userId"`
	DocumentStatus DocumentStatus `json:"documentStatus"`
	DocumentURLs   []string       `json:"documents"`
}
