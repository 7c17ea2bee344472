package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of personnel roles.
type Role string

const (
	RoleOwner          Role = "Owner"
	RoleOperationsLead Role = "OperationsLead"
	RoleWarehouseStaff Role = "WarehouseStaff"
	RoleLogisticsLead  Role = "LogisticsLead"
)

var ErrUnknownRole = errors.New("unknown role")

// Roles lists every role, Owner first.
var Roles = []Role{RoleOwner, RoleOperationsLead, RoleWarehouseStaff, RoleLogisticsLead}

// ParseRole accepts the role identifier or the label used by the mobile app.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	for _, r := range Roles {
		if strings.EqualFold(s, string(r)) || s == r.Label() {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Label is the display name shown by the mobile app.
func (r Role) Label() string {
	switch r {
	case RoleOwner:
		return "Patron"
	case RoleOperationsLead:
		return "Operasyon Sorumlusu"
	case RoleWarehouseStaff:
		return "Depo Görevlisi"
	case RoleLogisticsLead:
		return "Lojistik Sorumlusu"
	default:
		return ""
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleOperationsLead, RoleWarehouseStaff, RoleLogisticsLead:
		return true
	default:
		return false
	}
}

// Assignable reports whether the role may be granted through a role change.
// The Owner role is only ever set at bootstrap.
func (r Role) Assignable() bool {
	switch r {
	case RoleOperationsLead, RoleWarehouseStaff, RoleLogisticsLead:
		return true
	case RoleOwner:
		return false
	default:
		return false
	}
}

// User represents a member of personnel
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserSummary is the public view of a user in personnel listings
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  Role   `json:"role"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: u.Role}
}

// NormalizeEmail lower-cases and trims an address so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
