package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleDoctor    Role = "doctor"
	RoleSecretary Role = "secretary"
	RoleAssistant Role = "assistant"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleSecretary, RoleAssistant:
		return true
	}
	return false
}

// Permission is a fixed tag enumeration. Form payloads are decoded into this
// set once at the HTTP boundary; nothing below the handlers ever sees the raw
// checkbox field names.
type Permission string

const (
	PermPatients      Permission = "patients"
	PermAppointments  Permission = "appointments"
	PermConsultations Permission = "consultations"
	PermBilling       Permission = "billing"
	PermExpenses      Permission = "expenses"
	PermReports       Permission = "reports"
	PermUsers         Permission = "users"
	PermSettings      Permission = "settings"
)

func (p Permission) IsValid() bool {
	switch p {
	case PermPatients, PermAppointments, PermConsultations, PermBilling,
		PermExpenses, PermReports, PermUsers, PermSettings:
		return true
	}
	return false
}

// AllPermissions returns every known tag, in a stable order.
func AllPermissions() []Permission {
	return []Permission{
		PermPatients, PermAppointments, PermConsultations, PermBilling,
		PermExpenses, PermReports, PermUsers, PermSettings,
	}
}

// User is a clinic staff account. Email is the login identifier and is
// matched case-insensitively. PasswordHash may be empty: accounts without a
// password accept any credential, mirroring the optional-password contract.
type User struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"password_hash,omitempty"`
	Role         Role         `json:"role"`
	Permissions  []Permission `json:"permissions"`
	Initials     string       `json:"initials,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

func (u User) EntityID() string { return u.ID }

// Can reports whether the account holds the permission tag. Admin accounts
// hold every tag regardless of their stored set.
func (u User) Can(p Permission) bool {
	if u.Role == RoleAdmin {
		return true
	}
	for _, held := range u.Permissions {
		if held == p {
			return true
		}
	}
	return false
}

// EmailKey returns the canonical lookup form of the login identifier.
func (u User) EmailKey() string {
	return strings.ToLower(strings.TrimSpace(u.Email))
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"` // Always "Bearer"
}

type Claims struct {
	UserID      string       `json:"sub"`
	Email       string       `json:"email"`
	Role        Role         `json:"role"`
	Permissions []Permission `json:"permissions,omitempty"`
}

// Can mirrors User.Can for the token-carried permission set.
func (c Claims) Can(p Permission) bool {
	if c.Role == RoleAdmin {
		return true
	}
	for _, held := range c.Permissions {
		if held == p {
			return true
		}
	}
	return false
}
