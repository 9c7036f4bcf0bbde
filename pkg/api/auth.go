package api

import "time"

type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	OrgID       string    `json:"org_id"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	OrgID       string `json:"org_id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the bearer token for subsequent calls.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Case struct {
	CaseID          string `json:"case_id"`
	RequestingOrg   string `json:"requesting_org"`
	CounterpartyOrg string `json:"counterparty_org"`
}

type RegisterOrganizationRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind,omitempty"`
}

type OrganizationResponse struct {
	Organization *Organization `json:"organization"`
}

type RegisterCaseRequest struct {
	CaseID          string `json:"case_id"`
	RequestingOrg   string `json:"requesting_org"`
	CounterpartyOrg string `json:"counterparty_org"`
}

type GetCaseRequest struct {
	CaseID string `json:"case_id"`
}

type CaseResponse struct {
	Case *Case `json:"case"`
}
