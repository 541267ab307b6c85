package clinicapi

import (
	"context"
)

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the upstream session payload
type LoginResponse struct {
	Message string `json:"message,omitempty"`
	User    struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Email  string `json:"email"`
		Role   string `json:"role"`
		Avatar string `json:"avatar,omitempty"`
	} `json:"user"`
}

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// AddClinicRequest is the body of POST /SuperAdmin/add-clinics
type AddClinicRequest struct {
	ClinicName        string `json:"clinicName"`
	Speciality        string `json:"speciality"`
	Location          string `json:"location"`
	Email             string `json:"email"`
	PhoneNumber       string `json:"phoneNumber"`
	ClinicDescription string `json:"clinicDescription"`
	Active            bool   `json:"isActive"`
}

// AddClinicResponse is the upstream reply to a clinic registration
type AddClinicResponse struct {
	ID      interface{} `json:"id,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Login authenticates against the upstream API
func (c *HTTPClient) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	out := &LoginResponse{}
	if err := c.Post(ctx, "/auth/login", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Register submits a staff account request
func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) error {
	return c.Post(ctx, "/auth/register", req, nil)
}

// AddClinic registers a clinic upstream
func (c *HTTPClient) AddClinic(ctx context.Context, req AddClinicRequest) (*AddClinicResponse, error) {
	out := &AddClinicResponse{}
	if err := c.Post(ctx, "/SuperAdmin/add-clinics", req, out); err != nil {
		return nil, err
	}
	return out, nil
}
