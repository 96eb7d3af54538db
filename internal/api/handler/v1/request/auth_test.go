package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validSignup() SignupRequest {
	return SignupRequest{
		Email:           "tom@campus.io",
		Password:        "secretpass1",
		ConfirmPassword: "secretpass1",
		FirstName:       "Tom",
		LastName:        "Martin",
		Phone:           "0601020304",
		Role:            "student",
	}
}

func TestSignupRequest_Valid(t *testing.T) {
	req := validSignup()
	assert.NoError(t, req.Validate())
}

func TestSignupRequest_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *SignupRequest)
	}{
		{name: "missing email", mutate: func(r *SignupRequest) { r.Email = "" }},
		{name: "malformed email", mutate: func(r *SignupRequest) { r.Email = "not-an-email" }},
		{name: "password too short", mutate: func(r *SignupRequest) {
			r.Password = "abc1"
			r.ConfirmPassword = "abc1"
		}},
		{name: "password without digit", mutate: func(r *SignupRequest) {
			r.Password = "onlyletters"
			r.ConfirmPassword = "onlyletters"
		}},
		{name: "password without letter", mutate: func(r *SignupRequest) {
			r.Password = "1234567890"
			r.ConfirmPassword = "1234567890"
		}},
		{name: "confirm mismatch", mutate: func(r *SignupRequest) { r.ConfirmPassword = "different1" }},
		{name: "missing first name", mutate: func(r *SignupRequest) { r.FirstName = "" }},
		{name: "admin role not allowed", mutate: func(r *SignupRequest) { r.Role = "admin" }},
		{name: "unknown role", mutate: func(r *SignupRequest) { r.Role = "superuser" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignup()
			tt.mutate(&req)

			assert.Error(t, req.Validate())
		})
	}
}

func TestLoginRequest_Validate(t *testing.T) {
	req := LoginRequest{Email: "tom@campus.io", Password: "secretpass1"}
	assert.NoError(t, req.Validate())

	req = LoginRequest{Email: "tom@campus.io"}
	assert.Error(t, req.Validate())

	req = LoginRequest{Email: "nope", Password: "secretpass1"}
	assert.Error(t, req.Validate())
}

func TestSessionLoginRequest_Validate(t *testing.T) {
	req := SessionLoginRequest{IDToken: "some.jwt.token"}
	assert.NoError(t, req.Validate())

	req = SessionLoginRequest{}
	assert.Error(t, req.Validate())
}
