package auth

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// LoginRequest carries the credentials presented at login.
// No complexity rules on purpose: the first login with an unknown username
// registers the account with exactly the password given.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Password string `json:"password" validate:"required,min=1,max=72"`
}

// PostMessageRequest carries a message creation intent. The username must match
// the identity bound to the presented session token.
type PostMessageRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Body     string `json:"body" validate:"required,max=2000"`
}

func ValidateLogin(req LoginRequest) error {
	return validate.Struct(req)
}

func ValidatePostMessage(req PostMessageRequest) error {
	return validate.Struct(req)
}
