package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type RegisterUserDto struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (d *RegisterUserDto) Validate() error {
	return validation.ValidateStruct(d,
		validation.Field(&d.Email, validation.Required, is.Email),
		validation.Field(&d.Password, validation.Required, validation.Length(8, 0)),
	)
}

type LoginUserDto struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d *LoginUserDto) Validate() error {
	return validation.ValidateStruct(d,
		validation.Field(&d.Email, validation.Required, is.Email),
		validation.Field(&d.Password, validation.Required),
	)
}

type AuthResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Email   string `json:"email"`
}
