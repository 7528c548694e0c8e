package env

import "fmt"

type SMTPEnvironment struct {
	Host     string `validate:"required,min=4"`
	Port     string `validate:"required,numeric"`
	Username string `validate:"required,min=3"`
	Password string `validate:"required,min=8"`
	From     string `validate:"required,email"`
}

func (e SMTPEnvironment) GetAddr() string {
	return fmt.Sprintf("%s:%s", e.Host, e.Port)
}
