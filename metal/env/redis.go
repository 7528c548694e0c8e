package env

import "fmt"

type RedisEnvironment struct {
	Host     string `validate:"required,min=4"`
	Port     string `validate:"required,numeric"`
	Password string `validate:"omitempty"`
	DB       int    `validate:"gte=0"`
}

func (e RedisEnvironment) GetAddr() string {
	return fmt.Sprintf("%s:%s", e.Host, e.Port)
}
