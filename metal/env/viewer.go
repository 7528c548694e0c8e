package env

import "time"

// ViewerEnvironment configures the signed, short-lived links handed to
// authenticated viewers.
type ViewerEnvironment struct {
	BaseURL      string `validate:"required,url"`
	TokenSecret  string `validate:"required,min=32"`
	TokenMinutes int    `validate:"required,gt=0,lte=60"`
}

func (v ViewerEnvironment) TokenTTL() time.Duration {
	return time.Duration(v.TokenMinutes) * time.Minute
}
