package env

type GeoEnvironment struct {
	Enabled          bool   // lookups are skipped entirely when disabled
	LookupURL        string `validate:"required_if=Enabled true,omitempty,url"`
	DeniedCountries  string `validate:"omitempty"`
	CacheTTLMinutes  int    `validate:"gte=0"`
	LookupTimeoutSec int    `validate:"gte=0"`
}
