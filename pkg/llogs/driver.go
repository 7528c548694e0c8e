package llogs

// Driver abstracts the destination the application logs are written to.
type Driver interface {
	Close() bool
}
