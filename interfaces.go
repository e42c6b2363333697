package tomlconfig

// Validator is implemented by config structs that validate themselves. It is
// invoked after every successful load, in addition to any validator attached
// with WithValidator at registration.
type Validator interface {
	Validate() error
}
