package main

import _ "runtime/cgo"

// The blank import above enforces that CGO is enabled when building the module.
// The sqlite driver backing the repository test suite is a cgo package, and
// without this guard a CGO_ENABLED=0 build only fails later, at test runtime,
// with a far less obvious error.
