// Package web holds the browser front end, embedded into the server binary.
package web

import _ "embed"

//go:embed static/index.html
var IndexHTML []byte
