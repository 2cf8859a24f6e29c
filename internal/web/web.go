// Package web embeds the browser UI. The page is fully client-rendered and
// talks to the JSON API; the server only delivers the bytes.
package web

import _ "embed"

// IndexHTML is the single-page UI served at "/".
//
//go:embed index.html
var IndexHTML []byte
