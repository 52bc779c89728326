// Package luals adapts lua-language-server's --check mode to the lualint
// pipeline: launching the server, reading the JSON diagnostics artifact it
// writes, and normalizing its LSP-shaped records into diag.Diagnostic
// values. Version drift in the server's CLI flags and artifact schema is
// contained entirely inside this package.
package luals
