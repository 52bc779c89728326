// Package diag defines the normalized diagnostic model shared by the
// lualint pipeline: the closed severity scale, the Diagnostic record, the
// order-preserving Bag container and the show/fail threshold filter.
//
// Everything tool-specific (the lua-language-server artifact schema, its
// numeric severity codes, URI handling) lives in internal/luals; this
// package never imports it.
package diag
