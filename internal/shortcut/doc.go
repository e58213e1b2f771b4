// Package shortcut reads Internet Shortcut (.url) files and extracts the
// game key and icon filename they declare.
//
// A Layout describes the format: the section header to look for, the
// run-command and icon-declaration patterns, the icon directory that
// declarations must point at, and the text encoding of the files. Parsing is
// a single forward pass over lines; only lines inside the target section are
// matched, and each field may be declared at most once.
package shortcut
