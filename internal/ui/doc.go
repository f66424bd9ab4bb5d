// Package ui holds the small rendering primitives shared by the dashboard
// and the CLI: the ANSI palette, status symbols and sparklines.
//
// Colors are ANSI codes rather than true-color values so output degrades
// cleanly on limited terminals.
package ui
