//go:build !windows

package objlit

const platformNewline = "\n"
