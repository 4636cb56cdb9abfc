//go:build !unix

package render

// TerminalWidth always reports ok = false on platforms without termios.
func TerminalWidth(fd int) (int, bool) {
	return 0, false
}
