//go:build unix

package render

import "golang.org/x/sys/unix"

// TerminalWidth returns the column count of the terminal on fd, or ok =
// false when fd is not a terminal.
func TerminalWidth(fd int) (int, bool) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 {
		return 0, false
	}
	return int(ws.Col), true
}
