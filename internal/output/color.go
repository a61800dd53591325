package output

import (
	"io"
	"os"
)

// ResolveColorMode maps the --color flag ("never", "always", "auto") and the
// detected TTY state to whether styled output should be used.
func ResolveColorMode(colorMode string, isTTY bool) bool {
	switch colorMode {
	case "never":
		return false
	case "always":
		return true
	default:
		return isTTY
	}
}

// IsTTY reports whether writer is a terminal.
func IsTTY(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isCharDevice(file)
}

// IsInteractive reports whether reader is a terminal, i.e. a confirmation
// prompt can be answered.
func IsInteractive(reader io.Reader) bool {
	file, ok := reader.(*os.File)
	if !ok {
		return false
	}
	return isCharDevice(file)
}

func isCharDevice(file *os.File) bool {
	stat, err := file.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
