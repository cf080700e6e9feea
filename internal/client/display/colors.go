package display

// Terminal color codes
const (
	Reset   = "\033[0m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
)

// paint wraps s in color when enabled
func paint(enabled bool, color, s string) string {
	if !enabled {
		return s
	}
	return color + s + Reset
}
