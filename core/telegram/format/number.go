package format

import "strconv"

// Int64OrDefault renders *n in base 10, or defaultVal when n is nil.
func Int64OrDefault(n *int64, defaultVal string) string {
	if n == nil {
		return defaultVal
	}
	return strconv.FormatInt(*n, 10)
}
