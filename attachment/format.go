package attachment

import (
	"math"
	"strconv"
	"strings"
)

var units = []string{"B", "KB", "MB", "GB", "TB"}

// FormatBytes formats a byte count in the largest unit that keeps the value at
// or above 1, up to TB, rounded to at most two decimal places. For example,
// 1536 is "1.5 KB" and 512 is "512 B". Negative counts are treated as 0.
func FormatBytes(n int64) string {
	if n < 0 {
		n = 0
	}

	pow := 0
	for div := int64(1024); pow < len(units)-1 && n >= div; div *= 1024 {
		pow++
	}

	v := float64(n) / math.Pow(1024, float64(pow))
	v = math.Round(v*100) / 100

	return strconv.FormatFloat(v, 'f', -1, 64) + " " + units[pow]
}

// Extension returns the file extension of the name without the dot. A name
// starting with a dot is all extension, so everything after that dot is
// returned as-is. Otherwise, the last dot-separated piece is returned in
// lowercase. A name with no dot has no extension and the empty string is
// returned.
func Extension(name string) string {
	if strings.HasPrefix(name, ".") {
		return name[1:]
	}

	ix := strings.LastIndexByte(name, '.')
	if ix < 0 {
		return ""
	}

	return strings.ToLower(name[ix+1:])
}
