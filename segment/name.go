package segment

import (
	"fmt"
	"regexp"
	"strconv"
)

const (
	// Ext separates a stream name from the segment index.
	Ext = ".json."

	// IndexWidth is the zero-padded width of the segment index.
	IndexWidth = 5
)

var fileRE = regexp.MustCompile(`^([^.]+)\.json\.(\d{5,})$`)

// FileName returns the file name of segment idx of the named stream.
func FileName(name string, idx int) string {
	return fmt.Sprintf("%s%s%0*d", name, Ext, IndexWidth, idx)
}

// ParseFileName splits a segment file name into stream name and index.
// Files that do not follow the segment naming scheme report ok=false,
// including indices with extra leading zeros that FileName would not produce.
func ParseFileName(file string) (name string, idx int, ok bool) {
	m := fileRE.FindStringSubmatch(file)
	if len(m) != 3 {
		return "", 0, false
	}
	idx, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	if FileName(m[1], idx) != file {
		return "", 0, false
	}
	return m[1], idx, true
}
