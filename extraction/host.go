package extraction

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hupe1980/segstore/internal/fs"
	"github.com/hupe1980/segstore/model"
)

var releaseVersionRE = regexp.MustCompile(`(\d+)\.(\d+)`)

// UnknownVersion is reported when the OS release cannot be parsed.
var UnknownVersion = []string{"-1", "-1"}

// DiscoverHost reads host metadata from an extracted archive directory.
// Missing files leave the corresponding fields empty; other read errors are returned.
func DiscoverHost(fsys fs.FileSystem, dir string, files HostFiles) (model.HostMeta, error) {
	fsys = fs.OrDefault(fsys)

	var (
		h    model.HostMeta
		errs []error
	)
	read := func(rel string) string {
		if rel == "" {
			return ""
		}
		line, err := firstLine(fsys, filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
		return line
	}

	h.Hostname = read(files.Hostname)
	h.Release = read(files.Release)
	h.Uname = read(files.Uname)
	h.Version = ParseVersion(h.Release)
	return h, errors.Join(errs...)
}

// ParseVersion extracts [major, minor] from an OS release string such as
// "Red Hat Enterprise Linux Server release 7.9 (Maipo)".
func ParseVersion(release string) []string {
	m := releaseVersionRE.FindStringSubmatch(release)
	if m == nil {
		return append([]string(nil), UnknownVersion...)
	}
	return []string{m[1], m[2]}
}

func firstLine(fsys fs.FileSystem, path string) (string, error) {
	f, err := fsys.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return "", err
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
