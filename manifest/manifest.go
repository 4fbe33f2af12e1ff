// Package manifest edits Debian's locale-generation manifest
// (/etc/locale.gen): one locale entry per line, disabled entries carry a
// leading "#". The only transformations applied are toggling that marker and
// appending a missing entry; everything else in the file is left untouched.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/AiLing2416/deblang-switch/utils/osUtils"
	pathUtils "github.com/AiLing2416/deblang-switch/utils/path"
	"github.com/pkg/errors"
)

// Matches "[#] <code> <charset>" with optional surrounding whitespace.
// Prose comment lines have more than two fields and don't match.
var entryRe = regexp.MustCompile(`^\s*(#\s*)?([A-Za-z][A-Za-z0-9_.@\-]*)\s+(\S+)\s*$`)

type Line struct {
	Raw     string
	Code    string
	Charset string
	Enabled bool
}

// ParseLine classifies a single manifest line. Lines that are not locale
// entries come back with an empty Code.
func ParseLine(raw string) Line {
	m := entryRe.FindStringSubmatch(raw)
	if m == nil {
		return Line{Raw: raw}
	}
	return Line{
		Raw:     raw,
		Code:    m[2],
		Charset: m[3],
		Enabled: m[1] == "",
	}
}

// Edit returns manifest content in which the target locale's entry is present
// and enabled and every other locale entry is commented out. If no entry for
// target exists, "<target> UTF-8" is appended. The edit is idempotent.
func Edit(content, target string) string {
	lines := strings.Split(content, "\n")
	hadTrailingNewline := false
	if n := len(lines); n > 0 && lines[n-1] == "" {
		hadTrailingNewline = true
		lines = lines[:n-1]
	}

	found := false
	for i, raw := range lines {
		l := ParseLine(raw)
		if l.Code == "" {
			continue
		}
		switch {
		case l.Code == target && !found:
			// Only the first entry for the target is enabled; manual edits
			// can leave duplicate lines behind.
			found = true
			lines[i] = fmt.Sprintf("%s %s", l.Code, l.Charset)
		case l.Enabled:
			lines[i] = "# " + strings.TrimSpace(raw)
		}
	}

	if !found {
		lines = append(lines, fmt.Sprintf("%s UTF-8", target))
	}

	out := strings.Join(lines, "\n")
	if hadTrailingNewline {
		out += "\n"
	}
	return out
}

// EnabledCodes lists the codes of all enabled entries, in file order.
func EnabledCodes(content string) []string {
	var codes []string
	for _, raw := range strings.Split(content, "\n") {
		l := ParseLine(raw)
		if l.Code != "" && l.Enabled {
			codes = append(codes, l.Code)
		}
	}
	return codes
}

func Load(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "cannot read manifest %s", path)
	}
	return string(content), nil
}

// Save persists content atomically: it is written to a temporary file in the
// manifest's directory which then replaces the manifest via rename, so a
// failure mid-write never leaves a truncated manifest behind.
func Save(path, content string) error {
	dir := filepath.Dir(path)
	temp, err := os.CreateTemp(dir, ".deblang_tmp-*-"+filepath.Base(path))
	if err != nil {
		return errors.Wrapf(err, "cannot create temporary file in %s", dir)
	}
	tempName := temp.Name()
	defer os.Remove(tempName)

	if _, err = temp.WriteString(content); err != nil {
		_ = temp.Close()
		return errors.Wrapf(err, "cannot write manifest content to %s", tempName)
	}
	if err = temp.Close(); err != nil {
		return errors.Wrapf(err, "cannot close %s", tempName)
	}

	if exists, _ := pathUtils.Exists(path); exists {
		if err = pathUtils.CopyStat(path, tempName); err != nil {
			return errors.Wrapf(err, "cannot preserve attributes of %s", path)
		}
	} else {
		// A freshly created manifest gets the mode a plain create would have
		// produced under the current umask.
		mode := os.FileMode(0666 &^ osUtils.GetUmask())
		if err = os.Chmod(tempName, mode); err != nil {
			return errors.Wrapf(err, "cannot chmod %s", tempName)
		}
	}

	if err = os.Rename(tempName, path); err != nil {
		return errors.Wrapf(err, "cannot replace manifest %s", path)
	}
	return nil
}
