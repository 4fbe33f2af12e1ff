package distro

import (
	"strings"

	"github.com/zcalusic/sysinfo"
)

var normalizedDistroId = map[string]string{
	"redhat": "rhel",
}

var si sysinfo.SysInfo

func init() {
	si.GetSysInfo()
}

func normalizeDistroId(id string) string {
	norm := strings.ReplaceAll(strings.ToLower(id), " ", "_")
	if v, ok := normalizedDistroId[norm]; ok {
		return v
	}
	return norm
}

func Id() string {
	return normalizeDistroId(si.OS.Vendor)
}

var debianFamily = map[string]bool{
	"debian":     true,
	"ubuntu":     true,
	"raspbian":   true,
	"linuxmint":  true,
	"kali":       true,
	"devuan":     true,
	"pop":        true,
	"elementary": true,
}

// IsDebianFamily reports whether the host uses Debian's locale tooling
// (/etc/locale.gen, locale-gen, update-locale).
func IsDebianFamily() bool {
	return debianFamily[Id()]
}
