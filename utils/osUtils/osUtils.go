package osUtils

import (
	"os"
	"syscall"
)

func GetUmask() int {
	umask := syscall.Umask(0)
	_ = syscall.Umask(umask)
	return umask
}

// IsRoot reports whether the process runs with an effective uid of 0.
func IsRoot() bool {
	return os.Geteuid() == 0
}
