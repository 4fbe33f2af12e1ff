// Package verify inspects the persisted default-locale file after a switch.
// Its result is advisory only and never fails the overall operation.
package verify

import (
	"os"

	"gopkg.in/ini.v1"
)

type Status int

const (
	Confirmed Status = iota
	Mismatch
	FileAbsent
)

func (s Status) String() string {
	switch s {
	case Confirmed:
		return "confirmed"
	case Mismatch:
		return "mismatch"
	case FileAbsent:
		return "file absent"
	}
	return "unknown"
}

type Result struct {
	Status Status
	// Actual is the LANG value found in the file; set for Mismatch.
	Actual string
}

// Verify reads the default-locale file (KEY=value lines, e.g.
// /etc/default/locale) and compares its LANG assignment to expected.
func Verify(path, expected string) (Result, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Result{Status: FileAbsent}, nil
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return Result{Status: FileAbsent}, err
	}

	section := cfg.Section(ini.DefaultSection)
	if !section.HasKey("LANG") {
		return Result{Status: Mismatch, Actual: ""}, nil
	}

	actual := section.Key("LANG").String()
	if actual == expected {
		return Result{Status: Confirmed}, nil
	}
	return Result{Status: Mismatch, Actual: actual}, nil
}
