package config

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pathUtils "github.com/AiLing2416/deblang-switch/utils/path"
	"github.com/mitchellh/mapstructure"
	"golang.org/x/sys/unix"
	"gopkg.in/ini.v1"
)

const configFileName = "deblang.cfg"

func findCwdConfig() (cwdConfigPath string, warnCwdPublic bool) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false
	}
	perms, err := os.Stat(cwd)
	if err != nil {
		return "", false
	}

	cwdConfigPath = filepath.Join(cwd, configFileName)

	if uint32(perms.Mode())&unix.S_IWOTH != 0 {
		// Working directory is world writable so we'll skip it.
		// Still have to look for a file here, though, so that we know if we have to warn.
		if exists, _ := pathUtils.Exists(cwdConfigPath); exists {
			warnCwdPublic = true
		}
		cwdConfigPath = ""
	}
	return
}

// Determine INI config file location
// order (first found is used): ENV, CWD, HOME, /etc/deblang
func findIniConfigFile() string {
	var potentialPaths []string

	pathFromEnv, ok := os.LookupEnv("DEBLANG_CONFIG")
	if ok {
		if isDir, err := pathUtils.IsDir(pathFromEnv); err == nil && isDir {
			pathFromEnv = filepath.Join(pathFromEnv, configFileName)
		}
		potentialPaths = append(potentialPaths, pathFromEnv)
	}

	cwdConfigPath, warnCwdPublic := findCwdConfig()
	if cwdConfigPath != "" {
		potentialPaths = append(potentialPaths, cwdConfigPath)
	}

	if home, err := os.UserHomeDir(); err == nil {
		potentialPaths = append(potentialPaths, filepath.Join(home, ".deblang.cfg"))
	}

	// System location
	potentialPaths = append(potentialPaths, "/etc/deblang/"+configFileName)

	var path string
	for _, candidate := range potentialPaths {
		if exists, _ := pathUtils.Exists(candidate); exists {
			if canRead, _ := pathUtils.HasReadPermission(candidate); canRead {
				path = candidate
				break
			}
		}
	}

	if pathFromEnv != path && warnCwdPublic {
		cwd, _ := os.Getwd()
		fmt.Fprintf(os.Stderr, "deblang-switch is being run in a world writable directory (%s), ignoring it as a %s source.\n", cwd, configFileName)
	}
	return path
}

// Strips comments and inline comments. Only permits ; as inline comment indicator.
func stripCommentAndSpaces(line string) string {
	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return line
	}
	if line[0] == ';' || line[0] == '#' {
		return ""
	}
	if idx := strings.Index(line, " ;"); idx > -1 {
		return strings.TrimSpace(line[:idx])
	}
	return line
}

func parseConfigFile(path string, data *ConfigData) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Split(bufio.ScanLines)
	var text []string
	for scanner.Scan() {
		text = append(text, stripCommentAndSpaces(scanner.Text()))
	}

	buf := bytes.NewBufferString(strings.Join(text, "\n"))
	cfg, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, buf)
	if err != nil {
		return err
	}

	values := map[string]interface{}{}
	for _, section := range cfg.Sections() {
		switch section.Name() {
		case ini.DefaultSection, "defaults", "colors":
		default:
			return fmt.Errorf("unknown config section [%s]", section.Name())
		}
		for _, key := range section.Keys() {
			values[key.Name()] = key.Value()
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           data,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(values)
}
