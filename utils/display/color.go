package display

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/AiLing2416/deblang-switch/config"
	"github.com/mattn/go-isatty"
)

var ColorCodes = map[string]string{
	"black": "0;30", "bright gray": "0;37",
	"blue": "0;34", "white": "1;37",
	"green": "0;32", "bright blue": "1;34",
	"cyan": "0;36", "bright green": "1;32",
	"red": "0;31", "bright cyan": "1;36",
	"purple": "0;35", "bright red": "1;31",
	"yellow": "0;33", "bright purple": "1;35",
	"dark gray": "1;30", "bright yellow": "1;33",
	"magenta": "0;35", "bright magenta": "1;35",
	"normal": "0",
}

var useColor bool

var parseColorRegex = regexp.MustCompile(
	"Color(?P<Color>[0-9]+)|(?P<rgb>rgb(?P<red>[0-5])(?P<green>[0-5])(?P<blue>[0-5]))|gray(?P<gray>[0-9]+)",
)

func setupColor() {
	useColor = true

	if config.Manager().Settings.NOCOLOR {
		useColor = false
	} else if !isatty.IsTerminal(os.Stdout.Fd()) {
		useColor = false
	}

	if config.Manager().Settings.FORCE_COLOR {
		useColor = true
	}
}

func getRegexGroupsByName(regEx *regexp.Regexp, s string) (paramsMap map[string]string) {
	match := regEx.FindStringSubmatch(s)

	paramsMap = make(map[string]string)
	for i, name := range regEx.SubexpNames() {
		if i > 0 && i <= len(match) && match[i] != "" {
			paramsMap[name] = match[i]
		}
	}
	return paramsMap
}

// SGR (Select Graphic Rendition) parameter string for the specified color name.
func parseColor(color string) string {
	paramsMap := getRegexGroupsByName(parseColorRegex, color)

	if len(paramsMap) == 0 {
		return ColorCodes[color]
	} else if code, ok := paramsMap["Color"]; ok {
		if i, err := strconv.Atoi(code); err == nil {
			return fmt.Sprintf("38;5;%d", i)
		}
	} else if _, ok := paramsMap["rgb"]; ok {
		red, _ := strconv.Atoi(paramsMap["red"])
		green, _ := strconv.Atoi(paramsMap["green"])
		blue, _ := strconv.Atoi(paramsMap["blue"])
		code := (16 + 36*red) + 6*green + blue
		return fmt.Sprintf("38;5;%d", code)
	} else if gray, err := strconv.Atoi(paramsMap["gray"]); err == nil {
		return fmt.Sprintf("38;5;%d", 232+gray)
	}

	panic(fmt.Sprintf("unsupported color format - failed to parse %s", color))
}

// Returns a string wrapped in ANSI color codes.
func stringc(text, color string) string {
	if !useColor {
		return text
	}

	colorCode := parseColor(color)
	parts := make([]string, 0)
	for _, t := range strings.Split(text, "\n") {
		parts = append(parts, fmt.Sprintf("\033[%sm%s\033[0m", colorCode, t))
	}
	return strings.Join(parts, "\n")
}
