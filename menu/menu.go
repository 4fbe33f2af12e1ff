// Package menu presents the numbered locale preset menu and reads a selection.
package menu

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/AiLing2416/deblang-switch/preset"
	"github.com/AiLing2416/deblang-switch/utils/display"
	"github.com/AiLing2416/deblang-switch/utils/i18n"
)

type Controller struct {
	in      *bufio.Reader
	presets []preset.Preset
}

func New(in io.Reader, presets []preset.Preset) *Controller {
	return &Controller{
		in:      bufio.NewReader(in),
		presets: presets,
	}
}

// Choose displays the menu and blocks until the user picks a preset or the
// exit entry. It re-prompts on non-numeric or out-of-range input. The second
// return value is true when the user chose to exit (also on end of input).
func (c *Controller) Choose() (*preset.Preset, bool, error) {
	c.printMenu()
	exitChoice := len(c.presets) + 1

	for {
		display.Display(display.Options{NoNewline: true}, "%s [1-%d]: ", i18n.M("Select a locale"), exitChoice)

		line, err := c.in.ReadString('\n')
		if err == io.EOF && strings.TrimSpace(line) == "" {
			return nil, true, nil
		}
		if err != nil && err != io.EOF {
			return nil, false, err
		}

		choice, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr != nil || choice < 1 || choice > exitChoice {
			display.Warning(display.WarnOptions{}, "%s", i18n.M("Invalid selection, enter one of the listed numbers"))
			if err == io.EOF {
				return nil, true, nil
			}
			continue
		}

		if choice == exitChoice {
			return nil, true, nil
		}
		p := c.presets[choice-1]
		return &p, false, nil
	}
}

func (c *Controller) printMenu() {
	display.Banner(display.BannerOptions{}, i18n.M("Supported locales"))
	for i, p := range c.presets {
		display.Display(display.Options{}, "%3d) %s (%s)", i+1, p.DisplayName, p.Code)
	}
	display.Display(display.Options{}, "%3d) %s", len(c.presets)+1, i18n.M("Exit"))
}
