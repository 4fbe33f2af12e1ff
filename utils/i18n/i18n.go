package i18n

import (
	"github.com/chai2010/gettext-go"
)

const domain = "deblang-switch"

func init() {
	gettext.BindLocale(gettext.New(domain, "/usr/share/locale"))
}

// M translates a diagnostic message. Untranslated msgids pass through unchanged.
func M(msgid string) string {
	return gettext.DGettext(domain, msgid)
}
