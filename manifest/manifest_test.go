package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AiLing2416/deblang-switch/utils/osUtils"
	"github.com/davecgh/go-spew/spew"
)

const debianHeader = "# This file lists locales that you wish to have built. You can find a list\n# of valid supported locales at /usr/share/i18n/SUPPORTED.\n"

func TestEditEnablesTargetAndDisablesOthers(t *testing.T) {
	content := "# en_US.UTF-8 UTF-8\n# zh_CN.UTF-8 UTF-8"
	got := Edit(content, "zh_CN.UTF-8")
	want := "# en_US.UTF-8 UTF-8\nzh_CN.UTF-8 UTF-8"
	if got != want {
		t.Fatalf("expected %q got %q", want, got)
	}
}

func TestEditAppendsMissingTarget(t *testing.T) {
	// The final-newline state of the input is preserved either way.
	cases := map[string]string{
		"en_US.UTF-8 UTF-8":   "# en_US.UTF-8 UTF-8\nzh_TW.UTF-8 UTF-8",
		"en_US.UTF-8 UTF-8\n": "# en_US.UTF-8 UTF-8\nzh_TW.UTF-8 UTF-8\n",
	}
	for content, want := range cases {
		if got := Edit(content, "zh_TW.UTF-8"); got != want {
			t.Fatalf("expected %q got %q", want, got)
		}
	}
}

func TestEditCollapsesDuplicateTargetLines(t *testing.T) {
	cases := map[string]string{
		"zh_CN.UTF-8 UTF-8\nzh_CN.UTF-8 UTF-8\n":   "zh_CN.UTF-8 UTF-8\n# zh_CN.UTF-8 UTF-8\n",
		"zh_CN.UTF-8 UTF-8\n# zh_CN.UTF-8 UTF-8\n": "zh_CN.UTF-8 UTF-8\n# zh_CN.UTF-8 UTF-8\n",
		"# zh_CN.UTF-8 UTF-8\nzh_CN.UTF-8 UTF-8\n": "zh_CN.UTF-8 UTF-8\n# zh_CN.UTF-8 UTF-8\n",
	}
	for content, want := range cases {
		got := Edit(content, "zh_CN.UTF-8")
		if got != want {
			t.Fatalf("expected %q got %q", want, got)
		}
		if enabled := EnabledCodes(got); len(enabled) != 1 {
			t.Fatal("expected exactly one enabled line", spew.Sdump(got, enabled))
		}
	}
}

func TestEditIdempotent(t *testing.T) {
	contents := []string{
		"",
		"en_US.UTF-8 UTF-8\n",
		"# en_US.UTF-8 UTF-8\n# zh_CN.UTF-8 UTF-8\n",
		debianHeader + "\nde_DE.UTF-8 UTF-8\n#  fr_FR.UTF-8 UTF-8\n",
	}
	for _, content := range contents {
		once := Edit(content, "ja_JP.UTF-8")
		twice := Edit(once, "ja_JP.UTF-8")
		if once != twice {
			t.Fatal("edit is not idempotent", spew.Sdump(content, once, twice))
		}
	}
}

func TestEditLeavesExactlyOneEnabledEntry(t *testing.T) {
	contents := []string{
		debianHeader + "en_US.UTF-8 UTF-8\nru_RU.UTF-8 UTF-8\n# ja_JP.UTF-8 UTF-8\n",
		"  zh_CN.UTF-8 UTF-8  \n",
		"zh_CN.UTF-8 UTF-8\n# zh_CN.UTF-8 UTF-8\nen_US.UTF-8 UTF-8\nen_US.UTF-8 UTF-8\n",
		"",
	}
	targets := []string{"en_US.UTF-8", "zh_CN.UTF-8", "ko_KR.UTF-8"}
	for _, content := range contents {
		for _, target := range targets {
			got := Edit(content, target)
			enabled := EnabledCodes(got)
			if len(enabled) != 1 || enabled[0] != target {
				t.Fatal("expected exactly the target enabled", target, spew.Sdump(got, enabled))
			}
		}
	}
}

func TestEditToleratesWhitespaceAndMarkers(t *testing.T) {
	content := "  #  zh_CN.UTF-8 UTF-8\n"
	got := Edit(content, "zh_CN.UTF-8")
	if got != "zh_CN.UTF-8 UTF-8\n" {
		t.Fatalf("marker/whitespace not normalized: %q", got)
	}
}

func TestEditKeepsProseComments(t *testing.T) {
	got := Edit(debianHeader+"# en_US.UTF-8 UTF-8\n", "en_US.UTF-8")
	want := debianHeader + "en_US.UTF-8 UTF-8\n"
	if got != want {
		t.Fatalf("prose header was modified:\n%q", got)
	}
}

func TestEditKeepsNonUTF8Charset(t *testing.T) {
	content := "# aa_DJ ISO-8859-1\nen_US.UTF-8 UTF-8\n"
	got := Edit(content, "aa_DJ")
	want := "aa_DJ ISO-8859-1\n# en_US.UTF-8 UTF-8\n"
	if got != want {
		t.Fatalf("expected %q got %q", want, got)
	}
}

func TestParseLine(t *testing.T) {
	cases := map[string]Line{
		"en_US.UTF-8 UTF-8":    {Code: "en_US.UTF-8", Charset: "UTF-8", Enabled: true},
		"# zh_CN.UTF-8 UTF-8":  {Code: "zh_CN.UTF-8", Charset: "UTF-8"},
		"#zh_TW.UTF-8 UTF-8":   {Code: "zh_TW.UTF-8", Charset: "UTF-8"},
		"# of valid locales a": {},
		"":                     {},
	}
	for raw, want := range cases {
		got := ParseLine(raw)
		if got.Code != want.Code || got.Charset != want.Charset || got.Enabled != want.Enabled {
			t.Fatal("incorrect parse", raw, spew.Sdump(got))
		}
	}
}

func TestSaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "locale.gen")
	if err := os.WriteFile(path, []byte("old\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := Save(path, "en_US.UTF-8 UTF-8\n"); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "en_US.UTF-8 UTF-8\n" {
		t.Fatalf("unexpected content %q", got)
	}
	stat, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if stat.Mode().Perm() != 0600 {
		t.Fatalf("mode not preserved: %v", stat.Mode())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatal("temporary file left behind")
	}
}

func TestSaveCreatesMissingManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locale.gen")

	if err := Save(path, "en_US.UTF-8 UTF-8\n"); err != nil {
		t.Fatal(err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	want := os.FileMode(0666 &^ osUtils.GetUmask())
	if stat.Mode().Perm() != want {
		t.Fatalf("expected mode %v got %v", want, stat.Mode().Perm())
	}
}

func TestSaveMissingDirFails(t *testing.T) {
	if err := Save("/nonexistent-deblang-dir/locale.gen", "x\n"); err == nil {
		t.Fatal("expected error for unwritable destination")
	}
}
