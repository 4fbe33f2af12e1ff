package backup

import (
	"os"
	"path/filepath"
	"testing"
)

var testDir string
var manifestFile string

func setUp() {
	var err error
	testDir, err = os.MkdirTemp("", "deblang-test-backup-*")
	if err != nil {
		panic(err)
	}
	manifestFile = filepath.Join(testDir, "locale.gen")
	if err = os.WriteFile(manifestFile, []byte("# zh_CN.UTF-8 UTF-8\n"), 0644); err != nil {
		panic(err)
	}
}

func teardown() {
	err := os.RemoveAll(testDir)
	if err != nil {
		panic(err)
	}
}

func mustRead(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(content)
}

func TestReleaseOnFailureRestores(t *testing.T) {
	setUp()
	defer teardown()

	g, err := Acquire(manifestFile)
	if err != nil {
		t.Fatal(err)
	}
	if err = os.WriteFile(manifestFile, []byte("zh_CN.UTF-8 UTF-8\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err = g.Release(false, PolicyOnError); err != nil {
		t.Fatal(err)
	}
	if got := mustRead(t, manifestFile); got != "# zh_CN.UTF-8 UTF-8\n" {
		t.Fatalf("manifest not restored: %q", got)
	}
	if _, err = os.Stat(g.Path()); !os.IsNotExist(err) {
		t.Fatal("backup file not consumed")
	}
}

func TestReleaseOnSuccessKeepsEditsWithOnErrorPolicy(t *testing.T) {
	setUp()
	defer teardown()

	g, err := Acquire(manifestFile)
	if err != nil {
		t.Fatal(err)
	}
	if err = os.WriteFile(manifestFile, []byte("zh_CN.UTF-8 UTF-8\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err = g.Release(true, PolicyOnError); err != nil {
		t.Fatal(err)
	}
	if got := mustRead(t, manifestFile); got != "zh_CN.UTF-8 UTF-8\n" {
		t.Fatalf("edits were rolled back: %q", got)
	}
	if _, err = os.Stat(g.Path()); !os.IsNotExist(err) {
		t.Fatal("backup file not consumed")
	}
}

func TestReleaseOnSuccessRestoresWithAlwaysPolicy(t *testing.T) {
	setUp()
	defer teardown()

	g, err := Acquire(manifestFile)
	if err != nil {
		t.Fatal(err)
	}
	if err = os.WriteFile(manifestFile, []byte("zh_CN.UTF-8 UTF-8\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err = g.Release(true, PolicyAlways); err != nil {
		t.Fatal(err)
	}
	if got := mustRead(t, manifestFile); got != "# zh_CN.UTF-8 UTF-8\n" {
		t.Fatalf("always policy should restore the original: %q", got)
	}
}

func TestReleaseTwiceIsNoop(t *testing.T) {
	setUp()
	defer teardown()

	g, err := Acquire(manifestFile)
	if err != nil {
		t.Fatal(err)
	}
	if err = g.Release(true, PolicyOnError); err != nil {
		t.Fatal(err)
	}
	if err = g.Release(false, PolicyOnError); err != nil {
		t.Fatal(err)
	}
}

func TestReleaseReportsMissingBackup(t *testing.T) {
	setUp()
	defer teardown()

	g, err := Acquire(manifestFile)
	if err != nil {
		t.Fatal(err)
	}
	if err = os.Remove(g.Path()); err != nil {
		t.Fatal(err)
	}

	if err = g.Release(false, PolicyOnError); err == nil {
		t.Fatal("expected error when backup is gone")
	}
}

func TestAcquireUnreadableSourceFails(t *testing.T) {
	setUp()
	defer teardown()

	if _, err := Acquire(filepath.Join(testDir, "missing")); err == nil {
		t.Fatal("expected error for unreadable source")
	}
}

func TestAcquireRefusesNonRegularSource(t *testing.T) {
	setUp()
	defer teardown()

	dir := filepath.Join(testDir, "locale.gen.d")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := Acquire(dir); err == nil {
		t.Fatal("expected error for a directory source")
	}
}

func TestStaleFindsLeftovers(t *testing.T) {
	setUp()
	defer teardown()

	g, err := Acquire(manifestFile)
	if err != nil {
		t.Fatal(err)
	}

	stale := Stale(manifestFile)
	if len(stale) != 1 || stale[0] != g.Path() {
		t.Fatal("expected the backup to be reported as stale", stale)
	}

	if err = g.Release(true, PolicyOnError); err != nil {
		t.Fatal(err)
	}
	if stale = Stale(manifestFile); len(stale) != 0 {
		t.Fatal("expected no stale backups after release", stale)
	}
}
