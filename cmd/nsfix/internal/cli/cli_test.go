package cli

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sectionXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<hs:sec xmlns:hs="http://www.hancom.co.kr/hwpml/2011/section" xmlns:hp="http://www.hancom.co.kr/hwpml/2011/paragraph">` +
	`<hp:p xmlns:hp="http://www.hancom.co.kr/hwpml/2011/paragraph"/></hs:sec>`

var binBlob = []byte("binary payload binary payload binary payload")

func buildHWPX(t *testing.T) []byte {
	t.Helper()

	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	entries := []struct {
		name   string
		data   []byte
		method uint16
	}{
		{"mimetype", []byte("application/hwp+zip"), zip.Store},
		{"Contents/section0.xml", []byte(sectionXML), zip.Deflate},
		{"settings.xml", []byte("<settings><open></settings>"), zip.Deflate},
		{"BinData/blob.bin", binBlob, zip.Store},
	}
	for _, e := range entries {
		fw, err := w.CreateHeader(&zip.FileHeader{Name: e.name, Method: e.method})
		require.NoError(t, err)
		_, err = fw.Write(e.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func writeInput(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o640))
	return path
}

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := Run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func entryNames(t *testing.T, path string) []string {
	t.Helper()

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

var wantEntries = []string{"mimetype", "Contents/section0.xml", "settings.xml", "BinData/blob.bin"}

func TestRunDefaultOutput(t *testing.T) {
	input := writeInput(t, "doc.hwpx", buildHWPX(t))

	code, stdout, stderr := runCLI(input)
	require.Equal(t, ExitOK, code, stderr)

	output := input + fixedSuffix
	assert.Contains(t, stdout, "[OK] wrote: "+output)
	assert.Contains(t, stdout, "[STATS] parts=4 xml=2 fixed=1 failed=1")
	assert.Equal(t, wantEntries, entryNames(t, output))
}

func TestRunExplicitOutput(t *testing.T) {
	input := writeInput(t, "doc.hwpx", buildHWPX(t))
	output := filepath.Join(t.TempDir(), "out.hwpx")

	code, stdout, stderr := runCLI("--out", output, input)
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, "[OK] wrote: "+output)
	assert.NoFileExists(t, input+fixedSuffix)
	assert.Equal(t, wantEntries, entryNames(t, output))
}

func TestRunInPlace(t *testing.T) {
	original := buildHWPX(t)
	input := writeInput(t, "doc.hwpx", original)

	code, stdout, stderr := runCLI("--inplace", input)
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, "[OK] wrote (inplace): "+input)
	assert.NotContains(t, stdout, "[OK] backup")
	assert.NoFileExists(t, input+tempSuffix)
	assert.NoFileExists(t, input+backupSuffix)

	rewritten, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.NotEqual(t, original, rewritten)
	assert.Equal(t, wantEntries, entryNames(t, input))

	info, err := os.Stat(input)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	code, stdout, _ = runCLI("--inplace", input)
	require.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "fixed=0 failed=1")
}

func TestRunInPlaceWithBackup(t *testing.T) {
	original := buildHWPX(t)
	input := writeInput(t, "doc.hwpx", original)
	mtime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(input, mtime, mtime))

	code, stdout, stderr := runCLI("--inplace", "--backup", input)
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, "[OK] backup: "+input+backupSuffix)

	backup, err := os.ReadFile(input + backupSuffix)
	require.NoError(t, err)
	assert.Equal(t, original, backup)

	info, err := os.Stat(input + backupSuffix)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime), "backup mtime %v, want %v", info.ModTime(), mtime)
}

func TestRunInPlaceFailureKeepsOriginal(t *testing.T) {
	archive := buildHWPX(t)
	at := bytes.Index(archive, binBlob)
	require.Positive(t, at)
	archive[at] ^= 0xFF
	input := writeInput(t, "doc.hwpx", archive)

	code, _, stderr := runCLI("--inplace", "--backup", input)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "[ERR] failed:")

	after, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.Equal(t, archive, after)
	assert.NoFileExists(t, input+tempSuffix)
	assert.NoFileExists(t, input+backupSuffix)
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	valid := writeInput(t, "doc.hwpx", buildHWPX(t))
	text := writeInput(t, "notes.hwpx", []byte("just some text"))

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{"no arguments", nil, ExitUsage, "accepts 1 arg"},
		{"two inputs", []string{valid, valid}, ExitUsage, "accepts 1 arg"},
		{"unknown flag", []string{"--frobnicate", valid}, ExitUsage, "unknown flag"},
		{"missing input", []string{filepath.Join(dir, "missing.hwpx")}, ExitUsage, "file not found"},
		{"backup without inplace", []string{"--backup", valid}, ExitUsage, "--backup requires --inplace"},
		{"out with inplace", []string{"--inplace", "--out", filepath.Join(dir, "x.hwpx"), valid}, ExitUsage, "cannot be combined"},
		{"bad log level", []string{"--log-level", "chatty", valid}, ExitUsage, "invalid log level"},
		{"bad compression", []string{"--compression", "12", valid}, ExitUsage, "compression level"},
		{"not a zip", []string{text}, ExitInvalidContainer, "not a ZIP file (invalid HWPX)"},
		{"directory input", []string{dir}, ExitInvalidContainer, "not a ZIP file (invalid HWPX)"},
		{"out is the input", []string{"--out", valid, valid}, ExitUsage, "use --inplace"},
		{"unwritable output", []string{"--out", filepath.Join(dir, "no", "such", "x.hwpx"), valid}, ExitFailure, "failed:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(tt.args...)
			assert.Equal(t, tt.wantCode, code, stderr)
			assert.Contains(t, stderr, "[ERR]")
			assert.Contains(t, stderr, tt.wantErr)
		})
	}

	assert.NoFileExists(t, text+fixedSuffix, "invalid input must not produce output")
}

func TestRunRejectsOutputOverInput(t *testing.T) {
	original := buildHWPX(t)
	input := writeInput(t, "doc.hwpx", original)
	link := filepath.Join(filepath.Dir(input), "link.hwpx")
	require.NoError(t, os.Symlink(input, link))

	for _, out := range []string{input, link} {
		code, _, stderr := runCLI("--out", out, input)
		assert.Equal(t, ExitUsage, code, stderr)
		assert.Contains(t, stderr, "use --inplace")
	}

	after, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.Equal(t, original, after)
}

func TestRunWarnsOnForeignSuffix(t *testing.T) {
	input := writeInput(t, "doc.zip", buildHWPX(t))

	code, _, stderr := runCLI(input)
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stderr, "[WARN] input does not end with .hwpx")
}

func TestRunVerboseLogsParts(t *testing.T) {
	input := writeInput(t, "doc.hwpx", buildHWPX(t))

	code, _, stderr := runCLI("-v", input)
	require.Equal(t, ExitOK, code)
	assert.Contains(t, stderr, "part=Contents/section0.xml")
	assert.Contains(t, stderr, "kind=kept-original")
}

func TestHelpDoesNotTranscode(t *testing.T) {
	code, stdout, _ := runCLI("--help")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "--inplace")
	assert.Contains(t, stdout, "--backup")
}

// TestNoFlagConflicts verifies that the flag set can be built without
// shorthand collisions.
func TestNoFlagConflicts(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(io.Discard)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("flag conflict: %v", r)
		}
	}()
	_ = cmd.Flags()
	_ = cmd.InheritedFlags()
	for _, name := range []string{"out", "inplace", "backup", "verbose", "log-level", "compression"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
