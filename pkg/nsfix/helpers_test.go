package nsfix

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testEntry struct {
	name   string
	data   []byte
	method uint16
}

func deflated(name, data string) testEntry {
	return testEntry{name: name, data: []byte(data), method: zip.Deflate}
}

func stored(name string, data []byte) testEntry {
	return testEntry{name: name, data: data, method: zip.Store}
}

// buildArchive creates an in-memory ZIP with the given entries in order
func buildArchive(t *testing.T, entries ...testEntry) []byte {
	t.Helper()

	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	for _, e := range entries {
		fw, err := w.CreateHeader(&zip.FileHeader{Name: e.name, Method: e.method})
		require.NoError(t, err)
		if len(e.data) > 0 {
			_, err = fw.Write(e.data)
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// readArchive returns the entries of a ZIP in stored order
func readArchive(t *testing.T, data []byte) []testEntry {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	entries := make([]testEntry, 0, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		entries = append(entries, testEntry{name: f.Name, data: content, method: f.Method})
	}
	return entries
}

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func newTestTranscoder(t *testing.T) *Transcoder {
	t.Helper()

	tr, err := NewTranscoder(&Config{Logger: NewLogger(io.Discard, LogOff)})
	require.NoError(t, err)
	return tr
}

func transcodeBytes(t *testing.T, tr *Transcoder, archive []byte) (*Stats, []byte) {
	t.Helper()

	out := new(bytes.Buffer)
	stats, err := tr.TranscodeArchive(bytes.NewReader(archive), int64(len(archive)), out)
	require.NoError(t, err)
	return stats, out.Bytes()
}
