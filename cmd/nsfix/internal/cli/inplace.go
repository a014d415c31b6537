package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/benjaminschreck/go-nsfix/pkg/nsfix"
)

// fixInPlace transcodes path into a temporary sibling and renames it over
// path only after the whole transcode succeeded. On failure path is left
// untouched and the temporary file is removed.
func fixInPlace(tr *nsfix.Transcoder, path string, backup bool) (*nsfix.Stats, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", err
	}

	tmp := path + tempSuffix
	stats, err := tr.Transcode(path, tmp)
	if err == nil {
		err = os.Chmod(tmp, info.Mode().Perm())
	}

	backupPath := ""
	if err == nil && backup {
		backupPath = path + backupSuffix
		if err = copyFile(path, backupPath); err != nil {
			err = fmt.Errorf("backup: %w", err)
		}
	}

	if err == nil {
		err = os.Rename(tmp, path)
	}

	if err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			err = errors.Join(err, fmt.Errorf("remove temporary file: %w", rmErr))
		}
		return nil, "", err
	}

	return stats, backupPath, nil
}

// copyFile copies src to dst keeping the permission bits and modification time
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
