package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"
)

// MoveFile moves src into destDir, appending _N to the name on collision
func MoveFile(src, destDir string) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return err
	}

	name := uniqueName(filepath.Base(src), func(candidate string) bool {
		return !exists(filepath.Join(destDir, candidate))
	})
	return rename(src, filepath.Join(destDir, name))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}

// uniqueName returns filename, or filename with a _N suffix before the
// extension, whichever free reports as available first.
func uniqueName(filename string, free func(string) bool) string {
	if free(filename) {
		return filename
	}

	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if free(candidate) {
			return candidate
		}
	}
}

// rename moves a file, falling back to copy and delete across file systems
func rename(src, dest string) error {
	err := os.Rename(src, dest)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		if err := copyFile(src, dest); err != nil {
			return err
		}
		return os.Remove(src)
	}
	return err
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}

// moveToTrash moves a file to the platform trash. Linux follows the
// freedesktop.org layout with a .trashinfo record; macOS uses ~/.Trash.
func (d *Disposer) moveToTrash(path string) error {
	if runtime.GOOS == "windows" {
		return moveToWindowsTrash(path)
	}

	home := d.home
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
	}

	switch runtime.GOOS {
	case "linux":
		return moveToFreedesktopTrash(path, filepath.Join(home, ".local", "share", "Trash"))
	case "darwin":
		return MoveFile(path, filepath.Join(home, ".Trash"))
	default:
		return MoveFile(path, filepath.Join(home, "dupgroup_trash"))
	}
}

func moveToFreedesktopTrash(path, trashDir string) error {
	filesDir := filepath.Join(trashDir, "files")
	infoDir := filepath.Join(trashDir, "info")
	for _, dir := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create trash directory: %w", err)
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	name := uniqueName(filepath.Base(path), func(candidate string) bool {
		return !exists(filepath.Join(filesDir, candidate)) &&
			!exists(filepath.Join(infoDir, candidate+".trashinfo"))
	})

	infoPath := filepath.Join(infoDir, name+".trashinfo")
	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n", abs, time.Now().Format("2006-01-02T15:04:05"))
	if err := os.WriteFile(infoPath, []byte(info), 0644); err != nil {
		return err
	}

	if err := rename(path, filepath.Join(filesDir, name)); err != nil {
		os.Remove(infoPath)
		return err
	}
	return nil
}
