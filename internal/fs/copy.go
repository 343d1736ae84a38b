package fs

import (
	"io"
	"os"

	"github.com/spf13/afero"
)

// copyOnce copies src into a freshly created dst. The destination is opened
// with O_EXCL so an existing artifact is never overwritten; a failed copy
// removes what it created.
func copyOnce(f afero.Fs, src, dst string) (err error) {
	in, err := f.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := f.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = f.Remove(dst)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}

	return out.Sync()
}
