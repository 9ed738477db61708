package fixer

import (
	"io/fs"
	"os"
)

// FS is a filesystem the fixer can read documents from and write them back to.
type FS interface {
	fs.FS
	WriteFile(name string, data []byte, perm fs.FileMode) error
}

// OS returns an FS backed by the host filesystem. Unlike [os.DirFS], names
// are passed to the os package unchanged, so absolute and relative paths given
// on the command line both work.
func OS() FS {
	return osFS{}
}

type osFS struct{}

func (osFS) Open(name string) (fs.File, error) {
	return os.Open(name) //nolint:gosec
}

func (osFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (osFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

func (osFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}
