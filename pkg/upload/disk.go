package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// Disk keeps uploads as flat files in one directory served under urlPrefix.
type Disk struct {
	fs        afero.Fs
	urlPrefix string
}

// NewDisk creates dir if it is missing.
func NewDisk(dir, urlPrefix string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir %s: %w", dir, err)
	}
	return NewDiskFs(afero.NewBasePathFs(afero.NewOsFs(), dir), urlPrefix), nil
}

// NewDiskFs builds a disk backend on top of an arbitrary filesystem rooted at
// the upload directory.
func NewDiskFs(fs afero.Fs, urlPrefix string) *Disk {
	return &Disk{
		fs:        fs,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
	}
}

func (d *Disk) Put(_ context.Context, name string, data []byte) error {
	f, err := d.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = d.fs.Remove(name)
		return err
	}
	return f.Close()
}

func (d *Disk) Delete(_ context.Context, name string) error {
	err := d.fs.Remove(name)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (d *Disk) List(_ context.Context) ([]Object, error) {
	entries, err := afero.ReadDir(d.fs, "/")
	if err != nil {
		return nil, err
	}

	objects := make([]Object, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		objects = append(objects, Object{Name: e.Name(), ModTime: e.ModTime()})
	}
	return objects, nil
}

func (d *Disk) URL(name string) string {
	return path.Join(d.urlPrefix, name)
}

func (d *Disk) Name(url string) (string, bool) {
	name, ok := strings.CutPrefix(url, d.urlPrefix+"/")
	if !ok || name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}
