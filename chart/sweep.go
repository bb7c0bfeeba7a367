package chart

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/glog"
)

// SweepTempDir removes render directories under dir older than maxAge. Render
// directories are normally removed as soon as a render finishes; this catches
// those left behind by a crash or a kill.
func SweepTempDir(dir string, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	var removed int
	cutoff := time.Now().Add(-maxAge)

	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "render-") {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			glog.Warningf("os.RemoveAll(%s) %+v", path, err)
			continue
		}
		removed++
	}

	if removed > 0 && glog.V(2) {
		glog.Infof("Swept %d stale render directories from %s", removed, dir)
	}

	return removed, nil
}
