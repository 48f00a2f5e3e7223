package metrics

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"
)

// SysHealth represents real-time process metrics and the size of the data
// directory (database and recipe files).
type SysHealth struct {
	AllocMB      uint64
	SysMB        uint64
	NumGC        uint32
	Goroutines   int
	DataFiles    int
	DataDiskSize string
}

// GetSysHealth collects real-time health data.
func GetSysHealth(dataPath string) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	files, size := walkDir(dataPath)
	return SysHealth{
		AllocMB:      m.Alloc / 1024 / 1024,
		SysMB:        m.Sys / 1024 / 1024,
		NumGC:        m.NumGC,
		Goroutines:   runtime.NumGoroutine(),
		DataFiles:    files,
		DataDiskSize: formatBytes(size),
	}
}

// Summary renders the health data as short "key: value" lines.
func (h SysHealth) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Memory: %d MB allocated, %d MB from OS\n", h.AllocMB, h.SysMB)
	fmt.Fprintf(&b, "GC runs: %d\n", h.NumGC)
	fmt.Fprintf(&b, "Goroutines: %d\n", h.Goroutines)
	fmt.Fprintf(&b, "Data: %d files, %s\n", h.DataFiles, h.DataDiskSize)
	return b.String()
}

func walkDir(path string) (files int, size int64) {
	_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		files++
		size += info.Size()
		return nil
	})
	return files, size
}

func formatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
