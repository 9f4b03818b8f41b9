// Package resources reports local machine capacity the agent cares about
// before taking on work.
package resources

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/disk"
)

// DiskSpaceInfo describes free space on the volume holding the work directory.
type DiskSpaceInfo struct {
	Path        string
	TotalMB     uint64
	AvailableMB uint64
	UsedPercent float64
}

// DiskSpace returns usage for the volume containing path.
func DiskSpace(path string) (*DiskSpaceInfo, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat disk for %s: %w", path, err)
	}
	return &DiskSpaceInfo{
		Path:        path,
		TotalMB:     usage.Total / (1024 * 1024),
		AvailableMB: usage.Free / (1024 * 1024),
		UsedPercent: usage.UsedPercent,
	}, nil
}

// Full reports whether the volume has crossed the given used-percent limit.
func (d *DiskSpaceInfo) Full(limitPercent float64) bool {
	return d.UsedPercent >= limitPercent
}
