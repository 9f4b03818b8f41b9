package resources

import "testing"

func TestDiskSpaceReportsUsage(t *testing.T) {
	info, err := DiskSpace(t.TempDir())
	if err != nil {
		t.Fatalf("DiskSpace() error: %v", err)
	}
	if info.TotalMB == 0 {
		t.Error("TotalMB should be non-zero")
	}
	if info.UsedPercent < 0 || info.UsedPercent > 100 {
		t.Errorf("UsedPercent out of range: %f", info.UsedPercent)
	}
}

func TestFull(t *testing.T) {
	info := &DiskSpaceInfo{UsedPercent: 96.5}
	if !info.Full(95) {
		t.Error("expected Full at 96.5%% used with 95%% limit")
	}
	if info.Full(99) {
		t.Error("did not expect Full with 99%% limit")
	}
}
