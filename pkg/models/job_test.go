package models

import (
	"encoding/json"
	"testing"
)

func TestHasImageSet(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  bool
	}{
		{"complete set", []string{"/a.png", "/b.png", "/c.png", "/d.png"}, true},
		{"nil", nil, false},
		{"too few", []string{"/a.png", "/b.png"}, false},
		{"too many", []string{"/a.png", "/b.png", "/c.png", "/d.png", "/e.png"}, false},
		{"blank entry", []string{"/a.png", "", "/c.png", "/d.png"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := &PrintJob{ImagePaths: tt.paths}
			if got := j.HasImageSet(); got != tt.want {
				t.Errorf("HasImageSet() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrintJobDecoding(t *testing.T) {
	payload := `{
		"id": "J1",
		"status": "pending",
		"printerName": "HP_OfficeJet",
		"paperSize": "half-letter",
		"paperType": "sticker",
		"trayNumber": 3,
		"pdfUrl": "https://cdn.example.com/J1.pdf"
	}`

	var job PrintJob
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		t.Fatal(err)
	}
	if job.ID != "J1" || job.Status != JobStatusPending {
		t.Errorf("unexpected job: %+v", job)
	}
	if job.PrinterName != "HP_OfficeJet" || job.TrayNumber != 3 {
		t.Errorf("unexpected job: %+v", job)
	}
	if job.HasImageSet() {
		t.Error("job without images should not report an image set")
	}
}
