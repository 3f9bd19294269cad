package versions

import (
	"testing"
	"time"

	"vantage/models"
)

func TestBuildDownloadItemMirrorsFileMetadata(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	f := models.VersionFile{
		FileName: "agent-2.4.1.tar.gz",
		Size:     "1.0 MB",
		URL:      "https://cdn.example.com/agent-2.4.1.tar.gz",
		Hashes: []models.HashPair{
			{Algo: "sha256", Value: "aa11"},
		},
	}
	v := models.Version{Version: "2.4.1"}

	item := BuildDownloadItem(f, v, "d12345", now)

	if item.DownloadID != "d12345" {
		t.Errorf("DownloadID = %s, want d12345", item.DownloadID)
	}
	if item.Type != mirrorType {
		t.Errorf("Type = %s, want %s", item.Type, mirrorType)
	}
	if item.Path != "downloads/updates/agent-2.4.1.tar.gz" {
		t.Errorf("Path = %s", item.Path)
	}
	if item.Name != f.FileName || item.FileName != f.FileName {
		t.Errorf("name fields = %s / %s, want %s", item.Name, item.FileName, f.FileName)
	}
	if item.Version != "2.4.1" {
		t.Errorf("Version = %s", item.Version)
	}
	if item.Size != f.Size {
		t.Errorf("Size = %q, want %q", item.Size, f.Size)
	}
	if len(item.Hashes) != 1 || item.Hashes[0].Value != "aa11" {
		t.Errorf("hashes not carried over: %+v", item.Hashes)
	}
	if !item.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", item.UpdatedAt, now)
	}
}
