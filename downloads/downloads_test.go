package downloads

import (
	"errors"
	"testing"

	"vantage/filemgr"
	"vantage/models"
)

var computed = map[string]string{
	"sha256": "aa11",
	"sha384": "bb22",
	"sha512": "cc33",
}

func TestVerifyHashesAcceptsMatchingPairs(t *testing.T) {
	supplied := []models.HashPair{
		{Algo: "SHA-256", Value: "AA11"},
		{Algo: "sha512", Value: " cc33 "},
	}
	if err := VerifyHashes(supplied, computed); err != nil {
		t.Fatalf("expected matching pairs to verify, got %v", err)
	}
}

func TestVerifyHashesRejectsMismatch(t *testing.T) {
	supplied := []models.HashPair{{Algo: "sha256", Value: "deadbeef"}}
	err := VerifyHashes(supplied, computed)
	if !errors.Is(err, filemgr.ErrHashMismatch) {
		t.Fatalf("expected ErrHashMismatch, got %v", err)
	}
}

func TestVerifyHashesRejectsUnknownAlgorithm(t *testing.T) {
	supplied := []models.HashPair{{Algo: "md5", Value: "aa11"}}
	err := VerifyHashes(supplied, computed)
	if !errors.Is(err, filemgr.ErrHashMismatch) {
		t.Fatalf("expected ErrHashMismatch for unknown algo, got %v", err)
	}
}

func TestVerifyHashesAllowsEmptySupplied(t *testing.T) {
	if err := VerifyHashes(nil, computed); err != nil {
		t.Fatalf("expected nil error for no supplied hashes, got %v", err)
	}
}

func TestHashPairsStableOrder(t *testing.T) {
	pairs := hashPairs(computed)
	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(pairs))
	}
	wantOrder := []string{"sha256", "sha384", "sha512"}
	for i, algo := range wantOrder {
		if pairs[i].Algo != algo {
			t.Errorf("pair %d algo = %s, want %s", i, pairs[i].Algo, algo)
		}
	}
}

func TestRemoveFileEntries(t *testing.T) {
	files := []models.VersionFile{
		{FileName: "setup-1.0.zip", DownloadID: "d1"},
		{FileName: "patch.zip", DownloadID: "d2"},
		{FileName: "setup-1.0.zip", DownloadID: "d3"},
	}

	kept, removed := RemoveFileEntries(files, "setup-1.0.zip")
	if !removed {
		t.Fatal("expected removal to be reported")
	}
	if len(kept) != 1 || kept[0].FileName != "patch.zip" {
		t.Fatalf("unexpected kept entries: %+v", kept)
	}

	// versions not referencing the filename are left untouched
	kept2, removed2 := RemoveFileEntries(kept, "setup-1.0.zip")
	if removed2 {
		t.Fatal("expected no removal for absent filename")
	}
	if len(kept2) != 1 {
		t.Fatalf("unexpected entry count: %d", len(kept2))
	}
}
