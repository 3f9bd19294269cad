package filemgr

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestStoragePath(t *testing.T) {
	cases := []struct {
		dtype    DownloadType
		filename string
		want     string
	}{
		{TypeInstallers, "setup.exe", "downloads/installers/setup.exe"},
		{TypeDocuments, "manual.pdf", "downloads/documents/manual.pdf"},
		{TypeResources, "logo.png", "downloads/resources/logo.png"},
		{TypeUpdates, "patch-1.2.zip", "downloads/updates/patch-1.2.zip"},
	}
	for _, tc := range cases {
		if got := StoragePath(tc.dtype, tc.filename); got != tc.want {
			t.Errorf("StoragePath(%s, %s) = %q, want %q", tc.dtype, tc.filename, got, tc.want)
		}
	}
}

func TestSafeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"my installer.exe", "my_installer.exe"},
		{"../../evil.zip", "evil.zip"},
		{"ok-1.2.3.tar.gz", "ok-1.2.3.tar.gz"},
	}
	for _, tc := range cases {
		if got := safeFilename(tc.in); got != tc.want {
			t.Errorf("safeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLowerExt(t *testing.T) {
	if got := lowerExt("Setup.EXE"); got != ".exe" {
		t.Errorf("lowerExt = %q, want .exe", got)
	}
	if got := lowerExt("bundle.tar.gz"); got != ".tar.gz" {
		t.Errorf("lowerExt = %q, want .tar.gz", got)
	}
}

// uploadRequest builds a multipart request carrying one file field.
func uploadRequest(t *testing.T, filename string, content []byte) (*multipart.FileHeader, multipart.File) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/api/downloads", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse multipart: %v", err)
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	return header, file
}

// zip magic keeps DetectContentType happy for the installer partition
var zipContent = append([]byte("PK\x03\x04"), bytes.Repeat([]byte{0xAB}, 2048)...)

func TestSaveDownloadStoresBlobAndComputesHashes(t *testing.T) {
	oldRoot := StorageRoot
	StorageRoot = t.TempDir()
	defer func() { StorageRoot = oldRoot }()

	header, file := uploadRequest(t, "setup-1.0.zip", zipContent)
	defer file.Close()

	obj, err := SaveDownload(file, header, TypeInstallers, 1<<20)
	if err != nil {
		t.Fatalf("SaveDownload: %v", err)
	}

	if obj.Path != "downloads/installers/setup-1.0.zip" {
		t.Errorf("path = %q, want downloads/installers/setup-1.0.zip", obj.Path)
	}
	if obj.Size != int64(len(zipContent)) {
		t.Errorf("size = %d, want %d", obj.Size, len(zipContent))
	}

	sum := sha256.Sum256(zipContent)
	if obj.Hashes["sha256"] != hex.EncodeToString(sum[:]) {
		t.Errorf("sha256 mismatch: got %s", obj.Hashes["sha256"])
	}
	if len(obj.Hashes["sha384"]) != 96 || len(obj.Hashes["sha512"]) != 128 {
		t.Errorf("unexpected digest lengths: %d/%d", len(obj.Hashes["sha384"]), len(obj.Hashes["sha512"]))
	}

	stored, err := os.ReadFile(filepath.Join(StorageRoot, "downloads", "installers", "setup-1.0.zip"))
	if err != nil {
		t.Fatalf("stored blob missing: %v", err)
	}
	if !bytes.Equal(stored, zipContent) {
		t.Error("stored bytes differ from uploaded bytes")
	}
}

func TestSaveDownloadRejectsBadExtension(t *testing.T) {
	oldRoot := StorageRoot
	StorageRoot = t.TempDir()
	defer func() { StorageRoot = oldRoot }()

	header, file := uploadRequest(t, "notes.txt", []byte("plain text"))
	defer file.Close()

	if _, err := SaveDownload(file, header, TypeInstallers, 1<<20); err == nil {
		t.Fatal("expected extension rejection for .txt installer")
	}
}

func TestSaveDownloadEnforcesSizeLimit(t *testing.T) {
	oldRoot := StorageRoot
	StorageRoot = t.TempDir()
	defer func() { StorageRoot = oldRoot }()

	header, file := uploadRequest(t, "big.zip", zipContent)
	defer file.Close()

	if _, err := SaveDownload(file, header, TypeInstallers, 128); err != ErrFileTooLarge {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestRemoveObjectIdempotent(t *testing.T) {
	oldRoot := StorageRoot
	StorageRoot = t.TempDir()
	defer func() { StorageRoot = oldRoot }()

	if err := RemoveObject("downloads/installers/never-existed.zip"); err != nil {
		t.Fatalf("RemoveObject on missing blob: %v", err)
	}
}
