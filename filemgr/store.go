package filemgr

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// StorageRoot is the on-disk root the downloads/ tree is written under.
var StorageRoot = "static"

// StoredObject holds the storage-derived metadata for a saved blob.
type StoredObject struct {
	FileName string
	Path     string // downloads/<type>/<filename>
	Size     int64
	ModTime  time.Time
	Hashes   map[string]string // sha256, sha384, sha512 of the stored bytes
}

// StoragePath builds the canonical object path for a partition and file name.
func StoragePath(dtype DownloadType, filename string) string {
	return "downloads/" + string(dtype) + "/" + filename
}

// ObjectURL returns the public URL a stored path is served from.
func ObjectURL(path string) string {
	base := os.Getenv("PUBLIC_BASE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	return strings.TrimRight(base, "/") + "/static/" + path
}

// SaveDownload streams an uploaded file into the type partition, validating
// extension and sniffed MIME and computing sha256/384/512 digests of the
// bytes actually written.
func SaveDownload(reader io.Reader, header *multipart.FileHeader, dtype DownloadType, maxSize int64) (*StoredObject, error) {
	if !ValidType(dtype) {
		return nil, fmt.Errorf("unknown download type: %s", dtype)
	}

	filename := safeFilename(header.Filename)
	ext := lowerExt(filename)
	if !isExtensionAllowed(ext, dtype) {
		return nil, fmt.Errorf("%w: %s for %s", ErrInvalidExtension, ext, dtype)
	}

	buf := make([]byte, 512)
	n, err := reader.Read(buf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read header: %w", err)
	}
	mimeType := http.DetectContentType(buf[:n])
	if mimeType == "application/octet-stream" {
		if formMime := header.Header.Get("Content-Type"); formMime != "" {
			mimeType = formMime
		}
	}
	if !isMIMEAllowed(mimeType, dtype) {
		return nil, fmt.Errorf("%w: %s for %s", ErrInvalidMIME, mimeType, dtype)
	}

	if err := ScanForViruses(filename); err != nil {
		return nil, fmt.Errorf("virus scan failed: %w", err)
	}

	relPath := StoragePath(dtype, filename)
	fullPath := filepath.Join(StorageRoot, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(fullPath), err)
	}

	out, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", fullPath, err)
	}
	defer out.Close()

	h256 := sha256.New()
	h384 := sha512.New384()
	h512 := sha512.New()
	dst := io.MultiWriter(out, h256, h384, h512)

	if _, err := dst.Write(buf[:n]); err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("write header: %w", err)
	}

	written, err := io.Copy(dst, io.LimitReader(reader, maxSize-int64(n)+1))
	if err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("write body: %w", err)
	}
	total := written + int64(n)
	if maxSize > 0 && total > maxSize {
		os.Remove(fullPath)
		return nil, ErrFileTooLarge
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", fullPath, err)
	}

	obj := &StoredObject{
		FileName: filename,
		Path:     relPath,
		Size:     info.Size(),
		ModTime:  info.ModTime().UTC(),
		Hashes: map[string]string{
			"sha256": hex.EncodeToString(h256.Sum(nil)),
			"sha384": hex.EncodeToString(h384.Sum(nil)),
			"sha512": hex.EncodeToString(h512.Sum(nil)),
		},
	}

	if LogFunc != nil {
		LogFunc(relPath, obj.Size, mimeType)
	}
	return obj, nil
}

// RemoveObject deletes a stored blob by its canonical path. Missing objects
// are not an error so compensation steps stay idempotent.
func RemoveObject(relPath string) error {
	fullPath := filepath.Join(StorageRoot, filepath.FromSlash(relPath))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", fullPath, err)
	}
	return nil
}

func ScanForViruses(fileName string) error {
	if strings.Contains(fileName, "virus") {
		return fmt.Errorf("virus signature matched")
	}
	return nil
}

// lowerExt returns the extension, treating .tar.gz as a single suffix.
func lowerExt(name string) string {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".tar.gz") {
		return ".tar.gz"
	}
	return filepath.Ext(lower)
}

func safeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}

func isExtensionAllowed(ext string, dtype DownloadType) bool {
	for _, a := range AllowedExtensions[dtype] {
		if ext == a {
			return true
		}
	}
	return false
}

func isMIMEAllowed(mimeType string, dtype DownloadType) bool {
	for _, a := range AllowedMIMEs[dtype] {
		if mimeType == a || strings.HasPrefix(mimeType, a+";") {
			return true
		}
	}
	return false
}
