package filemgr

import "errors"

// DownloadType partitions the object store: every stored blob lives under
// downloads/<type>/<filename>.
type DownloadType string

const (
	TypeInstallers DownloadType = "installers"
	TypeDocuments  DownloadType = "documents"
	TypeResources  DownloadType = "resources"
	TypeUpdates    DownloadType = "updates"
)

var (
	AllowedExtensions = map[DownloadType][]string{
		TypeInstallers: {".exe", ".msi", ".dmg", ".pkg", ".deb", ".rpm", ".appimage", ".zip", ".tar.gz"},
		TypeUpdates:    {".exe", ".msi", ".dmg", ".pkg", ".deb", ".rpm", ".appimage", ".zip", ".tar.gz", ".patch"},
		TypeDocuments:  {".pdf", ".doc", ".docx", ".txt", ".md"},
		TypeResources:  {".pdf", ".zip", ".png", ".jpg", ".jpeg", ".svg", ".csv", ".json"},
	}

	AllowedMIMEs = map[DownloadType][]string{
		TypeInstallers: {
			"application/octet-stream", "application/zip", "application/gzip",
			"application/x-msdownload", "application/x-apple-diskimage",
			"application/vnd.debian.binary-package", "application/x-rpm",
		},
		TypeUpdates: {
			"application/octet-stream", "application/zip", "application/gzip",
			"application/x-msdownload", "application/x-apple-diskimage",
			"application/vnd.debian.binary-package", "application/x-rpm",
			"text/plain",
		},
		TypeDocuments: {
			"application/pdf", "application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"text/plain",
		},
		TypeResources: {
			"application/pdf", "application/zip", "image/png", "image/jpeg",
			"image/svg+xml", "text/csv", "application/json", "text/plain",
		},
	}

	ErrInvalidExtension = errors.New("invalid file extension")
	ErrInvalidMIME      = errors.New("invalid MIME type")
	ErrFileTooLarge     = errors.New("file size exceeds limit")
	ErrHashMismatch     = errors.New("supplied hash does not match stored content")

	LogFunc func(path string, size int64, mimeType string)
)

// ValidType reports whether t names a storage partition.
func ValidType(t DownloadType) bool {
	_, ok := AllowedExtensions[t]
	return ok
}
