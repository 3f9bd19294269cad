package models

import "time"

const (
	DownloadInstallers = "installers"
	DownloadDocuments  = "documents"
	DownloadResources  = "resources"
	DownloadUpdates    = "updates"
)

// HashPair is one integrity digest of a distributable file.
type HashPair struct {
	Algo  string `json:"algo" bson:"algo"`
	Value string `json:"value" bson:"value"`
}

// DownloadItem is the metadata record mirroring a stored blob. Path must
// always equal downloads/<type>/<filename>.
type DownloadItem struct {
	DownloadID  string     `json:"downloadid" bson:"downloadid"`
	Type        string     `json:"type" bson:"type"`
	Name        string     `json:"name" bson:"name"`
	FileName    string     `json:"filename" bson:"filename"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Version     string     `json:"version,omitempty" bson:"version,omitempty"`
	Size        string     `json:"size" bson:"size"`
	Path        string     `json:"path" bson:"path"`
	URL         string     `json:"url" bson:"url"`
	Hashes      []HashPair `json:"hashes,omitempty" bson:"hashes,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}

// ValidDownloadType reports whether t is one of the four storage partitions.
func ValidDownloadType(t string) bool {
	switch t {
	case DownloadInstallers, DownloadDocuments, DownloadResources, DownloadUpdates:
		return true
	}
	return false
}

// CarriesHashes reports whether items of type t carry integrity pairs.
func CarriesHashes(t string) bool {
	return t == DownloadInstallers || t == DownloadUpdates
}
