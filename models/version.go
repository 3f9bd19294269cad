package models

import "time"

// VersionFile is one distributable attached to a release version. DownloadID
// back-references the mirrored document in the downloads collection.
type VersionFile struct {
	FileName   string     `json:"filename" bson:"filename"`
	Size       string     `json:"size" bson:"size"`
	URL        string     `json:"url" bson:"url"`
	DownloadID string     `json:"downloadId" bson:"downloadId"`
	Hashes     []HashPair `json:"hashes,omitempty" bson:"hashes,omitempty"`
}

type Version struct {
	VersionID   string        `json:"versionid" bson:"versionid"`
	Version     string        `json:"version" bson:"version"`
	ReleaseDate time.Time     `json:"release_date" bson:"release_date"`
	ReleaseType string        `json:"release_type" bson:"release_type"`
	Description string        `json:"description,omitempty" bson:"description,omitempty"`
	Files       []VersionFile `json:"files" bson:"files"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" bson:"updated_at"`
}
