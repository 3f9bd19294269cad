package models

import "time"

// ReleasePost is a published announcement shown on the dashboard feed.
type ReleasePost struct {
	PostID    string    `json:"postid" bson:"postid"`
	Title     string    `json:"title" bson:"title"`
	Body      string    `json:"body" bson:"body"`
	Version   string    `json:"version,omitempty" bson:"version,omitempty"`
	Tags      []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	CoverURL  string    `json:"cover_url,omitempty" bson:"cover_url,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
