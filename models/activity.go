package models

import "time"

// Index represents a mutation event published on the Redis bus.
type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
	ItemId     string `json:"item_id"`
	ItemType   string `json:"item_type"`
}

// Activity is one dashboard feed entry, persisted by the indexing worker.
type Activity struct {
	ActivityID string    `json:"activityid" bson:"activityid"`
	UserID     string    `json:"userid" bson:"userid"`
	Action     string    `json:"action" bson:"action"`
	EntityType string    `json:"entity_type" bson:"entity_type"`
	EntityID   string    `json:"entity_id" bson:"entity_id"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
