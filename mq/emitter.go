package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"vantage/db"
	"vantage/models"
	"vantage/rdx"
	"vantage/utils"
)

const channel = "activity-events"

// Emit publishes a mutation event to the Redis bus. Delivery is best effort;
// a failed publish is logged, never surfaced to the caller.
func Emit(eventName string, content models.Index) {
	content.Method = eventName
	data, err := json.Marshal(content)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event content: %v", err)
		return
	}

	if err := rdx.Conn.Publish(context.Background(), channel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish %s to Redis: %v", eventName, err)
	}
}

// StartActivityWorker consumes bus events, persists them as activity feed
// documents, and forwards them to the given broadcaster (the live websocket
// hub). Runs until the subscription channel closes.
func StartActivityWorker(broadcast func(models.Activity)) {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, channel)
	ch := sub.Channel()

	log.Println("[ActivityWorker] Listening for activity events...")

	for msg := range ch {
		var event models.Index
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[ActivityWorker] Failed to parse event: %v", err)
			continue
		}

		act := models.Activity{
			ActivityID: "a" + utils.GenerateID(14),
			UserID:     event.EntityId,
			Action:     event.Method,
			EntityType: event.EntityType,
			EntityID:   event.ItemId,
			CreatedAt:  time.Now().UTC(),
		}

		if _, err := db.ActivitiesCollection.InsertOne(ctx, act); err != nil {
			log.Printf("[ActivityWorker] Failed to persist activity: %v", err)
			continue
		}

		if broadcast != nil {
			broadcast(act)
		}
	}
}
