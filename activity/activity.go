package activity

import (
	"context"
	"net/http"
	"strconv"

	"vantage/db"
	"vantage/models"
	"vantage/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultPageSize = 20

// GetActivityFeed handles GET /api/activity?page=&limit=, newest first.
func GetActivityFeed(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = defaultPageSize
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := db.ActivitiesCollection.Find(context.TODO(), bson.M{}, opts)
	if err != nil {
		http.Error(w, "Failed to fetch activity", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(context.TODO())

	var feed []models.Activity
	if err := cursor.All(context.TODO(), &feed); err != nil {
		http.Error(w, "Error processing activity", http.StatusInternalServerError)
		return
	}
	if feed == nil {
		feed = []models.Activity{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"page":       page,
		"limit":      limit,
		"activities": feed,
	})
}
