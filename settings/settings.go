package settings

import (
	"context"
	"encoding/json"
	"net/http"

	"vantage/db"
	"vantage/globals"
	"vantage/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserSettings holds per-user dashboard preferences.
type UserSettings struct {
	UserID           string `json:"userID,omitempty" bson:"userID"`
	Theme            string `json:"theme" bson:"theme"`
	SidebarCollapsed bool   `json:"sidebar_collapsed" bson:"sidebar_collapsed"`
	Notifications    bool   `json:"notifications" bson:"notifications"`
	AutoLogout       bool   `json:"auto_logout" bson:"auto_logout"`
	Language         string `json:"language" bson:"language"`
}

// Default settings if user settings don't exist
func getDefaultSettings(userID string) UserSettings {
	return UserSettings{
		UserID:           userID,
		Theme:            "light",
		SidebarCollapsed: false,
		Notifications:    true,
		AutoLogout:       true,
		Language:         "english",
	}
}

// GetUserSettings handles GET /api/settings.
func GetUserSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Invalid user", http.StatusUnauthorized)
		return
	}

	var userSettings UserSettings
	err := db.SettingsCollection.FindOne(context.TODO(), bson.M{"userID": userID}).Decode(&userSettings)
	if err == mongo.ErrNoDocuments {
		// Initialize settings if missing
		userSettings = getDefaultSettings(userID)
		_, _ = db.SettingsCollection.InsertOne(context.TODO(), userSettings)
	} else if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, userSettings)
}

// UpdateUserSetting handles PUT /api/settings/:type.
func UpdateUserSetting(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Invalid user", http.StatusUnauthorized)
		return
	}
	settingType := ps.ByName("type")

	validSettings := map[string]bool{
		"theme":             true,
		"sidebar_collapsed": true,
		"notifications":     true,
		"auto_logout":       true,
		"language":          true,
	}
	if !validSettings[settingType] {
		http.Error(w, "Invalid setting type", http.StatusBadRequest)
		return
	}

	var update struct {
		Value any `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	filter := bson.M{"userID": userID}
	updateDoc := bson.M{"$set": bson.M{settingType: update.Value}}

	opts := options.Update().SetUpsert(true)
	if _, err := db.SettingsCollection.UpdateOne(context.TODO(), filter, updateDoc, opts); err != nil {
		http.Error(w, "Failed to update setting", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Setting updated successfully",
		"type":    settingType,
		"value":   update.Value,
	})
}
