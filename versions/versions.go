package versions

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"vantage/db"
	"vantage/filemgr"
	"vantage/models"
	"vantage/mq"
	"vantage/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mirrored version files live in the updates partition of the downloads view.
const mirrorType = models.DownloadUpdates

// BuildDownloadItem constructs the download document mirroring one version
// file. The item's DownloadID must be its own document id so the back-
// reference on the version entry stays self-consistent.
func BuildDownloadItem(f models.VersionFile, v models.Version, downloadID string, now time.Time) models.DownloadItem {
	return models.DownloadItem{
		DownloadID: downloadID,
		Type:       mirrorType,
		Name:       f.FileName,
		FileName:   f.FileName,
		Version:    v.Version,
		Size:       f.Size,
		Path:       filemgr.StoragePath(filemgr.DownloadType(mirrorType), f.FileName),
		URL:        f.URL,
		Hashes:     f.Hashes,
		UpdatedAt:  now,
	}
}

// SyncFiles mirrors every attached file into the downloads collection. Files
// without a downloadId get a new document whose id is written back onto the
// entry; files with one update the existing document in place. Returns the
// updated entries.
func SyncFiles(ctx context.Context, v models.Version) ([]models.VersionFile, error) {
	now := time.Now().UTC()
	files := make([]models.VersionFile, len(v.Files))
	copy(files, v.Files)

	for i := range files {
		if files[i].DownloadID == "" {
			id := "d" + utils.GenerateID(14)
			item := BuildDownloadItem(files[i], v, id, now)
			if _, err := db.DownloadsCollection.InsertOne(ctx, item); err != nil {
				return files, fmt.Errorf("mirror %s: %w", files[i].FileName, err)
			}
			files[i].DownloadID = id
			continue
		}

		item := BuildDownloadItem(files[i], v, files[i].DownloadID, now)
		res, err := db.DownloadsCollection.UpdateOne(
			ctx,
			bson.M{"downloadid": files[i].DownloadID},
			bson.M{"$set": item},
		)
		if err != nil {
			return files, fmt.Errorf("update mirror %s: %w", files[i].DownloadID, err)
		}
		if res.MatchedCount == 0 {
			// stale back-reference; recreate rather than lose the file
			if _, err := db.DownloadsCollection.InsertOne(ctx, item); err != nil {
				return files, fmt.Errorf("recreate mirror %s: %w", files[i].DownloadID, err)
			}
		}
	}
	return files, nil
}

// List handles GET /api/versions, newest release first.
func List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := options.Find().SetSort(bson.D{{Key: "release_date", Value: -1}})
	cursor, err := db.VersionsCollection.Find(context.TODO(), bson.M{}, opts)
	if err != nil {
		http.Error(w, "Failed to fetch versions", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(context.TODO())

	var versions []models.Version
	if err := cursor.All(context.TODO(), &versions); err != nil {
		http.Error(w, "Error processing versions", http.StatusInternalServerError)
		return
	}
	if versions == nil {
		versions = []models.Version{}
	}
	utils.RespondWithJSON(w, http.StatusOK, versions)
}

// Latest handles GET /api/versions/latest.
func Latest(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := options.FindOne().SetSort(bson.D{{Key: "release_date", Value: -1}})
	var v models.Version
	err := db.VersionsCollection.FindOne(context.TODO(), bson.M{}, opts).Decode(&v)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "No versions published", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to fetch latest version", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, v)
}

// Create handles POST /api/versions.
func Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var v models.Version
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if v.Version == "" {
		http.Error(w, "Missing version string", http.StatusBadRequest)
		return
	}

	v.VersionID = "v" + utils.GenerateID(14)
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now
	if v.ReleaseDate.IsZero() {
		v.ReleaseDate = now
	}
	if v.Files == nil {
		v.Files = []models.VersionFile{}
	}
	// new version entries never carry pre-existing back-references
	for i := range v.Files {
		v.Files[i].DownloadID = ""
	}

	files, err := SyncFiles(context.TODO(), v)
	if err != nil {
		log.Printf("download mirror during version create failed: %v", err)
		http.Error(w, "Failed to mirror version files", http.StatusInternalServerError)
		return
	}
	v.Files = files

	if _, err := db.VersionsCollection.InsertOne(context.TODO(), v); err != nil {
		http.Error(w, "Failed to save version", http.StatusInternalServerError)
		return
	}

	mq.Emit("version-created", models.Index{EntityType: "version", ItemId: v.VersionID, EntityId: utils.GetUserIDFromRequest(r)})
	utils.SendResponse(w, http.StatusCreated, v, "Version created", nil)
}

// Edit handles PUT /api/versions/:versionid. Attached files that already
// carry a downloadId update their mirror in place; the rest create new ones.
func Edit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	versionID := ps.ByName("versionid")

	var existing models.Version
	err := db.VersionsCollection.FindOne(context.TODO(), bson.M{"versionid": versionID}).Decode(&existing)
	if err != nil {
		http.Error(w, "Version not found", http.StatusNotFound)
		return
	}

	var v models.Version
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	v.VersionID = versionID
	v.CreatedAt = existing.CreatedAt
	v.UpdatedAt = time.Now().UTC()
	if v.Version == "" {
		v.Version = existing.Version
	}
	if v.ReleaseDate.IsZero() {
		v.ReleaseDate = existing.ReleaseDate
	}
	if v.Files == nil {
		v.Files = []models.VersionFile{}
	}

	files, err := SyncFiles(context.TODO(), v)
	if err != nil {
		log.Printf("download mirror during version edit failed: %v", err)
		http.Error(w, "Failed to mirror version files", http.StatusInternalServerError)
		return
	}
	v.Files = files

	_, err = db.VersionsCollection.UpdateOne(
		context.TODO(),
		bson.M{"versionid": versionID},
		bson.M{"$set": v},
	)
	if err != nil {
		http.Error(w, "Failed to update version", http.StatusInternalServerError)
		return
	}

	mq.Emit("version-updated", models.Index{EntityType: "version", ItemId: versionID, EntityId: utils.GetUserIDFromRequest(r)})
	utils.SendResponse(w, http.StatusOK, v, "Version updated", nil)
}

// Delete handles DELETE /api/versions/:versionid.
func Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	versionID := ps.ByName("versionid")

	res, err := db.VersionsCollection.DeleteOne(context.TODO(), bson.M{"versionid": versionID})
	if err != nil {
		http.Error(w, "Failed to delete version", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "Version not found", http.StatusNotFound)
		return
	}

	mq.Emit("version-deleted", models.Index{EntityType: "version", ItemId: versionID, EntityId: utils.GetUserIDFromRequest(r)})
	utils.SendResponse(w, http.StatusOK, nil, "Version deleted", nil)
}
