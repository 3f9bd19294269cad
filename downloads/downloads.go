package downloads

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"vantage/db"
	"vantage/filemgr"
	"vantage/models"
	"vantage/mq"
	"vantage/rdx"
	"vantage/utils"

	"github.com/julienschmidt/httprouter"
	qrcode "github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

const maxUploadSize = 500 << 20 // 500MB

// VerifyHashes checks operator-entered integrity pairs against the digests
// computed from the stored bytes. Unknown algorithms and mismatched values
// both fail the upload; the dashboard must never display a hash the stored
// content does not have.
func VerifyHashes(supplied []models.HashPair, computed map[string]string) error {
	for _, pair := range supplied {
		algo := strings.ToLower(strings.ReplaceAll(pair.Algo, "-", ""))
		want, ok := computed[algo]
		if !ok {
			return fmt.Errorf("%w: unsupported algorithm %q", filemgr.ErrHashMismatch, pair.Algo)
		}
		if !strings.EqualFold(strings.TrimSpace(pair.Value), want) {
			return fmt.Errorf("%w: %s", filemgr.ErrHashMismatch, algo)
		}
	}
	return nil
}

// hashPairs converts the computed digest map into the stored pair list.
func hashPairs(computed map[string]string) []models.HashPair {
	pairs := make([]models.HashPair, 0, 3)
	for _, algo := range []string{"sha256", "sha384", "sha512"} {
		if v, ok := computed[algo]; ok {
			pairs = append(pairs, models.HashPair{Algo: algo, Value: v})
		}
	}
	return pairs
}

func cacheKey(dtype string) string {
	return "downloads:" + dtype
}

func invalidateListCache(dtype string) {
	if err := rdx.RdxDel(cacheKey(dtype)); err != nil {
		log.Printf("downloads cache invalidation failed for %s: %v", dtype, err)
	}
}

// Upload handles POST /api/downloads (multipart): stores the blob under
// downloads/<type>/<filename>, then persists the metadata document. If the
// document write fails the stored object is removed again.
func Upload(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "Unable to parse form", http.StatusBadRequest)
		return
	}

	dtype := r.FormValue("type")
	if !models.ValidDownloadType(dtype) {
		http.Error(w, "Invalid download type", http.StatusBadRequest)
		return
	}
	name := r.FormValue("name")
	if name == "" {
		http.Error(w, "Missing name", http.StatusBadRequest)
		return
	}

	var supplied []models.HashPair
	if raw := r.FormValue("hashes"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &supplied); err != nil {
			http.Error(w, "Invalid hashes data", http.StatusBadRequest)
			return
		}
	}
	if len(supplied) > 0 && !models.CarriesHashes(dtype) {
		http.Error(w, "Hashes are only accepted for installers and updates", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	obj, err := filemgr.SaveDownload(file, header, filemgr.DownloadType(dtype), maxUploadSize)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := VerifyHashes(supplied, obj.Hashes); err != nil {
		if rerr := filemgr.RemoveObject(obj.Path); rerr != nil {
			log.Printf("cleanup after hash mismatch failed: %v", rerr)
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item := models.DownloadItem{
		DownloadID:  "d" + utils.GenerateID(14),
		Type:        dtype,
		Name:        name,
		FileName:    obj.FileName,
		Description: r.FormValue("description"),
		Version:     r.FormValue("version"),
		Size:        utils.FormatSize(obj.Size),
		Path:        obj.Path,
		URL:         filemgr.ObjectURL(obj.Path),
		UpdatedAt:   obj.ModTime,
	}
	if models.CarriesHashes(dtype) {
		item.Hashes = hashPairs(obj.Hashes)
	}

	if _, err := db.DownloadsCollection.InsertOne(context.TODO(), item); err != nil {
		// compensation: the blob must not outlive its metadata
		if rerr := filemgr.RemoveObject(obj.Path); rerr != nil {
			log.Printf("orphan blob cleanup failed for %s: %v", obj.Path, rerr)
		}
		http.Error(w, "Failed to save download metadata", http.StatusInternalServerError)
		return
	}

	invalidateListCache(dtype)
	mq.Emit("download-created", models.Index{EntityType: "download", ItemId: item.DownloadID, ItemType: dtype, EntityId: utils.GetUserIDFromRequest(r)})

	utils.SendResponse(w, http.StatusCreated, item, "Download created", nil)
}

// List handles GET /api/downloads?type=<type>, serving from the Redis list
// cache when possible.
func List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	dtype := r.URL.Query().Get("type")
	filter := bson.M{}
	if dtype != "" {
		if !models.ValidDownloadType(dtype) {
			http.Error(w, "Invalid download type", http.StatusBadRequest)
			return
		}
		filter["type"] = dtype

		if cached, _ := rdx.RdxGet(cacheKey(dtype)); cached != "" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(cached))
			return
		}
	}

	cursor, err := db.DownloadsCollection.Find(context.TODO(), filter)
	if err != nil {
		http.Error(w, "Failed to fetch downloads", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(context.TODO())

	var items []models.DownloadItem
	if err := cursor.All(context.TODO(), &items); err != nil {
		http.Error(w, "Error processing downloads", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []models.DownloadItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		http.Error(w, "Error encoding downloads", http.StatusInternalServerError)
		return
	}
	if dtype != "" {
		if err := rdx.SetWithExpiry(cacheKey(dtype), string(data), 2*time.Minute); err != nil {
			log.Printf("downloads cache write failed: %v", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// Delete handles DELETE /api/downloads/:downloadid. Installer and update
// items additionally get their filename scrubbed from every version document
// so the version view holds no dangling file entries.
func Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	downloadID := ps.ByName("downloadid")

	var item models.DownloadItem
	err := db.DownloadsCollection.FindOne(context.TODO(), bson.M{"downloadid": downloadID}).Decode(&item)
	if err != nil {
		http.Error(w, "Download not found", http.StatusNotFound)
		return
	}

	if _, err := db.DownloadsCollection.DeleteOne(context.TODO(), bson.M{"downloadid": downloadID}); err != nil {
		http.Error(w, "Failed to delete download", http.StatusInternalServerError)
		return
	}

	if err := filemgr.RemoveObject(item.Path); err != nil {
		log.Printf("blob removal failed for %s: %v", item.Path, err)
	}

	if models.CarriesHashes(item.Type) {
		if err := scrubVersions(context.TODO(), item.FileName); err != nil {
			log.Printf("version scrub for %s incomplete: %v", item.FileName, err)
		}
	}

	invalidateListCache(item.Type)
	mq.Emit("download-deleted", models.Index{EntityType: "download", ItemId: downloadID, ItemType: item.Type, EntityId: utils.GetUserIDFromRequest(r)})

	utils.SendResponse(w, http.StatusOK, nil, "Download deleted", nil)
}

// RemoveFileEntries returns files without any entry whose filename matches.
// The second return reports whether anything was removed.
func RemoveFileEntries(files []models.VersionFile, filename string) ([]models.VersionFile, bool) {
	kept := make([]models.VersionFile, 0, len(files))
	removed := false
	for _, f := range files {
		if f.FileName == filename {
			removed = true
			continue
		}
		kept = append(kept, f)
	}
	return kept, removed
}

// scrubVersions walks every version document and strips file entries whose
// filename matches. Versions that never referenced the file are not written.
func scrubVersions(ctx context.Context, filename string) error {
	cursor, err := db.VersionsCollection.Find(ctx, bson.M{"files.filename": filename})
	if err != nil {
		return fmt.Errorf("find versions referencing %s: %w", filename, err)
	}
	defer cursor.Close(ctx)

	var versions []models.Version
	if err := cursor.All(ctx, &versions); err != nil {
		return fmt.Errorf("decode versions: %w", err)
	}

	for _, v := range versions {
		kept, removed := RemoveFileEntries(v.Files, filename)
		if !removed {
			continue
		}
		_, err := db.VersionsCollection.UpdateOne(
			ctx,
			bson.M{"versionid": v.VersionID},
			bson.M{"$set": bson.M{"files": kept, "updated_at": time.Now().UTC()}},
		)
		if err != nil {
			return fmt.Errorf("scrub version %s: %w", v.VersionID, err)
		}
	}
	return nil
}

// QR handles GET /api/downloads/:downloadid/qr, returning a PNG QR code of
// the item's download URL for sharing.
func QR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	downloadID := ps.ByName("downloadid")

	var item models.DownloadItem
	err := db.DownloadsCollection.FindOne(context.TODO(), bson.M{"downloadid": downloadID}).Decode(&item)
	if err != nil {
		http.Error(w, "Download not found", http.StatusNotFound)
		return
	}

	png, err := qrcode.Encode(item.URL, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
