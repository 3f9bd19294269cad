package releases

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"vantage/db"
	"vantage/filemgr"
	"vantage/mailer"
	"vantage/models"
	"vantage/mq"
	"vantage/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// List handles GET /api/release-posts, newest first.
func List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := db.ReleasePostCollection.Find(context.TODO(), bson.M{}, opts)
	if err != nil {
		http.Error(w, "Failed to fetch release posts", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(context.TODO())

	var posts []models.ReleasePost
	if err := cursor.All(context.TODO(), &posts); err != nil {
		http.Error(w, "Error processing release posts", http.StatusInternalServerError)
		return
	}
	if posts == nil {
		posts = []models.ReleasePost{}
	}
	utils.RespondWithJSON(w, http.StatusOK, posts)
}

// AddPost handles POST /api/release-posts/addPost (multipart). The post body
// comes in the "post" field as JSON; an optional cover image rides along as
// the "cover" file. Publishing fans out a notification email to every
// active user, best effort.
func AddPost(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Unable to parse form", http.StatusBadRequest)
		return
	}

	if r.FormValue("post") == "" {
		http.Error(w, "Missing post data", http.StatusBadRequest)
		return
	}

	var post models.ReleasePost
	if err := json.Unmarshal([]byte(r.FormValue("post")), &post); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if post.Title == "" || post.Body == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}
	if tags := r.FormValue("tags"); tags != "" {
		post.Tags = utils.SplitTags(tags)
	}

	post.PostID = "p" + utils.GenerateID(14)
	post.CreatedAt = time.Now().UTC()

	if cover, header, err := r.FormFile("cover"); err == nil {
		cover.Close()
		coverURL, _, err := filemgr.SaveCoverImage(header)
		if err != nil {
			http.Error(w, "Failed to save cover image", http.StatusBadRequest)
			return
		}
		post.CoverURL = coverURL
	} else if err != http.ErrMissingFile {
		http.Error(w, "Error retrieving cover file", http.StatusBadRequest)
		return
	}

	if _, err := db.ReleasePostCollection.InsertOne(context.TODO(), post); err != nil {
		http.Error(w, "Failed to save release post", http.StatusInternalServerError)
		return
	}

	go notifyAllUsers(post)

	mq.Emit("releasepost-created", models.Index{EntityType: "releasepost", ItemId: post.PostID, EntityId: utils.GetUserIDFromRequest(r)})
	utils.SendResponse(w, http.StatusCreated, post, "Release post published", nil)
}

// notifyAllUsers mails every non-deleted user about the new post with a
// bounded number of concurrent SMTP sessions. Individual failures are
// logged and do not stop the fan-out.
func notifyAllUsers(post models.ReleasePost) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cursor, err := db.UserCollection.Find(ctx, bson.M{"deleted": false})
	if err != nil {
		log.Printf("release fan-out: user list failed: %v", err)
		return
	}
	defer cursor.Close(ctx)

	var recipients []models.User
	if err := cursor.All(ctx, &recipients); err != nil {
		log.Printf("release fan-out: decode failed: %v", err)
		return
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, u := range recipients {
		u := u
		g.Go(func() error {
			if err := mailer.Send(u.Email, "New release: "+post.Title, post.Version+"\n\n"+post.Body); err != nil {
				log.Printf("release fan-out to %s failed: %v", u.Email, err)
			}
			return nil
		})
	}
	g.Wait()
	log.Printf("release fan-out for %s done, %d recipients", post.PostID, len(recipients))
}

// DeletePost handles DELETE /api/release-posts/:postid (hard delete).
func DeletePost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	postID := ps.ByName("postid")

	res, err := db.ReleasePostCollection.DeleteOne(context.TODO(), bson.M{"postid": postID})
	if err != nil {
		http.Error(w, "Failed to delete release post", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "Release post not found", http.StatusNotFound)
		return
	}

	mq.Emit("releasepost-deleted", models.Index{EntityType: "releasepost", ItemId: postID, EntityId: utils.GetUserIDFromRequest(r)})
	utils.SendResponse(w, http.StatusOK, nil, "Release post deleted", nil)
}
