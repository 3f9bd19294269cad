package users

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"vantage/db"
	"vantage/mailer"
	"vantage/models"
	"vantage/mq"
	"vantage/rolecache"
	"vantage/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// NewUser builds a pending user record with a bcrypt-hashed temporary
// password. The caller is responsible for persisting it.
func NewUser(email, firstName, lastName, tempPassword string) (models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	name := strings.TrimSpace(firstName + " " + lastName)
	return models.User{
		UserID:     "u" + utils.GenerateID(10),
		Username:   email,
		Email:      email,
		Password:   string(hashed),
		Name:       name,
		FirstName:  firstName,
		LastName:   lastName,
		Role:       models.RoleUser,
		Status:     models.StatusPending,
		FirstLogin: true,
		Deleted:    false,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// CreateUser handles POST /api/create-user.
func CreateUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email     string `json:"email"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if input.Email == "" || input.FirstName == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	// Check if user already exists
	err := db.UserCollection.FindOne(context.TODO(), bson.M{"email": input.Email, "deleted": false}).Err()
	if err == nil {
		http.Error(w, "User already exists", http.StatusConflict)
		return
	} else if err != mongo.ErrNoDocuments {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	tempPassword := utils.GenerateRandomString(12)
	user, err := NewUser(input.Email, input.FirstName, input.LastName, tempPassword)
	if err != nil {
		http.Error(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	if _, err := db.UserCollection.InsertOne(context.TODO(), user); err != nil {
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	// best effort; account creation already succeeded
	if err := mailer.SendWelcome(user.Email, user.Name, tempPassword); err != nil {
		log.Printf("welcome email to %s failed: %v", user.Email, err)
	}

	mq.Emit("user-created", models.Index{EntityType: "user", ItemId: user.UserID, EntityId: utils.GetUserIDFromRequest(r)})

	utils.SendResponse(w, http.StatusCreated, user.Public(), "User created", nil)
}

// RemoveFirstTimeFlag handles POST /api/remove-first-time-flag. The uid comes
// from the verified token, never from the body.
func RemoveFirstTimeFlag(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	uid := utils.GetUserIDFromRequest(r)
	if uid == "" {
		http.Error(w, "Invalid user", http.StatusUnauthorized)
		return
	}

	_, err := db.UserCollection.UpdateOne(
		context.TODO(),
		bson.M{"userid": uid},
		bson.M{"$set": bson.M{"first_login": false, "status": models.StatusActive}},
	)
	if err != nil {
		http.Error(w, "Failed to update user", http.StatusInternalServerError)
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "First-time flag cleared", nil)
}

// SetUserRole handles POST /api/set-user-role. Admin-gated in the router;
// the mutated uid is taken from the body, the caller identity from the token.
func SetUserRole(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		UID  string `json:"uid"`
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if input.UID == "" {
		http.Error(w, "Missing uid", http.StatusBadRequest)
		return
	}
	if input.Role != models.RoleAdmin && input.Role != models.RoleUser {
		http.Error(w, "Invalid role", http.StatusBadRequest)
		return
	}

	res, err := db.UserCollection.UpdateOne(
		context.TODO(),
		bson.M{"userid": input.UID, "deleted": false},
		bson.M{"$set": bson.M{"role": input.Role}},
	)
	if err != nil {
		http.Error(w, "Failed to update role", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	// the document changed; cached answers for this uid are now lies
	rolecache.Invalidate(input.UID)

	mq.Emit("role-changed", models.Index{EntityType: "user", ItemId: input.UID, EntityId: utils.GetUserIDFromRequest(r)})

	utils.SendResponse(w, http.StatusOK, map[string]string{"uid": input.UID, "role": input.Role}, "Role updated", nil)
}

// ListRegularUsers handles GET /api/users/users-with-role-user.
func ListRegularUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cursor, err := db.UserCollection.Find(context.TODO(), bson.M{"role": models.RoleUser, "deleted": false})
	if err != nil {
		http.Error(w, "Failed to fetch users", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(context.TODO())

	var users []models.User
	if err := cursor.All(context.TODO(), &users); err != nil {
		http.Error(w, "Error processing users", http.StatusInternalServerError)
		return
	}

	out := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// DeleteUser handles DELETE /api/users/:uid with a soft delete.
func DeleteUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid := ps.ByName("uid")

	res, err := db.UserCollection.UpdateOne(
		context.TODO(),
		bson.M{"userid": uid, "deleted": false},
		bson.M{"$set": bson.M{"deleted": true}},
	)
	if err != nil {
		http.Error(w, "Failed to delete user", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	rolecache.Invalidate(uid)
	mq.Emit("user-deleted", models.Index{EntityType: "user", ItemId: uid, EntityId: utils.GetUserIDFromRequest(r)})

	utils.SendResponse(w, http.StatusOK, nil, "User deleted", nil)
}
