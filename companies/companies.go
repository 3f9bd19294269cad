package companies

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"vantage/db"
	"vantage/mailer"
	"vantage/models"
	"vantage/mq"
	"vantage/users"
	"vantage/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ListCompanies handles GET /api/company/companies.
func ListCompanies(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cursor, err := db.CompanyCollection.Find(context.TODO(), bson.M{"deleted": false})
	if err != nil {
		http.Error(w, "Failed to fetch companies", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(context.TODO())

	var companies []models.Company
	if err := cursor.All(context.TODO(), &companies); err != nil {
		http.Error(w, "Error processing companies", http.StatusInternalServerError)
		return
	}
	if companies == nil {
		companies = []models.Company{}
	}
	utils.RespondWithJSON(w, http.StatusOK, companies)
}

// NewCompany builds a company document owned by the given user and stamps the
// company id back onto the owner record. The caller persists both documents.
func NewCompany(name, email string, owner *models.User) models.Company {
	company := models.Company{
		CompanyID: "c" + utils.GenerateID(10),
		Name:      name,
		Email:     email,
		Members:   []models.PublicUser{},
		Deleted:   false,
		CreatedAt: time.Now().UTC(),
	}
	owner.CompanyID = company.CompanyID
	company.Owner = owner.Public()
	return company
}

// CreateCompany handles POST /api/company/create-company: one new owner user
// (role user, status pending), one company document whose owner.uid is the
// new user's id, one welcome email. A failed company insert deletes the
// just-created user document so no orphan identity survives.
func CreateCompany(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email        string `json:"email"`
		FirstName    string `json:"firstName"`
		LastName     string `json:"lastName"`
		CompanyName  string `json:"companyName"`
		CompanyEmail string `json:"companyEmail"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if input.Email == "" || input.FirstName == "" || input.CompanyName == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	err := db.UserCollection.FindOne(context.TODO(), bson.M{"email": input.Email, "deleted": false}).Err()
	if err == nil {
		http.Error(w, "User already exists", http.StatusConflict)
		return
	} else if err != mongo.ErrNoDocuments {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	tempPassword := utils.GenerateRandomString(12)
	owner, err := users.NewUser(input.Email, input.FirstName, input.LastName, tempPassword)
	if err != nil {
		http.Error(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	company := NewCompany(input.CompanyName, input.CompanyEmail, &owner)

	if _, err := db.UserCollection.InsertOne(context.TODO(), owner); err != nil {
		http.Error(w, "Failed to create owner", http.StatusInternalServerError)
		return
	}

	if _, err := db.CompanyCollection.InsertOne(context.TODO(), company); err != nil {
		// compensation: drop the owner doc so the saga leaves nothing behind
		if _, derr := db.UserCollection.DeleteOne(context.TODO(), bson.M{"userid": owner.UserID}); derr != nil {
			log.Printf("compensation failed, orphan user %s: %v", owner.UserID, derr)
		}
		http.Error(w, "Failed to create company", http.StatusInternalServerError)
		return
	}

	if err := mailer.SendWelcome(owner.Email, owner.Name, tempPassword); err != nil {
		log.Printf("welcome email to %s failed: %v", owner.Email, err)
	}

	mq.Emit("company-created", models.Index{EntityType: "company", ItemId: company.CompanyID, EntityId: utils.GetUserIDFromRequest(r)})

	utils.SendResponse(w, http.StatusCreated, company, "Company created", nil)
}

// EditCompany handles PUT /api/company/:companyid.
func EditCompany(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	companyID := ps.ByName("companyid")

	var input struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	set := bson.M{}
	if input.Name != "" {
		set["name"] = input.Name
	}
	if input.Email != "" {
		set["email"] = input.Email
	}
	if len(set) == 0 {
		http.Error(w, "Nothing to update", http.StatusBadRequest)
		return
	}

	res, err := db.CompanyCollection.UpdateOne(
		context.TODO(),
		bson.M{"companyid": companyID, "deleted": false},
		bson.M{"$set": set},
	)
	if err != nil {
		http.Error(w, "Failed to update company", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Company not found", http.StatusNotFound)
		return
	}

	mq.Emit("company-updated", models.Index{EntityType: "company", ItemId: companyID, EntityId: utils.GetUserIDFromRequest(r)})
	utils.SendResponse(w, http.StatusOK, nil, "Company updated", nil)
}

// DeleteCompany handles DELETE /api/company/:companyid with a soft delete.
func DeleteCompany(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	companyID := ps.ByName("companyid")

	res, err := db.CompanyCollection.UpdateOne(
		context.TODO(),
		bson.M{"companyid": companyID, "deleted": false},
		bson.M{"$set": bson.M{"deleted": true}},
	)
	if err != nil {
		http.Error(w, "Failed to delete company", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Company not found", http.StatusNotFound)
		return
	}

	mq.Emit("company-deleted", models.Index{EntityType: "company", ItemId: companyID, EntityId: utils.GetUserIDFromRequest(r)})
	utils.SendResponse(w, http.StatusOK, nil, "Company deleted", nil)
}

// AddMember handles POST /api/company/members/:companyid. The member must be
// an existing, non-deleted user; an embedded copy is stored on the company.
func AddMember(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	companyID := ps.ByName("companyid")

	var input struct {
		UID string `json:"uid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.UID == "" {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	var member models.User
	err := db.UserCollection.FindOne(context.TODO(), bson.M{"userid": input.UID, "deleted": false}).Decode(&member)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	res, err := db.CompanyCollection.UpdateOne(
		context.TODO(),
		bson.M{"companyid": companyID, "deleted": false, "members.userid": bson.M{"$ne": input.UID}},
		bson.M{"$push": bson.M{"members": member.Public()}},
	)
	if err != nil {
		http.Error(w, "Failed to add member", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Company not found or member already present", http.StatusConflict)
		return
	}

	_, err = db.UserCollection.UpdateOne(
		context.TODO(),
		bson.M{"userid": input.UID},
		bson.M{"$set": bson.M{"companyid": companyID}},
	)
	if err != nil {
		log.Printf("member %s company back-reference update failed: %v", input.UID, err)
	}

	mq.Emit("member-added", models.Index{EntityType: "company", ItemId: companyID, EntityId: utils.GetUserIDFromRequest(r)})
	utils.SendResponse(w, http.StatusOK, nil, "Member added", nil)
}

// RemoveMember handles DELETE /api/company/:companyid/members/:uid.
func RemoveMember(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	companyID := ps.ByName("companyid")
	uid := ps.ByName("uid")

	res, err := db.CompanyCollection.UpdateOne(
		context.TODO(),
		bson.M{"companyid": companyID, "deleted": false},
		bson.M{"$pull": bson.M{"members": bson.M{"userid": uid}}},
	)
	if err != nil {
		http.Error(w, "Failed to remove member", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Company not found", http.StatusNotFound)
		return
	}

	_, err = db.UserCollection.UpdateOne(
		context.TODO(),
		bson.M{"userid": uid, "companyid": companyID},
		bson.M{"$unset": bson.M{"companyid": ""}},
	)
	if err != nil {
		log.Printf("member %s company back-reference clear failed: %v", uid, err)
	}

	mq.Emit("member-removed", models.Index{EntityType: "company", ItemId: companyID, EntityId: utils.GetUserIDFromRequest(r)})
	utils.SendResponse(w, http.StatusOK, nil, "Member removed", nil)
}
