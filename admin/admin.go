package admin

import (
	"net/http"

	"vantage/rolecache"
	"vantage/utils"

	"github.com/julienschmidt/httprouter"
)

// GetUserRole returns the authoritative role for a uid, read through the TTL
// cache in front of the users collection.
//
// Endpoint: GET /api/admin/role/:uid
//
// The token's role claim may be stale; callers gating admin-only UI must use
// this endpoint, not the claim.
func GetUserRole(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	uid := ps.ByName("uid")
	if uid == "" {
		http.Error(w, "Missing uid", http.StatusBadRequest)
		return
	}

	role, err := rolecache.Resolve(r.Context(), uid)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"uid": uid, "role": role})
}
