package api

import (
	"encoding/json"
	"net/http"

	"github.com/atlasrisk/engine/internal/atlaserr"
	"github.com/atlasrisk/engine/internal/authstub"
)

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresInSeconds"`
}

// handleIssueToken is the one auth endpoint the HTTP surface carries (spec
// §1: user registration/JWT auth are thin app-surface plumbing outside the
// risk-engine core). There is no user database — a single operator
// credential, configured as an email and a bcrypt hash, is checked and
// exchanged for an HMAC-signed bearer token.
func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorKind(w, s.Log, atlaserr.Wrap(atlaserr.InvalidInput, "MALFORMED_JSON", err))
		return
	}

	if s.AdminPasswordHash == "" || req.Email != s.AdminEmail || !authstub.CheckPassword(req.Password, s.AdminPasswordHash) {
		respondErrorKind(w, s.Log, atlaserr.Invalid("INVALID_CREDENTIALS", "email or password is incorrect"))
		return
	}

	token, err := authstub.GenerateToken(1, req.Email)
	if err != nil {
		respondErrorKind(w, s.Log, atlaserr.Wrap(atlaserr.Internal, "TOKEN_ISSUE_FAILED", err))
		return
	}

	respondSuccess(w, tokenResponse{Token: token, ExpiresIn: 24 * 3600})
}
