package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"caseclash/internal/security"
	"caseclash/internal/service"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const oauthStateCookie = "oauth_state"

// OAuthHandler implements the Google sign-in flow
type OAuthHandler struct {
	auth   *service.AuthService
	google *oauth2.Config
}

// NewOAuthHandler creates a new OAuth handler. The flow is disabled when no
// client ID is configured.
func NewOAuthHandler(auth *service.AuthService, clientID, clientSecret, appBaseURL string) *OAuthHandler {
	return &OAuthHandler{
		auth: auth,
		google: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  appBaseURL + "/api/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// Start handles GET /api/auth/google, redirecting to Google's consent page
func (h *OAuthHandler) Start(w http.ResponseWriter, r *http.Request) {
	if h.google.ClientID == "" {
		writeError(w, http.StatusNotImplemented, "google sign-in is not configured")
		return
	}

	state, err := security.GenerateSecureToken(16)
	if err != nil {
		log.Printf("Failed to generate OAuth state: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to start sign-in")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.google.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// Callback handles GET /api/auth/google/callback
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		writeError(w, http.StatusBadRequest, "invalid OAuth state")
		return
	}

	// The state cookie is single use.
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	token, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		log.Printf("OAuth code exchange failed: %v", err)
		writeError(w, http.StatusBadGateway, "sign-in failed")
		return
	}

	info, err := h.fetchUserInfo(r, token)
	if err != nil {
		log.Printf("Failed to fetch Google user info: %v", err)
		writeError(w, http.StatusBadGateway, "sign-in failed")
		return
	}
	if info.ID == "" {
		writeError(w, http.StatusBadGateway, "sign-in failed")
		return
	}

	player, accessToken, err := h.auth.OAuthLogin("google", info.ID, info.Email, info.Name)
	if err != nil {
		log.Printf("OAuth login failed: %v", err)
		writeError(w, http.StatusInternalServerError, "sign-in failed")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Player: toPlayerResponse(player), Token: accessToken})
}

type googleUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *OAuthHandler) fetchUserInfo(r *http.Request, token *oauth2.Token) (*googleUserInfo, error) {
	client := h.google.Client(r.Context(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	info := &googleUserInfo{}
	if err := json.NewDecoder(resp.Body).Decode(info); err != nil {
		return nil, err
	}
	return info, nil
}
