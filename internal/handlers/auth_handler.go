package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"typetracker/internal/security"
)

const (
	stateCookieName = "oauth_state"
	stateCookieTTL  = 10 * time.Minute

	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// AuthHandler handles Google sign-in and token issuance
type AuthHandler struct {
	oauthConfig     *oauth2.Config
	issuer          *security.TokenIssuer
	frontendURL     string
	redirectBaseURL string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(clientID, clientSecret string, issuer *security.TokenIssuer, frontendURL, redirectBaseURL string) *AuthHandler {
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		issuer:          issuer,
		frontendURL:     frontendURL,
		redirectBaseURL: redirectBaseURL,
	}
}

// StartOAuth initiates the Google sign-in flow
func (h *AuthHandler) StartOAuth(w http.ResponseWriter, r *http.Request) {
	if h.oauthConfig.ClientID == "" || h.oauthConfig.ClientSecret == "" {
		respondWithError(w, http.StatusBadRequest, "Sign-in not configured", "", nil)
		return
	}

	state := security.GenerateStateToken()
	http.SetCookie(w, security.CreateStateCookie(r, stateCookieName, state, time.Now().Add(stateCookieTTL)))

	config := *h.oauthConfig
	config.RedirectURL = h.callbackURL(r)

	authURL := config.AuthCodeURL(state, oauth2.AccessTypeOnline)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// OAuthCallback completes the Google sign-in flow and hands the browser
// back to the frontend with a signed token
func (h *AuthHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, "Missing authorization code", "", nil)
		return
	}

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != state {
		respondWithError(w, http.StatusBadRequest, "Invalid OAuth state", "", err)
		return
	}
	http.SetCookie(w, security.CreateDeleteCookie(r, stateCookieName))

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	config := *h.oauthConfig
	config.RedirectURL = h.callbackURL(r)

	oauthToken, err := config.Exchange(ctx, code)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to exchange OAuth code", "", err)
		return
	}

	subject, err := fetchGoogleSubject(ctx, oauthToken)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to fetch user info", "", err)
		return
	}

	token, err := h.issuer.Issue(subject)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to issue token", "", err)
		return
	}

	redirect := fmt.Sprintf("%s/auth/complete?%s",
		strings.TrimRight(h.frontendURL, "/"),
		url.Values{"token": []string{token}}.Encode())
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

// fetchGoogleSubject resolves a stable user identifier from Google
func fetchGoogleSubject(ctx context.Context, token *oauth2.Token) (string, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch Google user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch Google user info: status %d", resp.StatusCode)
	}

	var payload struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to parse Google user info: %w", err)
	}
	if payload.ID == "" {
		return "", fmt.Errorf("Google user info has no id")
	}

	return "google:" + payload.ID, nil
}

func (h *AuthHandler) callbackURL(r *http.Request) string {
	baseURL := strings.TrimSpace(h.redirectBaseURL)
	if baseURL == "" {
		scheme := "http"
		if security.IsSecureRequest(r) {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s", scheme, r.Host)
	}
	return strings.TrimRight(baseURL, "/") + "/auth/google/callback"
}

// Me reports the signed-in user, used by the frontend to validate a
// stored token
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	if userID == "" {
		respondWithError(w, http.StatusUnauthorized, "Not signed in", "", nil)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"user_id": userID})
}
