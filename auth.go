package tracker

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MonzoAuthURL is the production OAuth authorization endpoint.
const MonzoAuthURL = "https://auth.monzo.com"

// tokenExpiryBuffer is how long before the real expiry a token is already
// treated as expired, to avoid using a token that dies mid-session.
const tokenExpiryBuffer = 5 * time.Minute

// DefaultTokenPath returns the default token file, in the user's home.
func DefaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".monzo_tokens.json"
	}
	return filepath.Join(home, ".monzo_tokens.json")
}

// tokenData is the persisted shape of the saved tokens.
type tokenData struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token,omitempty"`
	TokenType    string  `json:"token_type"`
	ExpiresAt    float64 `json:"expires_at"`
	UserID       string  `json:"user_id,omitempty"`
}

// tokenResponse is the OAuth token endpoint payload.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	UserID       string `json:"user_id"`
}

// TokenManager owns the OAuth token lifecycle: persistence, expiry checks,
// refresh, and the full browser code flow when nothing else works.
type TokenManager struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	// AuthURL and APIURL default to the Monzo production endpoints.
	AuthURL string
	APIURL  string

	// Out receives progress messages, In feeds the "press enter once
	// approved" prompt. They default to stderr/stdin.
	Out io.Writer
	In  io.Reader

	path   string
	tokens *tokenData
	http   *http.Client
}

// NewTokenManager creates a token manager storing tokens at path, loading
// any previously saved tokens.
func NewTokenManager(clientID, clientSecret, redirectURI, path string) *TokenManager {
	tm := &TokenManager{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURI:  redirectURI,
		AuthURL:      MonzoAuthURL,
		APIURL:       MonzoAPIURL,
		Out:          os.Stderr,
		In:           os.Stdin,
		path:         path,
		http:         new(http.Client),
	}
	tm.load()
	return tm
}

func (tm *TokenManager) load() {
	content, err := os.ReadFile(tm.path)
	if err != nil {
		return
	}
	var data tokenData
	if err := json.Unmarshal(content, &data); err != nil {
		return // a corrupt token file just means re-authenticating
	}
	tm.tokens = &data
}

// save persists a token response with its computed absolute expiry. The file
// is owner-only: it holds live credentials.
func (tm *TokenManager) save(resp tokenResponse) error {
	expiresIn := resp.ExpiresIn
	if expiresIn == 0 {
		expiresIn = 21600
	}
	tokenType := resp.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	tm.tokens = &tokenData{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		TokenType:    tokenType,
		ExpiresAt:    float64(time.Now().Unix() + expiresIn),
		UserID:       resp.UserID,
	}
	content, err := json.MarshalIndent(tm.tokens, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tm.path, content, 0600); err != nil {
		return fmt.Errorf("could not save tokens to %q: %w", tm.path, err)
	}
	return nil
}

// valid reports whether the current access token can still be used, with a
// safety buffer before the real expiry.
func (tm *TokenManager) valid() bool {
	if tm.tokens == nil || tm.tokens.AccessToken == "" {
		return false
	}
	return float64(time.Now().Unix()) < tm.tokens.ExpiresAt-tokenExpiryBuffer.Seconds()
}

// Invalidate forces the current token to be treated as expired. Called when
// the API answers 401 despite a seemingly valid token.
func (tm *TokenManager) Invalidate() {
	if tm.tokens != nil {
		tm.tokens.ExpiresAt = 0
	}
}

// Clear removes the saved tokens entirely, forcing a fresh authentication.
func (tm *TokenManager) Clear() error {
	tm.tokens = nil
	err := os.Remove(tm.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// AccessToken returns a valid access token, refreshing or re-authenticating
// as needed.
func (tm *TokenManager) AccessToken(ctx context.Context) (string, error) {
	if tm.valid() {
		return tm.tokens.AccessToken, nil
	}

	if tm.tokens != nil && tm.tokens.RefreshToken != "" {
		if err := tm.refresh(ctx); err == nil {
			return tm.tokens.AccessToken, nil
		} else {
			fmt.Fprintf(tm.Out, "Token refresh failed: %v\n", err)
		}
	}

	fmt.Fprintln(tm.Out, "Authentication required. Starting OAuth flow...")
	if err := tm.authenticate(ctx); err != nil {
		return "", err
	}
	return tm.tokens.AccessToken, nil
}

// postToken posts a form to the OAuth token endpoint and decodes the response.
func (tm *TokenManager) postToken(ctx context.Context, form url.Values) (tokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tm.APIURL+"/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return tokenResponse{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := tm.http.Do(req)
	if err != nil {
		return tokenResponse{}, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return tokenResponse{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return tokenResponse{}, fmt.Errorf("token request failed: %s - %s", resp.Status, strings.TrimSpace(string(body)))
	}
	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return tokenResponse{}, fmt.Errorf("could not decode token response: %w", err)
	}
	return tr, nil
}

// refresh exchanges the refresh token for a new access token.
func (tm *TokenManager) refresh(ctx context.Context) error {
	fmt.Fprintln(tm.Out, "Refreshing access token...")
	tr, err := tm.postToken(ctx, url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {tm.ClientID},
		"client_secret": {tm.ClientSecret},
		"refresh_token": {tm.tokens.RefreshToken},
	})
	if err != nil {
		return err
	}
	if err := tm.save(tr); err != nil {
		return err
	}
	fmt.Fprintln(tm.Out, "Token refreshed successfully")
	return nil
}

// authenticate runs the full OAuth code flow: it opens the authorization
// URL, waits for the redirect on a local callback server, and exchanges the
// authorization code for tokens. Monzo additionally requires approving the
// login in the app before the token becomes usable, hence the final prompt.
func (tm *TokenManager) authenticate(ctx context.Context) error {
	code, err := tm.waitForCode(ctx)
	if err != nil {
		return err
	}

	tr, err := tm.postToken(ctx, url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {tm.ClientID},
		"client_secret": {tm.ClientSecret},
		"redirect_uri":  {tm.RedirectURI},
		"code":          {code},
	})
	if err != nil {
		return fmt.Errorf("token exchange failed: %w", err)
	}
	if err := tm.save(tr); err != nil {
		return err
	}

	fmt.Fprintln(tm.Out, "Authentication successful!")
	fmt.Fprintln(tm.Out, "IMPORTANT: Open your Monzo app and approve this login.")
	fmt.Fprint(tm.Out, "Press Enter once you've approved in the Monzo app...")
	bufio.NewReader(tm.In).ReadString('\n')
	return nil
}

// waitForCode starts a one-shot HTTP server on the redirect URI and waits
// for the authorization callback.
func (tm *TokenManager) waitForCode(ctx context.Context) (string, error) {
	redirect, err := url.Parse(tm.RedirectURI)
	if err != nil {
		return "", fmt.Errorf("invalid redirect uri %q: %w", tm.RedirectURI, err)
	}

	authURL := fmt.Sprintf("%s/?client_id=%s&redirect_uri=%s&response_type=code&state=%s",
		tm.AuthURL, url.QueryEscape(tm.ClientID), url.QueryEscape(tm.RedirectURI), newState())
	fmt.Fprintln(tm.Out, "Open this URL in your browser to authenticate:")
	fmt.Fprintln(tm.Out, "  "+authURL)

	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return "", fmt.Errorf("could not listen on %q for the OAuth callback: %w", redirect.Host, err)
	}
	defer listener.Close()

	codes := make(chan string, 1)
	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		w.Header().Set("Content-Type", "text/html")
		if code == "" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, "<html><body><h1>Authentication failed!</h1></body></html>")
			return
		}
		fmt.Fprint(w, "<html><body><h1>Authentication successful!</h1><p>You can close this window.</p></body></html>")
		select {
		case codes <- code:
		default:
		}
	})}
	go server.Serve(listener)
	defer server.Close()

	fmt.Fprintln(tm.Out, "Waiting for authentication callback...")
	select {
	case code := <-codes:
		return code, nil
	case <-ctx.Done():
		return "", fmt.Errorf("authentication canceled: %w", ctx.Err())
	}
}

// newState returns a random state parameter for the authorization request.
func newState() string {
	return fmt.Sprintf("mzt-%d", time.Now().UnixNano())
}
