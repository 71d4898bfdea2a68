package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/mikehinnen/spotify-cycling-sorter/internal/services"
	"golang.org/x/oauth2"
)

// LoginCompleter finishes a login attempt by exchanging the authorization code.
// Satisfied by [services.SpotifyService].
type LoginCompleter interface {
	CompleteLogin(ctx context.Context, attempt *services.LoginAttempt, code string) (*oauth2.Token, error)
}

// CallbackResult contains the outcome of an authorization flow.
type CallbackResult struct {
	Token *oauth2.Token
	err   error
}

func (c *CallbackResult) Error() error {
	return c.err
}

// CallbackHandler handles the redirect leg of the authorization code + PKCE
// flow. Implements the Handler interface for registration with a Router.
//
// The handler is bound to a single login attempt: the state it validates and
// the verifier used for the exchange both come from the attempt, so a second
// callback (or a replayed one) cannot complete a login.
type CallbackHandler struct {
	service LoginCompleter
	attempt *services.LoginAttempt

	resultChan  chan CallbackResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewCallbackHandler creates a callback handler for one login attempt.
func NewCallbackHandler(service LoginCompleter, attempt *services.LoginAttempt) *CallbackHandler {
	return &CallbackHandler{
		service:    service,
		attempt:    attempt,
		resultChan: make(chan CallbackResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP handles the authorization redirect.
//
// Validates the state parameter, completes the login with the attempt's
// verifier, and sends the result through the result channel.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Only handle callback once
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	params := callbackParams(r)

	if params.Get("state") != h.attempt.State {
		err := fmt.Errorf("invalid state parameter")
		h.Send(CallbackResult{err: err})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := params.Get("code")
	if code == "" {
		err := fmt.Errorf("authorization failed: %s - %s",
			params.Get("error"), params.Get("error_description"))
		h.Send(CallbackResult{err: err})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token, err := h.service.CompleteLogin(r.Context(), h.attempt, code)
	if err != nil {
		h.Send(CallbackResult{err: fmt.Errorf("token exchange failed: %w", err)})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	h.Send(CallbackResult{Token: token})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, callbackSuccessPage)
}

// callbackParams returns the redirect parameters, preferring the query string
// and falling back to the URL fragment.
//
// Some authorization servers place the response parameters after "#". A
// fragment normally never reaches the server, but when it does (relayed by a
// client-side shim, or a hand-pasted URL) it is parsed the same way as a
// query string.
func callbackParams(r *http.Request) url.Values {
	query := r.URL.Query()
	if query.Get("code") != "" || query.Get("error") != "" {
		return query
	}

	if r.URL.Fragment != "" {
		if fragment, err := url.ParseQuery(r.URL.Fragment); err == nil {
			return fragment
		}
	}

	return query
}

// Send sends the callback result through the channel (only once).
func (h *CallbackHandler) Send(result CallbackResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving flow completion.
//
// Channel will receive exactly one result and then be closed.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.resultChan
}

const callbackSuccessPage = `
<!DOCTYPE html>
<html>
<head>
    <title>Authorization Successful</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>&#10003; Authorization Successful</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`
