// Package auth performs the login handshake against the backend's
// role-specific endpoints and turns its cookie-based answer into an
// established session.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"gametrade/api"
	"gametrade/apierr"
	"gametrade/session"
	"gametrade/users"
)

const accessTokenCookie = "accessToken"

// loginEndpoints maps the roles that have a login endpoint to their path.
// Any other role fails before a network call is made.
var loginEndpoints = map[users.Role]string{
	users.RoleAdmin:   "administrateurs/login",
	users.RoleManager: "gestionnaires/login",
}

// credentials is the login request body; the backend's field names are
// French.
type credentials struct {
	Email    string `json:"email"`
	Password string `json:"motdepasse"`
}

// Gateway drives the login/logout flow. Dependencies are injected; the
// composition root wires the concrete client and store once at startup.
type Gateway struct {
	client *api.Client
	store  *session.Store
	log    zerolog.Logger
}

// GatewayOption modifies a Gateway at construction time.
type GatewayOption func(*Gateway)

// WithGatewayLogger sets the gateway logger.
func WithGatewayLogger(l zerolog.Logger) GatewayOption {
	return func(g *Gateway) { g.log = l }
}

func NewGateway(client *api.Client, store *session.Store, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		client: client,
		store:  store,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Login posts the credentials to the role's endpoint, pulls the
// accessToken cookie out of the response headers and establishes the
// session. The returned user is synthesized from the submitted email and
// role because this backend does not send a user body on login.
func (g *Gateway) Login(ctx context.Context, email, password string, role users.Role) (users.AuthenticatedUser, error) {
	var none users.AuthenticatedUser

	endpoint, ok := loginEndpoints[role]
	if !ok {
		return none, fmt.Errorf("%w: no login endpoint for role %q", ErrInvalidCredentials, role)
	}

	resp, err := g.client.Do(ctx, http.MethodPost, endpoint, credentials{Email: email, Password: password})
	if err != nil {
		return none, classifyTransport(err)
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return none, ErrInvalidCredentials
	case resp.StatusCode == http.StatusForbidden:
		return none, ErrAccessDenied
	case !resp.Success():
		return none, fmt.Errorf("%w: status %d: %s", ErrServer, resp.StatusCode, string(resp.Body))
	}

	token, err := CookieValue(resp.SetCookieValues(), accessTokenCookie)
	if err != nil {
		g.log.Error().Str("endpoint", endpoint).Msg("login succeeded but no access token cookie")
		return none, ErrNoToken
	}

	user := synthesizeUser(email, role)
	if err := g.store.Establish(token, user); err != nil {
		if errors.Is(err, session.ErrExpired) || errors.Is(err, session.ErrNoExpiry) {
			return none, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return none, fmt.Errorf("establish session: %w", err)
	}

	g.log.Info().Str("email", email).Str("role", string(role)).Msg("logged in")
	return user, nil
}

// Logout clears the session; the store also wipes the response cache so
// stale authenticated data is never served afterwards. Safe when already
// logged out.
func (g *Gateway) Logout() {
	g.store.Clear()
	g.log.Info().Msg("logged out")
}

// synthesizeUser builds an identity from the submitted credentials.
// Compatibility shim: the backend's login response has no structured user
// body, so the client trusts what it sent. Replace with the server-returned
// identity if the backend contract ever tightens.
func synthesizeUser(email string, role users.Role) users.AuthenticatedUser {
	return users.AuthenticatedUser{
		ID:    uuid.NewString(),
		Email: email,
		Role:  role,
	}
}

func classifyTransport(err error) error {
	switch apierr.KindOf(err) {
	case apierr.KindNetwork, apierr.KindInvalidResponse, apierr.KindInvalidURL:
		return fmt.Errorf("login request: %w", err)
	default:
		return fmt.Errorf("login: %w", err)
	}
}
