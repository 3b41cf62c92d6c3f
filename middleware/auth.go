package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	supa "github.com/supabase-community/supabase-go"
)

// IdentityLocal is the ctx locals key under which RequireAuth stores the
// resolved identity.
const IdentityLocal = "identity"

// Identity is the signed-in account attached to a request.
type Identity struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
}

// IdentityResolver turns a bearer token into an Identity. Handlers and tests
// depend on this interface; the concrete implementation talks to the auth
// provider.
type IdentityResolver interface {
	Resolve(token string) (*Identity, error)
}

// SupabaseResolver resolves identities against Supabase auth.
type SupabaseResolver struct {
	client *supa.Client
}

// NewSupabaseResolver wraps the given Supabase client.
func NewSupabaseResolver(client *supa.Client) *SupabaseResolver {
	return &SupabaseResolver{client: client}
}

// Resolve verifies token with the auth service and returns the account it
// belongs to.
func (r *SupabaseResolver) Resolve(token string) (*Identity, error) {
	user, err := r.client.Auth.WithToken(token).GetUser()
	if err != nil {
		return nil, fmt.Errorf("verifying session token: %w", err)
	}

	ident := &Identity{
		UserID: user.ID,
		Email:  user.Email,
	}
	if name, ok := user.UserMetadata["full_name"].(string); ok && name != "" {
		ident.DisplayName = name
	} else {
		ident.DisplayName = user.Email
	}

	return ident, nil
}

// RequireAuth is the session gate for protected routes. A missing or invalid
// session is not reported as a hard failure: the 401 payload carries the
// redirect target so the view layer can navigate to the entry page. The token
// comes from the Authorization header, or from the "token" query parameter for
// websocket handshakes.
func RequireAuth(resolver IdentityResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return respondAuthRequired(c, "Sign in to access your saved ideas.")
		}

		ident, err := resolver.Resolve(token)
		if err != nil {
			return respondAuthRequired(c, "Your session has expired. Sign in again.")
		}

		c.Locals(IdentityLocal, ident)
		return c.Next()
	}
}

// IdentityFromCtx returns the identity stored by RequireAuth, or nil.
func IdentityFromCtx(c *fiber.Ctx) *Identity {
	ident, _ := c.Locals(IdentityLocal).(*Identity)
	return ident
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return c.Query("token")
}

func respondAuthRequired(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"status":   "error",
		"message":  message,
		"redirect": "/auth",
	})
}
