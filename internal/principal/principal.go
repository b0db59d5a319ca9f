package principal

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Kind discriminates the authenticated identity behind a request.
type Kind string

const (
	KindUser      Kind = "user"
	KindAdmin     Kind = "admin"
	KindAnonymous Kind = "anonymous"
)

const localsKey = "principal"

// Principal is the resolved identity a guard stores on the request. Handlers
// read it through FromCtx instead of digging through raw JWT claims.
type Principal struct {
	Kind  Kind
	ID    uuid.UUID
	Email string
	Temp  bool
	// Token is the raw bearer token the principal presented. Needed by
	// logout, which revokes the session matching its hash.
	Token string
}

var ErrNoPrincipal = errors.New("no principal in request context")

// Store attaches the principal to the request.
func Store(c *fiber.Ctx, p Principal) {
	c.Locals(localsKey, p)
}

// FromCtx returns the principal a guard resolved for this request.
func FromCtx(c *fiber.Ctx) (Principal, error) {
	p, ok := c.Locals(localsKey).(Principal)
	if !ok {
		return Principal{}, ErrNoPrincipal
	}
	return p, nil
}

// UserID returns the reporter id, failing for non-user principals.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	p, err := FromCtx(c)
	if err != nil {
		return uuid.Nil, err
	}
	if p.Kind != KindUser {
		return uuid.Nil, errors.New("principal is not a user")
	}
	return p.ID, nil
}

// AdminID returns the admin id, failing for non-admin principals.
func AdminID(c *fiber.Ctx) (uuid.UUID, error) {
	p, err := FromCtx(c)
	if err != nil {
		return uuid.Nil, err
	}
	if p.Kind != KindAdmin {
		return uuid.Nil, errors.New("principal is not an admin")
	}
	return p.ID, nil
}
