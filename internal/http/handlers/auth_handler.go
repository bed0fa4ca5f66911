package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"anynow/internal/domain"
	"anynow/internal/log"
	"anynow/internal/services"
	"anynow/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		setSID(c, sid)
	}
	return sid
}

func setSID(c *fiber.Ctx, sid string) {
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    sid,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
	})
}

func currentUser(c *fiber.Ctx) (domain.User, bool) {
	u, ok := c.Locals("user").(domain.User)
	return u, ok
}

// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var f services.SignupForm
	if err := c.BodyParser(&f); err != nil {
		return badRequest(c, "body", "invalid request")
	}
	u, err := h.Auth.Signup(c.UserContext(), f)
	if err != nil {
		if services.IsConflict(err) {
			log.Security(c, "auth.signup.fail", map[string]any{"email": f.Email, "reason": "taken"})
			return jsonError(c, fiber.StatusConflict, "an account with this email already exists")
		}
		return fail(c, "auth.signup", err)
	}
	log.Audit(c, "auth.signup", map[string]any{"user_id": u.ID})
	return c.Status(fiber.StatusCreated).JSON(u.Public())
}

type loginForm struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var f loginForm
	if err := c.BodyParser(&f); err != nil {
		return badRequest(c, "body", "invalid request")
	}
	if _, ok := validate.Email(f.Email); !ok {
		log.Security(c, "auth.login.fail", map[string]any{"email": f.Email, "reason": "bad_format"})
		return jsonError(c, fiber.StatusUnauthorized, "invalid email or password")
	}
	if !validate.Password(f.Password) {
		log.Security(c, "auth.login.fail", map[string]any{"email": f.Email, "reason": "bad_password_format"})
		return jsonError(c, fiber.StatusUnauthorized, "invalid email or password")
	}

	u, fresh, err := h.Auth.Login(c.UserContext(), sid, f.Email, f.Password)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": f.Email})
		return fail(c, "auth.login", err)
	}
	setSID(c, fresh)
	log.Audit(c, "auth.login.success", map[string]any{"email": u.Email})
	return c.JSON(u.Public())
}

// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	if err := h.Auth.Logout(c.UserContext(), sid); err != nil {
		return fail(c, "auth.logout", err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.SendStatus(fiber.StatusNoContent)
}
