package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/geocoder89/userhub/internal/config"
	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/security"
	"github.com/gin-gonic/gin"
)

type UsersStore interface {
	List(ctx context.Context) ([]user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, username, email, passwordHash string) (user.User, error)
	Update(ctx context.Context, id int64, fields user.UpdateUserFields) (user.User, error)
	Delete(ctx context.Context, id int64) error
}

type TokenIssuer interface {
	GenerateToken(userID int64) (string, error)
}

type UsersHandler struct {
	repo       UsersStore
	tokens     TokenIssuer
	bcryptCost int
}

func NewUsersHandler(repo UsersStore, tokens TokenIssuer, bcryptCost int) *UsersHandler {
	return &UsersHandler{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest accepts any subset of fields; absent ones stay untouched.
// The create payload says "username", the update payload says "name" - the
// public API inherited that asymmetry and clients depend on it.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (h *UsersHandler) ListUsers(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	users, err := h.repo.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list users")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": users,
		"count": len(users),
	})
}

func (h *UsersHandler) GetUserByID(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	u, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User was not found")
			return
		}
		RespondInternal(ctx, "Could not fetch user")
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *UsersHandler) CreateUser(ctx *gin.Context) {
	var req CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if req.Username == "" || req.Email == "" || strings.TrimSpace(req.Password) == "" {
		RespondBadRequest(ctx, "Missing input fields", nil)
		return
	}

	// Both checks must pass; each failure names the rule it broke.
	emailOK, emailMsg := security.ValidateEmail(req.Email)
	passwordOK, passwordMsg := security.ValidatePassword(req.Password)

	if !emailOK || !passwordOK {
		details := gin.H{}
		if !emailOK {
			details["email"] = emailMsg
		}
		if !passwordOK {
			details["password"] = passwordMsg
		}
		RespondBadRequest(ctx, "Invalid email or password format", details)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	// Pre-check is advisory; the unique index is what actually guarantees
	// one row per email.
	exists, err := h.repo.EmailExists(cctx, req.Email)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	if exists {
		RespondConflict(ctx, "email_taken", "User with that email already exists")
		return
	}

	hash, err := security.HashPassword(req.Password, h.bcryptCost)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	u, err := h.repo.Create(cctx, req.Username, req.Email, hash)

	if err != nil {
		// A concurrent insert may win the race between pre-check and insert;
		// the constraint violation still has to surface as a conflict.
		if errors.Is(err, user.ErrEmailTaken) {
			RespondConflict(ctx, "email_taken", "Email already exists")
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	token, err := h.tokens.GenerateToken(u.ID)

	if err != nil {
		RespondInternal(ctx, "Could not generate token")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  u,
	})
}

func (h *UsersHandler) UpdateUserPartial(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req UpdateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if _, err := h.repo.GetByID(cctx, id); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}
		RespondInternal(ctx, "Could not update user")
		return
	}

	fields := user.UpdateUserFields{
		Username: req.Name,
		Email:    req.Email,
	}

	if req.Password != nil {
		hash, err := security.HashPassword(*req.Password, h.bcryptCost)

		if err != nil {
			RespondInternal(ctx, "Could not update user")
			return
		}

		fields.PasswordHash = &hash
	}

	if fields.Empty() {
		RespondBadRequest(ctx, "No fields provided to update", nil)
		return
	}

	u, err := h.repo.Update(cctx, id, fields)

	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			RespondNotFound(ctx, "User not found")
		case errors.Is(err, user.ErrEmailTaken):
			RespondConflict(ctx, "email_taken", "Email already exists")
		default:
			RespondInternal(ctx, "Could not update user")
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    u,
	})
}

// DeleteUser reads the target id from the query string (?id=42); the route
// itself carries no path parameter.
func (h *UsersHandler) DeleteUser(ctx *gin.Context) {
	raw := ctx.Query("id")

	id, err := strconv.ParseInt(raw, 10, 64)

	if err != nil || raw == "" {
		RespondBadRequest(ctx, "Query parameter 'id' must be an integer", nil)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err = h.repo.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}
		RespondInternal(ctx, "Could not delete user")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Successfully deleted user",
		"id":      id,
	})
}

func pathID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)

	if err != nil {
		RespondBadRequest(ctx, "Path parameter 'id' must be an integer", nil)
		return 0, false
	}

	return id, true
}
