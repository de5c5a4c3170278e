package handlers

import (
	"net/http"

	"github.com/geocoder89/userhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// Me echoes the identity the auth middleware resolved for this request.
func Me(ctx *gin.Context) {
	id, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondInternal(ctx, "Missing identity context")
		return
	}

	username, _ := middlewares.UsernameFromContext(ctx)
	email, _ := middlewares.EmailFromContext(ctx)

	ctx.JSON(http.StatusOK, gin.H{
		"id":       id,
		"username": username,
		"email":    email,
	})
}
