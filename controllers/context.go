package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/ssenpaii/playtally/middleware"
)

func getRole(ctx *gin.Context) string {
	value, exists := ctx.Get(middleware.ContextRoleKey)
	if !exists {
		return ""
	}
	s, _ := value.(string)
	return s
}

func getUsername(ctx *gin.Context) (string, bool) {
	value, exists := ctx.Get(middleware.ContextUsernameKey)
	if !exists {
		return "", false
	}
	s, ok := value.(string)
	return s, ok && s != ""
}
