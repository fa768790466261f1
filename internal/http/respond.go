package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AyyappaSannidhi/backend/internal/domain"
	"github.com/AyyappaSannidhi/backend/internal/service"
)

func respond(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

func respondWithUser(c *gin.Context, status int, message string, user any) {
	c.JSON(status, gin.H{"message": message, "user": user})
}

// respondWithSession es el único punto donde los tokens cruzan al cliente:
// cuerpo con perfil + cookies HttpOnly/Secure/SameSite=Strict.
func respondWithSession(c *gin.Context, status int, message string, user any, tokens service.TokenPair) {
	if tokens.AccessToken != "" || tokens.RefreshToken != "" {
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie("access_token", tokens.AccessToken, 0, "/", "", true, true)
		c.SetCookie("refresh_token", tokens.RefreshToken, 0, "/", "", true, true)
	}
	respondWithUser(c, status, message, user)
}

func internalServerError(c *gin.Context) {
	respond(c, http.StatusInternalServerError, domain.MsgInternalServerError)
}
