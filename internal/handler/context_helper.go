package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroll-api/internal/middleware"
	"github.com/noah-isme/classroll-api/internal/models"
	appErrors "github.com/noah-isme/classroll-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.Claims(c)
}

func actorFromContext(c *gin.Context) models.Actor {
	actor := models.Actor{IP: c.ClientIP()}
	if claims := claimsFromContext(c); claims != nil {
		actor.UserID = claims.UserID
	}
	return actor
}

// scopedTeacherID resolves the teacher a request acts for. Teachers default
// to themselves and may not act for anyone else.
func scopedTeacherID(c *gin.Context, requested string) (string, error) {
	claims := claimsFromContext(c)
	if claims == nil {
		return "", appErrors.ErrUnauthorized
	}
	if claims.Role == models.RoleAdmin {
		return requested, nil
	}
	if requested == "" {
		return claims.TeacherID, nil
	}
	if requested != claims.TeacherID {
		return "", appErrors.Clone(appErrors.ErrForbidden, "teachers may only access their own data")
	}
	return requested, nil
}

func invalidPayload(err error) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
}
