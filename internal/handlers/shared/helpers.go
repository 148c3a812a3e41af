package handlers

import (
	"ecocreds/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentUserID pulls the authenticated user out of the gin context. The
// auth middleware guarantees it is set on protected routes.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.UnauthorizedResponse(c)
		return primitive.NilObjectID, false
	}

	userObjectID, ok := userID.(primitive.ObjectID)
	if !ok {
		utils.BadRequestResponse(c, "Invalid user ID")
		return primitive.NilObjectID, false
	}

	return userObjectID, true
}

func pathObjectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+param)
		return primitive.NilObjectID, false
	}
	return id, true
}
