package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joeyave/campus-hub/entity"
	"github.com/joeyave/campus-hub/service"
)

type CommunityController struct {
	CommunityService *service.CommunityService
}

func (h *CommunityController) Committees(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.CommunityService.Committees())
}

func (h *CommunityController) Profile(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.CommunityService.Profile())
}

func (h *CommunityController) Badges(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.CommunityService.Badges())
}

func (h *CommunityController) AwardBadge(ctx *gin.Context) {
	var award entity.BadgeAward
	if !bindJSON(ctx, &award) {
		return
	}

	awarded, err := h.CommunityService.AwardBadge(ctx.Request.Context(), award)
	if err != nil {
		abortWithError(ctx, err, "Failed to award badge")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Badge awarded successfully",
		"badgeId": awarded.BadgeID,
		"userId":  awarded.UserID,
		"reason":  awarded.Reason,
	})
}

func (h *CommunityController) UserBadges(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.CommunityService.UserBadges(ctx.Param("userId")))
}

func (h *CommunityController) DashboardStats(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.CommunityService.DashboardStats())
}

func (h *CommunityController) MessageStats(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.CommunityService.MessageStats())
}
