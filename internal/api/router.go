package api

import (
	"github.com/gin-gonic/gin"

	"github.com/heroines-gacha/fights/internal/constants"
)

// NewRouter wires every route onto a fresh gin engine.
func NewRouter(h *FightHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.GET(constants.RouteVersion, Version)
		apiRoutes.GET(constants.RouteSpells, h.ListSpells)
		apiRoutes.GET(constants.RouteStages, h.ListStages)

		protected := apiRoutes.Group("")
		protected.Use(UserRequired())

		protected.POST(constants.RouteFights, h.StartFight)
		protected.GET(constants.RouteFights, h.ListFights)
		protected.GET(constants.RouteFightState, h.GetState)
		protected.POST(constants.RouteFightResolve, h.ResolveTurn)
		protected.POST(constants.RouteFightEventsIndex, h.UpdateEventsIndex)
		if h.hub != nil {
			protected.GET(constants.RouteFightStream, h.Stream)
		}
	}
	return router
}
