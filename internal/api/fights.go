package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/heroines-gacha/fights/internal/constants"
	"github.com/heroines-gacha/fights/internal/fight"
	"github.com/heroines-gacha/fights/internal/logging"
	"github.com/heroines-gacha/fights/internal/service"
)

type StartFightRequest struct {
	StageID string                `json:"stage_id" binding:"required"`
	Party   []service.PartyMember `json:"party"`
}

type EventsIndexRequest struct {
	Index *int `json:"index" binding:"required"`
}

// writeServiceError maps service errors to HTTP responses. fallback is the
// message used for unexpected failures.
func writeServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrFightNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrFightNotFound})
	case errors.Is(err, service.ErrStateUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{constants.JSONKeyError: constants.ErrStateUnavailable})
	case errors.Is(err, service.ErrInvalidIndex):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidEventsIndex})
	case errors.Is(err, service.ErrStageNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrStageNotFound})
	case errors.Is(err, service.ErrStageLocked):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrStageLocked})
	case errors.Is(err, service.ErrNoAllies):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrNoAllies})
	case errors.Is(err, service.ErrUnknownAlly):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrUnknownAlly})
	case errors.Is(err, service.ErrInvalidParty):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidParty})
	default:
		logging.Error(fallback, err, logging.Fields{
			constants.LogFieldUserID:  userID(c),
			constants.LogFieldFightID: c.Param(constants.ParamFightID),
		})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: fallback})
	}
}

// StartFight creates a fight for a stage with the given party.
func (h *FightHandler) StartFight(c *gin.Context) {
	var req StartFightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	rec, st, err := h.svc.StartFight(c.Request.Context(), service.StartFightRequest{
		UserID:  userID(c),
		StageID: req.StageID,
		Party:   req.Party,
	})
	if err != nil {
		writeServiceError(c, err, constants.ErrFailedStartFight)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"fight": rec, "state": st})
}

// ListFights returns the caller's latest fights.
func (h *FightHandler) ListFights(c *gin.Context) {
	recs, err := h.svc.ListFights(c.Request.Context(), userID(c))
	if err != nil {
		writeServiceError(c, err, constants.ErrFailedListFights)
		return
	}
	if recs == nil {
		recs = []fight.Record{}
	}
	c.JSON(http.StatusOK, recs)
}

func (h *FightHandler) GetState(c *gin.Context) {
	st, err := h.svc.GetState(c.Request.Context(), userID(c), c.Param(constants.ParamFightID))
	if err != nil {
		writeServiceError(c, err, constants.ErrFailedLoadFight)
		return
	}
	c.JSON(http.StatusOK, st)
}

// ResolveTurn resolves the next turn and returns the new state.
func (h *FightHandler) ResolveTurn(c *gin.Context) {
	st, err := h.svc.ResolveTurn(c.Request.Context(), userID(c), c.Param(constants.ParamFightID))
	if err != nil {
		writeServiceError(c, err, constants.ErrFailedResolveTurn)
		return
	}
	c.JSON(http.StatusOK, st)
}

// UpdateEventsIndex moves the event playback cursor forward.
func (h *FightHandler) UpdateEventsIndex(c *gin.Context) {
	var req EventsIndexRequest
	if err := c.ShouldBindJSON(&req); err != nil || *req.Index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	st, err := h.svc.UpdateLatestEventsIndex(c.Request.Context(), userID(c), c.Param(constants.ParamFightID), *req.Index)
	if err != nil {
		writeServiceError(c, err, constants.ErrFailedUpdateIndex)
		return
	}
	c.JSON(http.StatusOK, st)
}

// Stream upgrades to a websocket that receives the fight state and every
// resolved turn.
func (h *FightHandler) Stream(c *gin.Context) {
	uid := userID(c)
	fightID := c.Param(constants.ParamFightID)
	// Reject before upgrading so errors stay plain JSON.
	if _, err := h.svc.GetState(c.Request.Context(), uid, fightID); err != nil {
		writeServiceError(c, err, constants.ErrFailedLoadFight)
		return
	}
	h.hub.Serve(c.Writer, c.Request, fightID, func() (*fight.State, error) {
		return h.svc.GetState(c.Request.Context(), uid, fightID)
	})
}
