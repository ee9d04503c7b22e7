package target

import (
	"encoding/json"
	"net/http"
	"strconv"

	middle "certwatch/internals/middleware"
	"certwatch/pkg/apperror"
	"certwatch/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service, validator *validator.Validate) *Handler {
	return &Handler{
		service:   service,
		validator: validator,
	}
}

func (h *Handler) CreateTarget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	userID, ok := authedUserID(w, r)
	if !ok {
		return
	}

	var req CreateTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, err.Error())
		return
	}

	targetID, err := h.service.CreateTarget(ctx, CreateTargetCmd{
		UserID:            userID,
		URL:               req.URL,
		AlertEmail:        req.AlertEmail,
		IntervalSec:       req.IntervalSec,
		TimeoutSec:        req.TimeoutSec,
		ExpectedStatus:    req.ExpectedStatus,
		MaxResponseTimeMs: req.MaxResponseTimeMs,
		ExpectedContent:   req.ExpectedContent,
		ForbiddenContent:  req.ForbiddenContent,
		FollowRedirects:   req.FollowRedirects,
		MaxRedirects:      req.MaxRedirects,
		SSLExpiryWarnDays: req.SSLExpiryWarnDays,
	})
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, reqID, "target created", targetID.String())
}

func (h *Handler) GetTarget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	userID, ok := authedUserID(w, r)
	if !ok {
		return
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "targetID"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "invalid target id")
		return
	}

	t, err := h.service.GetTarget(ctx, userID, targetID)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, reqID, "", toTargetResponse(t))
}

// /targets?offset=0&limit=20
func (h *Handler) GetAllTargets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	userID, ok := authedUserID(w, r)
	if !ok {
		return
	}

	limit, offset := paginationParams(r)

	targets, err := h.service.GetAllTargets(ctx, userID, limit, offset)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	resp := GetAllTargetsResponse{
		UserID:  userID.String(),
		Limit:   limit,
		Offset:  offset,
		Targets: make([]GetTargetResponse, 0, len(targets)),
	}
	for _, t := range targets {
		resp.Targets = append(resp.Targets, toTargetResponse(t))
	}
	utils.WriteJSON(w, http.StatusOK, reqID, "", resp)
}

func (h *Handler) UpdateTargetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	userID, ok := authedUserID(w, r)
	if !ok {
		return
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "targetID"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "invalid target id")
		return
	}

	var req UpdateTargetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, err.Error())
		return
	}

	if err := h.service.UpdateTargetStatus(ctx, userID, targetID, *req.Enable); err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, reqID, "target updated", struct{}{})
}

func (h *Handler) DeleteTarget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	userID, ok := authedUserID(w, r)
	if !ok {
		return
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "targetID"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "invalid target id")
		return
	}

	if err := h.service.DeleteTarget(ctx, userID, targetID); err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, reqID, "target deleted", struct{}{})
}

func (h *Handler) GetCurrentStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	userID, ok := authedUserID(w, r)
	if !ok {
		return
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "targetID"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "invalid target id")
		return
	}

	st, err := h.service.CurrentStatus(ctx, userID, targetID)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, reqID, "", st)
}

func (h *Handler) GetIncidents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)
	userID, ok := authedUserID(w, r)
	if !ok {
		return
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "targetID"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "invalid target id")
		return
	}

	limit, offset := paginationParams(r)

	incidents, err := h.service.IncidentHistory(ctx, userID, targetID, limit, offset)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	resp := make([]IncidentView, 0, len(incidents))
	for _, inc := range incidents {
		resp = append(resp, IncidentView{
			ID:                    inc.ID.String(),
			StartedAt:             inc.StartedAt,
			EndedAt:               inc.EndedAt,
			IncidentType:          string(inc.IncidentType),
			Reason:                inc.Reason,
			ResolvedAutomatically: inc.ResolvedAutomatically,
			DurationMinutes:       inc.DurationMinutes,
		})
	}
	utils.WriteJSON(w, http.StatusOK, reqID, "", resp)
}

func authedUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	claims, ok := middle.UserFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "")
		return uuid.UUID{}, false
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "")
		return uuid.UUID{}, false
	}
	return userID, true
}

func paginationParams(r *http.Request) (limit, offset int32) {
	limit, offset = 20, 0
	if v, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 32); err == nil && v > 0 && v <= 100 {
		limit = int32(v)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("offset"), 10, 32); err == nil && v >= 0 {
		offset = int32(v)
	}
	return limit, offset
}
