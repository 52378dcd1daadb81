package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"catdistribution-api/internal/generator"
	"catdistribution-api/internal/models"
	"catdistribution-api/internal/oplog"
	"catdistribution-api/internal/store"
)

var validate = validator.New()

type startRequest struct {
	UserID string `json:"userId" validate:"omitempty,uuid"`
}

type statusResponse struct {
	Active    bool       `json:"active"`
	SessionID *uuid.UUID `json:"sessionId,omitempty"`
	OwnerID   *uuid.UUID `json:"ownerId,omitempty"`
	StartedAt *time.Time `json:"startedAt,omitempty"`
	Ticks     int64      `json:"ticks"`
	Failures  int64      `json:"failures"`
}

type createUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
}

type operationRequest struct {
	Type    string            `json:"type" validate:"required,max=64"`
	Message string            `json:"message" validate:"max=2048"`
	Tags    map[string]string `json:"tags"`
	TS      time.Time         `json:"ts"`
}

type handlers struct {
	gen   *generator.Controller
	cats  store.CatRepository
	users store.UserRepository
	ops   oplog.Store
}

func decode(r *http.Request, v any) error {
	if r.ContentLength == 0 {
		return validate.Struct(v)
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return validate.Struct(v)
}

func (h *handlers) record(userID, typ, msg string) {
	if h.ops == nil {
		return
	}
	err := h.ops.Append(models.OperationLog{
		ID:      uuid.NewString(),
		UserID:  userID,
		Type:    typ,
		Message: msg,
		TS:      time.Now().UTC(),
	})
	if err != nil {
		log.Warn().Err(err).Str("type", typ).Msg("oplog append")
	}
}

func (h *handlers) startGenerator(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	raw := req.UserID
	if raw == "" {
		raw = Subject(r.Context())
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "bad_user", "userId must be a uuid")
		return
	}

	if _, started := h.gen.Start(userID); started {
		h.record(userID.String(), models.OpGeneratorStart, "generation started")
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *handlers) stopGenerator(w http.ResponseWriter, r *http.Request) {
	s := h.gen.Current()
	if h.gen.Stop() && s != nil {
		h.record(s.Owner.String(), models.OpGeneratorStop, "generation stopped")
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *handlers) generatorStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{}
	if s := h.gen.Current(); s != nil {
		resp.Active = true
		resp.SessionID = &s.ID
		resp.OwnerID = &s.Owner
		resp.StartedAt = &s.StartedAt
		resp.Ticks = s.Ticks()
		resp.Failures = s.Failures()
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (h *handlers) listCats(w http.ResponseWriter, r *http.Request) {
	cats, err := h.cats.FindAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list cats")
		WriteError(w, http.StatusInternalServerError, "internal", "could not list cats")
		return
	}
	WriteJSON(w, http.StatusOK, cats)
}

func (h *handlers) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	u := models.User{
		ID:        uuid.New(),
		Username:  strings.TrimSpace(req.Username),
		CreatedAt: time.Now().UTC(),
	}
	if err := h.users.Create(r.Context(), u); err != nil {
		if errors.Is(err, store.ErrDuplicateUser) {
			WriteError(w, http.StatusConflict, "duplicate", err.Error())
			return
		}
		log.Error().Err(err).Msg("create user")
		WriteError(w, http.StatusInternalServerError, "internal", "could not create user")
		return
	}
	WriteJSON(w, http.StatusCreated, u)
}

func (h *handlers) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "bad_user", "id must be a uuid")
		return
	}
	u, err := h.users.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("get user")
		WriteError(w, http.StatusInternalServerError, "internal", "could not load user")
		return
	}
	WriteJSON(w, http.StatusOK, u)
}

func (h *handlers) addOperation(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if _, err := uuid.Parse(userID); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_user", "userId must be a uuid")
		return
	}
	var req operationRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if req.TS.IsZero() {
		req.TS = time.Now().UTC()
	}
	e := models.OperationLog{
		ID:      uuid.NewString(),
		UserID:  userID,
		Type:    req.Type,
		Message: req.Message,
		Tags:    req.Tags,
		TS:      req.TS,
	}
	if err := h.ops.Append(e); err != nil {
		log.Error().Err(err).Msg("oplog append")
		WriteError(w, http.StatusInternalServerError, "internal", "could not store operation")
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"ok": true, "id": e.ID})
}

func (h *handlers) listOperations(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	out, err := h.ops.Recent(limit)
	if err != nil {
		log.Error().Err(err).Msg("oplog read")
		WriteError(w, http.StatusInternalServerError, "internal", "could not read operations")
		return
	}
	WriteJSON(w, http.StatusOK, out)
}
