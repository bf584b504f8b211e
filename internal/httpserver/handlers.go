package httpserver

import (
	"context"
	"crypto/subtle"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/livekit/protocol/livekit"
	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/ceddyai/golf-voice/internal/golf"
	"github.com/ceddyai/golf-voice/internal/pipeline"
	"github.com/ceddyai/golf-voice/internal/rooms"
	"github.com/ceddyai/golf-voice/internal/store"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// TurnProcessor is the pipeline surface the interaction endpoint needs.
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, sessionToken string, audio []byte) (*pipeline.Turn, error)
}

// RoomProvisioner is the rooms facade surface behind the LiveKit routes.
type RoomProvisioner interface {
	CreateRoom(ctx context.Context, name string, emptyTimeout time.Duration) (*rooms.RoomInfo, error)
	ListRooms(ctx context.Context) ([]rooms.RoomInfo, error)
	ListParticipants(ctx context.Context, room string) ([]rooms.ParticipantInfo, error)
	CreateToken(req rooms.TokenRequest) (string, error)
	ReceiveWebhook(r *http.Request) (*livekit.WebhookEvent, error)
}

// Handlers carries the dependencies behind the HTTP routes.
type Handlers struct {
	Store *store.Store
	Turns TurnProcessor
	Rooms RoomProvisioner
	Log   *logrus.Logger

	DocsUsername string
	DocsPassword string
}

// Register attaches every route to the Echo instance.
func (h *Handlers) Register(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.POST("/sessions", h.createSession)
	e.GET("/sessions", h.listSessions)
	e.GET("/sessions/:session_id", h.getSession)
	e.PATCH("/sessions/:session_id", h.updateSession)

	e.POST("/interaction", h.interaction)
	e.GET("/transcripts", h.listTranscripts)

	e.GET("/suggest-club/:distance", h.suggestClub)
	e.GET("/wind-conditions", h.windConditions)

	e.POST("/livekit/rooms", h.createRoom)
	e.GET("/livekit/rooms", h.listRooms)
	e.GET("/livekit/rooms/:room_name/participants", h.listParticipants)
	e.POST("/livekit/token", h.createToken)
	e.POST("/livekit/webhook", h.livekitWebhook)

	docs := e.Group("/docs", middleware.BasicAuth(func(user, pass string, c echo.Context) (bool, error) {
		userOK := subtle.ConstantTimeCompare([]byte(user), []byte(h.DocsUsername)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(h.DocsPassword)) == 1
		return userOK && passOK, nil
	}))
	docs.GET("", h.docsIndex)
}

type errorResponse struct {
	Error string `json:"error"`
}

func jsonError(c echo.Context, code int, msg string) error {
	return c.JSON(code, errorResponse{Error: msg})
}

// parsePage validates limit/offset query parameters.
func parsePage(c echo.Context) (limit, offset int, err error) {
	limit, offset = defaultPageLimit, 0
	if v := c.QueryParam("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 || limit > maxPageLimit {
			return 0, 0, errors.New("limit must be an integer between 1 and 100")
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		offset, err = strconv.Atoi(v)
		if err != nil || offset < 0 {
			return 0, 0, errors.New("offset must be a non-negative integer")
		}
	}
	return limit, offset, nil
}

func secondsToDuration(s int) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s) * time.Second
}

type pageResponse[T any] struct {
	Total int `json:"total"`
	Items []T `json:"items"`
}

type createSessionRequest struct {
	UserID *string `json:"user_id"`
}

func (h *Handlers) createSession(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	sess, err := h.Store.CreateSession(c.Request().Context(), uuid.NewString(), req.UserID)
	if err != nil {
		h.Log.WithError(err).Error("create session failed")
		return jsonError(c, http.StatusInternalServerError, "failed to create session")
	}
	return c.JSON(http.StatusCreated, sess)
}

func (h *Handlers) listSessions(c echo.Context) error {
	limit, offset, err := parsePage(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}
	items, total, err := h.Store.ListSessions(c.Request().Context(), limit, offset)
	if err != nil {
		h.Log.WithError(err).Error("list sessions failed")
		return jsonError(c, http.StatusInternalServerError, "failed to list sessions")
	}
	return c.JSON(http.StatusOK, pageResponse[store.Session]{Total: total, Items: items})
}

func (h *Handlers) getSession(c echo.Context) error {
	sess, err := h.Store.GetSessionByToken(c.Request().Context(), c.Param("session_id"), false)
	if errors.Is(err, store.ErrNotFound) {
		return jsonError(c, http.StatusNotFound, "session not found")
	}
	if err != nil {
		h.Log.WithError(err).Error("get session failed")
		return jsonError(c, http.StatusInternalServerError, "failed to load session")
	}
	return c.JSON(http.StatusOK, sess)
}

type updateSessionRequest struct {
	UserID   *string `json:"user_id"`
	IsActive *bool   `json:"is_active"`
}

func (h *Handlers) updateSession(c echo.Context) error {
	var req updateSessionRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	ctx := c.Request().Context()
	sess, err := h.Store.GetSessionByToken(ctx, c.Param("session_id"), false)
	if errors.Is(err, store.ErrNotFound) {
		return jsonError(c, http.StatusNotFound, "session not found")
	}
	if err != nil {
		h.Log.WithError(err).Error("get session failed")
		return jsonError(c, http.StatusInternalServerError, "failed to load session")
	}
	updated, err := h.Store.UpdateSession(ctx, sess.ID, store.SessionPatch{
		UserID:   req.UserID,
		IsActive: req.IsActive,
	})
	if errors.Is(err, store.ErrNotFound) {
		return jsonError(c, http.StatusNotFound, "session not found")
	}
	if err != nil {
		h.Log.WithError(err).Error("update session failed")
		return jsonError(c, http.StatusInternalServerError, "failed to update session")
	}
	return c.JSON(http.StatusOK, updated)
}

// interaction accepts one multipart audio upload and streams back the
// synthesized reply. The transcript is committed before streaming starts,
// so a dropped connection never loses the turn.
func (h *Handlers) interaction(c echo.Context) error {
	sessionToken := c.FormValue("session_id")
	if sessionToken == "" {
		return jsonError(c, http.StatusBadRequest, "session_id is required")
	}
	fh, err := c.FormFile("audio_file")
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "audio_file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "failed to open audio_file")
	}
	audio, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "failed to read audio_file")
	}

	turn, err := h.Turns.ProcessTurn(c.Request().Context(), sessionToken, audio)
	if errors.Is(err, pipeline.ErrSessionNotFound) {
		return jsonError(c, http.StatusNotFound, "session not found")
	}
	if err != nil {
		h.Log.WithError(err).Error("interaction failed")
		return jsonError(c, http.StatusInternalServerError, "failed to process interaction")
	}
	defer turn.Audio.Close()

	return c.Stream(http.StatusOK, "audio/mpeg", turn.Audio)
}

func (h *Handlers) listTranscripts(c echo.Context) error {
	limit, offset, err := parsePage(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()

	if token := c.QueryParam("session_id"); token != "" {
		sess, err := h.Store.GetSessionByToken(ctx, token, false)
		if errors.Is(err, store.ErrNotFound) {
			return jsonError(c, http.StatusNotFound, "session not found")
		}
		if err != nil {
			h.Log.WithError(err).Error("get session failed")
			return jsonError(c, http.StatusInternalServerError, "failed to load session")
		}
		items, err := h.Store.TranscriptsForSession(ctx, sess.ID, limit)
		if err != nil {
			h.Log.WithError(err).Error("list session transcripts failed")
			return jsonError(c, http.StatusInternalServerError, "failed to list transcripts")
		}
		if items == nil {
			items = []store.Transcript{}
		}
		return c.JSON(http.StatusOK, pageResponse[store.Transcript]{Total: len(items), Items: items})
	}

	items, total, err := h.Store.ListTranscripts(ctx, limit, offset)
	if err != nil {
		h.Log.WithError(err).Error("list transcripts failed")
		return jsonError(c, http.StatusInternalServerError, "failed to list transcripts")
	}
	return c.JSON(http.StatusOK, pageResponse[store.Transcript]{Total: total, Items: items})
}

func (h *Handlers) suggestClub(c echo.Context) error {
	distance, err := strconv.ParseFloat(c.Param("distance"), 64)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "distance must be a number")
	}
	return c.JSON(http.StatusOK, golf.SuggestClub(distance))
}

func (h *Handlers) windConditions(c echo.Context) error {
	return c.JSON(http.StatusOK, golf.WindConditions())
}

func (h *Handlers) roomsError(c echo.Context, err error, action string) error {
	if errors.Is(err, rooms.ErrNotConfigured) {
		return jsonError(c, http.StatusServiceUnavailable, "livekit is not configured")
	}
	h.Log.WithError(err).Error(action)
	return jsonError(c, http.StatusInternalServerError, action)
}

type createRoomRequest struct {
	RoomName     string `json:"room_name"`
	EmptyTimeout int    `json:"empty_timeout"`
}

func (h *Handlers) createRoom(c echo.Context) error {
	var req createRoomRequest
	if err := c.Bind(&req); err != nil || req.RoomName == "" {
		return jsonError(c, http.StatusBadRequest, "room_name is required")
	}
	info, err := h.Rooms.CreateRoom(c.Request().Context(), req.RoomName, secondsToDuration(req.EmptyTimeout))
	if err != nil {
		return h.roomsError(c, err, "failed to create room")
	}
	return c.JSON(http.StatusCreated, info)
}

func (h *Handlers) listRooms(c echo.Context) error {
	items, err := h.Rooms.ListRooms(c.Request().Context())
	if err != nil {
		return h.roomsError(c, err, "failed to list rooms")
	}
	return c.JSON(http.StatusOK, map[string]any{"rooms": items})
}

func (h *Handlers) listParticipants(c echo.Context) error {
	items, err := h.Rooms.ListParticipants(c.Request().Context(), c.Param("room_name"))
	if err != nil {
		return h.roomsError(c, err, "failed to list participants")
	}
	return c.JSON(http.StatusOK, map[string]any{"participants": items})
}

type createTokenRequest struct {
	RoomName   string `json:"room_name"`
	Identity   string `json:"identity"`
	Name       string `json:"name"`
	Metadata   string `json:"metadata"`
	TTLSeconds int    `json:"ttl_seconds"`
}

func (h *Handlers) createToken(c echo.Context) error {
	var req createTokenRequest
	if err := c.Bind(&req); err != nil || req.RoomName == "" {
		return jsonError(c, http.StatusBadRequest, "room_name is required")
	}
	token, err := h.Rooms.CreateToken(rooms.TokenRequest{
		Room:           req.RoomName,
		Identity:       req.Identity,
		Name:           req.Name,
		Metadata:       req.Metadata,
		TTL:            secondsToDuration(req.TTLSeconds),
		CanPublish:     true,
		CanSubscribe:   true,
		CanPublishData: true,
	})
	if err != nil {
		return h.roomsError(c, err, "failed to create token")
	}
	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

func (h *Handlers) livekitWebhook(c echo.Context) error {
	event, err := h.Rooms.ReceiveWebhook(c.Request())
	if errors.Is(err, rooms.ErrNotConfigured) {
		return jsonError(c, http.StatusServiceUnavailable, "livekit is not configured")
	}
	if err != nil {
		return jsonError(c, http.StatusUnauthorized, "invalid webhook signature")
	}
	h.Log.WithField("event", event.Event).Info("livekit webhook received")

	// Echo the decoded event back to the caller.
	body, err := protojson.Marshal(event)
	if err != nil {
		h.Log.WithError(err).Error("failed to encode webhook event")
		return jsonError(c, http.StatusInternalServerError, "failed to encode webhook event")
	}
	return c.JSONBlob(http.StatusOK, body)
}

// docsIndex is a minimal human-readable endpoint listing.
func (h *Handlers) docsIndex(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"service": "golf-voice",
		"endpoints": []string{
			"POST /sessions",
			"GET /sessions",
			"GET /sessions/:session_id",
			"PATCH /sessions/:session_id",
			"POST /interaction",
			"GET /transcripts",
			"GET /suggest-club/:distance",
			"GET /wind-conditions",
			"POST /livekit/rooms",
			"GET /livekit/rooms",
			"GET /livekit/rooms/:room_name/participants",
			"POST /livekit/token",
			"POST /livekit/webhook",
			"GET /healthz",
		},
	})
}
