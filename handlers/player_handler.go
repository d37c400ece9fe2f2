package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/emilianozm24/baloncesto-api/middleware"
	"github.com/emilianozm24/baloncesto-api/models"
	"github.com/emilianozm24/baloncesto-api/services"
)

const (
	// maxAttachmentSize bounds each uploaded document.
	maxAttachmentSize = 5 << 20 // 5MB

	// maxPlayerFormSize bounds the whole multipart form: four documents
	// plus the text fields.
	maxPlayerFormSize = 25 << 20
)

var allowedAttachmentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

type PlayerHandler struct {
	playerService services.PlayerService
}

func NewPlayerHandler(playerService services.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerService: playerService}
}

func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	team, ok := middleware.TeamFromContext(r.Context())
	if !ok {
		serverErrorResponse(w, errMissingURLRecord)
		return
	}

	input, uploads, closeUploads, err := h.parsePlayerForm(r)
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	defer closeUploads()

	player, err := h.playerService.Create(r.Context(), team, input, uploads)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, player, nil)
}

func (h *PlayerHandler) ListByTeam(w http.ResponseWriter, r *http.Request) {
	team, ok := middleware.TeamFromContext(r.Context())
	if !ok {
		serverErrorResponse(w, errMissingURLRecord)
		return
	}

	players, err := h.playerService.ListByTeam(r.Context(), team.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, players, nil)
}

func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	player, ok := middleware.PlayerFromContext(r.Context())
	if !ok {
		serverErrorResponse(w, errMissingURLRecord)
		return
	}

	full, err := h.playerService.GetByID(r.Context(), player.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, full, nil)
}

func (h *PlayerHandler) Update(w http.ResponseWriter, r *http.Request) {
	player, ok := middleware.PlayerFromContext(r.Context())
	if !ok {
		serverErrorResponse(w, errMissingURLRecord)
		return
	}

	input, uploads, closeUploads, err := h.parsePlayerForm(r)
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	defer closeUploads()

	updated, err := h.playerService.Update(r.Context(), player, input, uploads)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated, nil)
}

func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	team, tok := middleware.TeamFromContext(r.Context())
	player, ok := middleware.PlayerFromContext(r.Context())
	if !tok || !ok {
		serverErrorResponse(w, errMissingURLRecord)
		return
	}

	if err := h.playerService.Delete(r.Context(), team, player); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"message": "player deleted"}, nil)
}

// RenderRoster streams the team roster as a PDF download.
func (h *PlayerHandler) RenderRoster(w http.ResponseWriter, r *http.Request) {
	team, ok := middleware.TeamFromContext(r.Context())
	if !ok {
		serverErrorResponse(w, errMissingURLRecord)
		return
	}

	document, err := h.playerService.RenderRoster(r.Context(), team)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", team.Name+".pdf"))
	w.WriteHeader(http.StatusOK)
	w.Write(document)
}

// parsePlayerForm reads the multipart form shared by Create and Update.
// The caller must invoke the returned cleanup once the uploads have
// been consumed.
func (h *PlayerHandler) parsePlayerForm(r *http.Request) (services.PlayerInput, map[models.AttachmentKind]*services.AttachmentUpload, func(), error) {
	var input services.PlayerInput
	noop := func() {}

	r.Body = http.MaxBytesReader(nil, r.Body, maxPlayerFormSize)
	if err := r.ParseMultipartForm(maxPlayerFormSize); err != nil {
		return input, nil, noop, fmt.Errorf("invalid multipart form: %w", err)
	}

	input.Name = r.FormValue("name")
	input.LastName = r.FormValue("lastName")
	input.CURP = r.FormValue("curp")
	input.Position = r.FormValue("position")

	var err error
	if input.NumberIPN, err = formInt(r, "numberIpn"); err != nil {
		return input, nil, noop, err
	}
	if input.Number, err = formInt(r, "number"); err != nil {
		return input, nil, noop, err
	}

	uploads := make(map[models.AttachmentKind]*services.AttachmentUpload)
	var open []multipart.File
	closeUploads := func() {
		for _, f := range open {
			f.Close()
		}
	}

	for _, kind := range models.AttachmentKinds {
		file, header, err := r.FormFile(string(kind))
		if err == http.ErrMissingFile {
			continue
		}
		if err != nil {
			closeUploads()
			return input, nil, noop, fmt.Errorf("failed to read %s: %w", kind, err)
		}
		open = append(open, file)

		if header.Size > maxAttachmentSize {
			closeUploads()
			return input, nil, noop, fmt.Errorf("%s exceeds the %dMB limit", kind, maxAttachmentSize>>20)
		}
		contentType := header.Header.Get("Content-Type")
		if !allowedAttachmentTypes[contentType] {
			closeUploads()
			return input, nil, noop, fmt.Errorf("%w: %s", services.ErrAttachmentInvalidType, kind)
		}

		uploads[kind] = &services.AttachmentUpload{
			Filename:    header.Filename,
			ContentType: contentType,
			Reader:      file,
		}
	}

	return input, uploads, closeUploads, nil
}

func formInt(r *http.Request, field string) (int, error) {
	value, err := strconv.Atoi(r.FormValue(field))
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", field)
	}
	return value, nil
}
