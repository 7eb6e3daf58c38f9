package handler

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/offerhub/offerhub-go/internal/middleware"
	"github.com/offerhub/offerhub-go/internal/model"
	"github.com/offerhub/offerhub-go/internal/service"
)

// OfferService is the catalog logic used by OfferHandler.
type OfferService interface {
	Search(ctx context.Context, q model.OfferQuery) (*model.OfferList, error)
	GetByID(ctx context.Context, id string) (*model.Offer, error)
	Publish(ctx context.Context, owner *model.Identity, req model.PublishRequest, picture, gallery []model.Upload) (*model.Offer, error)
	Update(ctx context.Context, caller *model.Identity, id string, req model.UpdateRequest, picture []model.Upload) error
	Delete(ctx context.Context, caller *model.Identity, id string) error
}

// OfferHandler handles HTTP requests for the offer catalog.
type OfferHandler struct {
	service OfferService
	maxBody int64
}

// NewOfferHandler creates a new OfferHandler.
func NewOfferHandler(svc OfferService, maxBody int64) *OfferHandler {
	return &OfferHandler{service: svc, maxBody: maxBody}
}

// HandleSearch handles GET /offers requests.
func (h *OfferHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q, err := parseOfferQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	list, err := h.service.Search(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// HandleGet handles GET /offer/{id} requests.
func (h *OfferHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	offer, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, offer)
}

// HandlePublish handles POST /offer/publish requests.
func (h *OfferHandler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Unauthorized"))
		return
	}

	body, err := readBody(w, r, h.maxBody)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	picture, err := body.Files("picture")
	if err != nil {
		writeBodyError(w, err)
		return
	}
	gallery, err := body.Files("pictures")
	if err != nil {
		writeBodyError(w, err)
		return
	}

	offer, err := h.service.Publish(r.Context(), identity, model.PublishRequest{
		Title:       body.String("title"),
		Description: body.String("description"),
		Price:       body.String("price"),
		Brand:       body.String("brand"),
		Size:        body.String("size"),
		Condition:   body.String("condition"),
		Color:       body.String("color"),
		City:        body.String("city"),
		Location:    body.String("location"),
	}, picture, gallery)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, offer)
}

// HandleUpdate handles PUT /offer/update/{id} requests.
func (h *OfferHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Unauthorized"))
		return
	}

	body, err := readBody(w, r, h.maxBody)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	picture, err := body.Files("picture")
	if err != nil {
		writeBodyError(w, err)
		return
	}

	err = h.service.Update(r.Context(), identity, chi.URLParam(r, "id"), model.UpdateRequest{
		Title:       body.String("title"),
		Description: body.String("description"),
		Price:       body.String("price"),
		Brand:       body.String("brand"),
		Size:        body.String("size"),
		Condition:   body.String("condition"),
		Color:       body.String("color"),
		City:        body.String("city"),
		Location:    body.String("location"),
	}, picture)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Offer modified successfully !"})
}

// HandleDelete handles DELETE /offer/delete/{id} requests.
func (h *OfferHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Unauthorized"))
		return
	}

	if err := h.service.Delete(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Offer deleted successfully !"})
}

// parseOfferQuery reads the search parameters. Unparseable page and limit values
// fall back to their defaults; unparseable price bounds are rejected.
func parseOfferQuery(values url.Values) (model.OfferQuery, error) {
	q := model.OfferQuery{
		Title: values.Get("title"),
		Sort:  values.Get("sort"),
	}

	var err error
	if q.PriceMin, err = parseBound(values.Get("priceMin")); err != nil {
		return q, err
	}
	if q.PriceMax, err = parseBound(values.Get("priceMax")); err != nil {
		return q, err
	}

	q.Page = parsePage(values.Get("page"))
	q.Limit, _ = strconv.Atoi(values.Get("limit"))
	return q, nil
}

// parsePage reads the page number. A page too large for an int is past the
// data, so it saturates instead of falling back to the first page.
func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
		return math.MaxInt
	}
	if err != nil {
		return 0
	}
	return page
}

func parseBound(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, service.ErrInvalidQuery
	}
	return &v, nil
}
