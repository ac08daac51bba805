package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"landlordwatch/internal/app"
	"landlordwatch/internal/domain"
)

type Handlers struct {
	Landlords     *app.LandlordService
	Reviews       *app.ReviewService
	Contributions *app.ContributionService
	Identity      IdentityResolver
}

func (s *Server) MountHandlers(h *Handlers) {
	if h.Identity == nil {
		h.Identity = RemoteIdentity
	}
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/api/landlords", h.listLandlords)
	s.mux.Post("/api/landlords", h.createLandlord)
	s.mux.Get("/api/landlords/{id}", h.getLandlord)
	s.mux.Get("/api/landlords/{id}/reviews", h.listLandlordReviews)
	s.mux.Get("/api/reviews", h.listReviews)
	s.mux.Post("/api/reviews", h.createReview)
	s.mux.Post("/api/reviews/{id}/vote", h.castVote)
	s.mux.Post("/api/contribute-landlord-name", h.contribute)
	s.mux.Get("/api/enhanced-search", h.enhancedSearch)
}

type problem struct {
	Type          string              `json:"type"`
	Title         string              `json:"title"`
	Status        int                 `json:"status"`
	Detail        string              `json:"detail,omitempty"`
	InvalidParams []domain.FieldError `json:"invalid-params,omitempty"`
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemFields(w, status, title, detail, nil)
}

func writeProblemFields(w http.ResponseWriter, status int, title, detail string, fields []domain.FieldError) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	p := problem{Type: "about:blank", Title: title, Status: status, Detail: detail, InvalidParams: fields}
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses: validation
// 400, absent target 404, violated uniqueness 409, anything else 500.
func writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeProblemFields(w, http.StatusBadRequest, "Invalid input", "one or more fields are invalid", ve.Fields)
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "an unexpected error occurred")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handlers) listLandlords(w http.ResponseWriter, r *http.Request) {
	q := app.SearchQuery{
		Query:    r.URL.Query().Get("search"),
		Location: r.URL.Query().Get("location"),
		SortBy:   r.URL.Query().Get("sortBy"),
	}
	if fr := r.URL.Query().Get("filterRating"); fr != "" {
		n, err := strconv.Atoi(fr)
		if err != nil || n < 1 || n > 5 {
			writeProblem(w, http.StatusBadRequest, "Invalid filterRating", "filterRating must be an integer between 1 and 5")
			return
		}
		q.MinRating = n
	}

	landlords, err := h.Landlords.Search(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	if landlords == nil {
		landlords = []domain.Landlord{}
	}
	writeJSON(w, http.StatusOK, landlords)
}

func (h *Handlers) getLandlord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	landlord, err := h.Landlords.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, landlord)
}

func (h *Handlers) createLandlord(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Location string `json:"location"`
		Address  string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "request body must be valid JSON")
		return
	}
	landlord, err := h.Landlords.Create(r.Context(), app.CreateLandlordInput{
		Name:     body.Name,
		Location: body.Location,
		Address:  body.Address,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, landlord)
}

func (h *Handlers) listLandlordReviews(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	reviews, err := h.Reviews.ListByLandlord(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.Reviews.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *Handlers) createReview(w http.ResponseWriter, r *http.Request) {
	var body struct {
		LandlordID           int64  `json:"landlordId"`
		LandlordName         string `json:"landlordName"`
		PropertyAddress      string `json:"propertyAddress"`
		AuthorName           string `json:"authorName"`
		IsAnonymous          bool   `json:"isAnonymous"`
		OverallRating        int    `json:"overallRating"`
		DepositReturnRating  int    `json:"depositReturnRating"`
		ResponsivenessRating int    `json:"responsivenessRating"`
		EthicsRating         int    `json:"ethicsRating"`
		MaintenanceRating    int    `json:"maintenanceRating"`
		CommunicationRating  int    `json:"communicationRating"`
		Content              string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "request body must be valid JSON")
		return
	}
	review, err := h.Reviews.SubmitReview(r.Context(), app.SubmitReviewInput{
		LandlordID:           body.LandlordID,
		LandlordName:         body.LandlordName,
		PropertyAddress:      body.PropertyAddress,
		AuthorName:           body.AuthorName,
		IsAnonymous:          body.IsAnonymous,
		OverallRating:        body.OverallRating,
		DepositReturnRating:  body.DepositReturnRating,
		ResponsivenessRating: body.ResponsivenessRating,
		EthicsRating:         body.EthicsRating,
		MaintenanceRating:    body.MaintenanceRating,
		CommunicationRating:  body.CommunicationRating,
		Content:              body.Content,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *Handlers) castVote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	var body struct {
		IsHelpful *bool `json:"isHelpful"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.IsHelpful == nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "isHelpful is required and must be a boolean")
		return
	}
	if err := h.Reviews.CastVote(r.Context(), id, h.Identity(r), *body.IsHelpful); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Vote recorded successfully"})
}

func (h *Handlers) contribute(w http.ResponseWriter, r *http.Request) {
	var body struct {
		LandlordID    int64  `json:"landlordId"`
		SuggestedName string `json:"suggestedName"`
		HowYouKnow    string `json:"howYouKnow"`
		ContactInfo   string `json:"contactInfo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "request body must be valid JSON")
		return
	}
	contribution, err := h.Contributions.Submit(r.Context(), app.SubmitContributionInput{
		LandlordID:    body.LandlordID,
		SuggestedName: body.SuggestedName,
		HowYouKnow:    body.HowYouKnow,
		ContactInfo:   body.ContactInfo,
		ContributorID: h.Identity(r),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, contribution)
}

func (h *Handlers) enhancedSearch(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	location := r.URL.Query().Get("location")
	if search == "" || location == "" {
		writeProblem(w, http.StatusBadRequest, "Missing parameters", "search and location are required")
		return
	}
	landlords, err := h.Landlords.EnhancedSearch(r.Context(), search, location)
	if err != nil {
		writeError(w, err)
		return
	}
	if landlords == nil {
		landlords = []domain.Landlord{}
	}
	writeJSON(w, http.StatusOK, landlords)
}
