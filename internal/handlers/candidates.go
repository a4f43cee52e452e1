package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/docparse"
	"github.com/hirepath/hirepath/internal/models"
	"github.com/hirepath/hirepath/internal/services"
	"github.com/hirepath/hirepath/pkg/errors"
	"github.com/hirepath/hirepath/pkg/response"
)

// Uploaded resumes and cover letters are capped at 10 MiB.
const maxDocumentSize = 10 << 20

type CandidateHandler struct {
	svc *services.CandidateService
}

func NewCandidateHandler(db *gorm.DB) (*CandidateHandler, error) {
	svc, err := services.NewCandidateService(db)
	if err != nil {
		return nil, err
	}
	return &CandidateHandler{svc: svc}, nil
}

type createCandidateRequest struct {
	FirstName         string   `json:"first_name" validate:"required,max=64"`
	LastName          string   `json:"last_name" validate:"required,max=64"`
	Email             string   `json:"email" validate:"required,email"`
	Phone             string   `json:"phone" validate:"omitempty,max=32"`
	Location          string   `json:"location" validate:"omitempty,max=128"`
	CurrentTitle      string   `json:"current_title" validate:"omitempty,max=128"`
	CurrentCompany    string   `json:"current_company" validate:"omitempty,max=128"`
	YearsOfExperience *int     `json:"years_of_experience" validate:"omitempty,gte=0,lte=60"`
	LinkedInURL       string   `json:"linkedin_url" validate:"omitempty,url"`
	PortfolioURL      string   `json:"portfolio_url" validate:"omitempty,url"`
	CoverLetter       string   `json:"cover_letter"`
	ExpectedSalary    *float64 `json:"expected_salary" validate:"omitempty,gte=0"`
	NoticePeriodDays  *int     `json:"notice_period_days" validate:"omitempty,gte=0"`
	Skills            []string `json:"skills"`
	Tags              []string `json:"tags"`
	Source            string   `json:"source" validate:"omitempty,max=64"`
	ReferrerID        string   `json:"referrer_id" validate:"omitempty,uuid"`
	Notes             string   `json:"notes"`
}

type updateCandidateRequest struct {
	FirstName         *string  `json:"first_name" validate:"omitempty,max=64"`
	LastName          *string  `json:"last_name" validate:"omitempty,max=64"`
	Phone             *string  `json:"phone" validate:"omitempty,max=32"`
	Location          *string  `json:"location" validate:"omitempty,max=128"`
	CurrentTitle      *string  `json:"current_title" validate:"omitempty,max=128"`
	CurrentCompany    *string  `json:"current_company" validate:"omitempty,max=128"`
	YearsOfExperience *int     `json:"years_of_experience" validate:"omitempty,gte=0,lte=60"`
	LinkedInURL       *string  `json:"linkedin_url" validate:"omitempty,url"`
	PortfolioURL      *string  `json:"portfolio_url" validate:"omitempty,url"`
	ExpectedSalary    *float64 `json:"expected_salary" validate:"omitempty,gte=0"`
	NoticePeriodDays  *int     `json:"notice_period_days" validate:"omitempty,gte=0"`
	Skills            []string `json:"skills"`
	Tags              []string `json:"tags"`
	Notes             *string  `json:"notes"`
}

type addNoteRequest struct {
	ApplicationID      string `json:"application_id" validate:"omitempty,uuid"`
	NoteType           string `json:"note_type" validate:"omitempty,oneof=general interview phone_call email feedback reminder"`
	Title              string `json:"title" validate:"omitempty,max=256"`
	Content            string `json:"content" validate:"required"`
	IsPrivate          bool   `json:"is_private"`
	VisibleToCandidate bool   `json:"visible_to_candidate"`
}

// POST /api/candidates
func (h *CandidateHandler) Create(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	var body createCandidateRequest
	if !bindAndValidate(c, &body) {
		return
	}

	input := services.CreateCandidateInput{
		FirstName:         body.FirstName,
		LastName:          body.LastName,
		Email:             body.Email,
		Phone:             body.Phone,
		Location:          body.Location,
		CurrentTitle:      body.CurrentTitle,
		CurrentCompany:    body.CurrentCompany,
		YearsOfExperience: body.YearsOfExperience,
		LinkedInURL:       body.LinkedInURL,
		PortfolioURL:      body.PortfolioURL,
		CoverLetter:       body.CoverLetter,
		ExpectedSalary:    body.ExpectedSalary,
		NoticePeriodDays:  body.NoticePeriodDays,
		Skills:            body.Skills,
		Tags:              body.Tags,
		Source:            body.Source,
		Notes:             body.Notes,
	}
	if body.ReferrerID != "" {
		input.ReferrerID = &body.ReferrerID
	}

	candidate, err := h.svc.Create(requestContext(c), scope, input)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, candidate)
}

// GET /api/candidates
func (h *CandidateHandler) List(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	page := parseIntQuery(c, "page", 1)
	perPage := parseIntQuery(c, "per_page", 50)

	candidates, total, err := h.svc.List(requestContext(c), scope, services.CandidateListOptions{
		Page:     page,
		PageSize: perPage,
		Filters: services.CandidateFilters{
			Search: c.Query("search"),
			Source: c.Query("source"),
			Tag:    c.Query("tag"),
		},
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, candidates, response.NewMeta(page, perPage, total))
}

// GET /api/candidates/:id
func (h *CandidateHandler) Get(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	candidate, err := h.svc.GetByID(requestContext(c), scope, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, candidate)
}

// PATCH /api/candidates/:id
func (h *CandidateHandler) Update(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	var body updateCandidateRequest
	if !bindAndValidate(c, &body) {
		return
	}

	candidate, err := h.svc.Update(requestContext(c), scope, c.Param("id"), services.UpdateCandidateInput{
		FirstName:         body.FirstName,
		LastName:          body.LastName,
		Phone:             body.Phone,
		Location:          body.Location,
		CurrentTitle:      body.CurrentTitle,
		CurrentCompany:    body.CurrentCompany,
		YearsOfExperience: body.YearsOfExperience,
		LinkedInURL:       body.LinkedInURL,
		PortfolioURL:      body.PortfolioURL,
		ExpectedSalary:    body.ExpectedSalary,
		NoticePeriodDays:  body.NoticePeriodDays,
		Skills:            body.Skills,
		Tags:              body.Tags,
		Notes:             body.Notes,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, candidate)
}

// POST /api/candidates/:id/notes
func (h *CandidateHandler) AddNote(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	var body addNoteRequest
	if !bindAndValidate(c, &body) {
		return
	}

	input := services.AddNoteInput{
		CandidateID:        c.Param("id"),
		NoteType:           models.NoteType(body.NoteType),
		Title:              body.Title,
		Content:            body.Content,
		IsPrivate:          body.IsPrivate,
		VisibleToCandidate: body.VisibleToCandidate,
	}
	if body.ApplicationID != "" {
		input.ApplicationID = &body.ApplicationID
	}

	note, err := h.svc.AddNote(requestContext(c), scope, input)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, note)
}

// GET /api/candidates/:id/notes
func (h *CandidateHandler) ListNotes(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	notes, err := h.svc.ListNotes(requestContext(c), scope, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, notes)
}

// DELETE /api/candidates/notes/:noteId
func (h *CandidateHandler) DeleteNote(c *gin.Context) {
	scope, ok := currentScope(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteNote(requestContext(c), scope, c.Param("noteId")); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// POST /api/candidates/parse-document
//
// Accepts a multipart upload and returns the extracted plain text so the
// client can prefill a candidate profile or cover letter field.
func (h *CandidateHandler) ParseDocument(c *gin.Context) {
	if _, ok := currentScope(c); !ok {
		return
	}

	file, header, err := c.Request.FormFile("document")
	if err != nil {
		response.Error(c, errors.NewBadRequest("document file is required"))
		return
	}
	defer file.Close()

	if header.Size > maxDocumentSize {
		response.Error(c, errors.NewBadRequest("document exceeds the 10 MiB limit"))
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, maxDocumentSize))
	if err != nil {
		response.Error(c, errors.ErrInternalServer.WithInternal(err))
		return
	}

	result, err := docparse.Extract(header.Filename, content)
	if err != nil {
		response.Error(c, errors.NewBadRequest(err.Error()))
		return
	}
	response.Success(c, http.StatusOK, result)
}
