package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/jumak-backend/internal/http/response"
	"github.com/yungbote/jumak-backend/internal/platform/ctxutil"
	"github.com/yungbote/jumak-backend/internal/services"
	"github.com/yungbote/jumak-backend/internal/taste"
)

type TasteHandler struct {
	taste services.TasteService
}

func NewTasteHandler(tasteService services.TasteService) *TasteHandler {
	return &TasteHandler{taste: tasteService}
}

type answersRequest struct {
	Answers taste.Answers `json:"answers"`
}

func bindAnswers(c *gin.Context) (taste.Answers, bool) {
	var req answersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return nil, false
	}
	if req.Answers == nil {
		req.Answers = taste.Answers{}
	}
	return req.Answers, true
}

func currentUserID(c *gin.Context) uuid.UUID {
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		return rd.UserID
	}
	return uuid.Nil
}

// GET /api/taste/questions
func (h *TasteHandler) ListQuestions(c *gin.Context) {
	response.RespondOK(c, gin.H{"questions": h.taste.Questions()})
}

// GET /api/taste/types
func (h *TasteHandler) ListTypes(c *gin.Context) {
	response.RespondOK(c, gin.H{"types": h.taste.Types()})
}

// GET /api/taste/types/:label
func (h *TasteHandler) GetType(c *gin.Context) {
	tv, err := h.taste.Type(c.Param("label"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"type": tv})
}

// POST /api/taste/classify
// body: { "answers": { "q1": "a", ... } }
func (h *TasteHandler) Classify(c *gin.Context) {
	answers, ok := bindAnswers(c)
	if !ok {
		return
	}
	out, err := h.taste.Classify(c.Request.Context(), answers)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"result": out})
}

// POST /api/taste/quiz
func (h *TasteHandler) SubmitQuiz(c *gin.Context) {
	answers, ok := bindAnswers(c)
	if !ok {
		return
	}
	out, err := h.taste.SubmitQuiz(c.Request.Context(), currentUserID(c), answers)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// POST /api/taste/retake/preview
func (h *TasteHandler) PreviewRetake(c *gin.Context) {
	answers, ok := bindAnswers(c)
	if !ok {
		return
	}
	out, err := h.taste.PreviewRetake(c.Request.Context(), currentUserID(c), answers)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/taste/retake
func (h *TasteHandler) CommitRetake(c *gin.Context) {
	answers, ok := bindAnswers(c)
	if !ok {
		return
	}
	out, err := h.taste.CommitRetake(c.Request.Context(), currentUserID(c), answers)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/taste/profile
func (h *TasteHandler) GetProfile(c *gin.Context) {
	view, err := h.taste.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": view})
}

// GET /api/taste/profile/card.png
func (h *TasteHandler) GetCard(c *gin.Context) {
	png, err := h.taste.RenderCard(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=60")
	c.Data(http.StatusOK, "image/png", png)
}
