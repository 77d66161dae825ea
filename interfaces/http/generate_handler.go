package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clipflow/domain/dto"
	"clipflow/infrastructure/logger"
	"clipflow/usecase"
)

type IGenerateHandler interface {
	GenerateVideos(c *gin.Context)
	AdjustScript(c *gin.Context)
}

type GenerateHandler struct {
	GenerateUsecase usecase.IGenerateUsecase
}

func NewGenerateHandler(generateUsecase usecase.IGenerateUsecase) IGenerateHandler {
	return &GenerateHandler{GenerateUsecase: generateUsecase}
}

// GenerateVideos creates a batch of scheduled videos for a project
func (h *GenerateHandler) GenerateVideos(c *gin.Context) {
	var res dto.Res
	projectID := c.Param("projectId")
	var req dto.GenerateVideosRequest
	// Body is optional; count falls back to the default batch of ten
	_ = c.ShouldBindJSON(&req)

	resp, err := h.GenerateUsecase.GenerateVideos(c.Request.Context(), projectID, req.Count)
	if err != nil {
		logger.GetLogger().WithField("project_id", projectID).WithField("error", err).Error("Video generation failed")
		res.ResponseCode = "500"
		res.ResponseMessage = "Internal Server Error"
		c.JSON(http.StatusInternalServerError, res)
		return
	}
	res.ResponseCode = "200"
	res.ResponseMessage = "OK"
	res.Data = resp
	c.JSON(http.StatusOK, res)
}

// AdjustScript rewrites one video's script per the caller's request
func (h *GenerateHandler) AdjustScript(c *gin.Context) {
	var res dto.Res
	videoID := c.Param("videoId")
	var req dto.AdjustScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		res.ResponseCode = "400"
		res.ResponseMessage = "user_request is required"
		c.JSON(http.StatusBadRequest, res)
		return
	}

	resp, err := h.GenerateUsecase.AdjustScript(c.Request.Context(), videoID, req.UserRequest)
	if err != nil {
		logger.GetLogger().WithField("video_id", videoID).WithField("error", err).Error("Script adjustment failed")
		res.ResponseCode = "500"
		res.ResponseMessage = "Internal Server Error"
		c.JSON(http.StatusInternalServerError, res)
		return
	}
	res.ResponseCode = "200"
	res.ResponseMessage = "OK"
	res.Data = resp
	c.JSON(http.StatusOK, res)
}
