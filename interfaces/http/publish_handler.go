package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clipflow/domain/dto"
	"clipflow/domain/repository"
	"clipflow/infrastructure/logger"
	"clipflow/usecase"
)

type IPublishHandler interface {
	RunNow(c *gin.Context)
	LastRun(c *gin.Context)
}

type PublishHandler struct {
	PublishUsecase usecase.IPublishUsecase
	ReportCache    repository.IReportCache
}

// NewPublishHandler builds the publish endpoints. reportCache may be nil when
// no cache is configured; LastRun then always reports not found.
func NewPublishHandler(publishUsecase usecase.IPublishUsecase, reportCache repository.IReportCache) IPublishHandler {
	return &PublishHandler{PublishUsecase: publishUsecase, ReportCache: reportCache}
}

// RunNow triggers one publish pass immediately and returns its report
func (h *PublishHandler) RunNow(c *gin.Context) {
	var res dto.Res
	report, err := h.PublishUsecase.RunOnce(c.Request.Context())
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Publish run failed")
		res.ResponseCode = "500"
		res.ResponseMessage = "Internal Server Error"
		c.JSON(http.StatusInternalServerError, res)
		return
	}
	res.ResponseCode = "200"
	res.ResponseMessage = "OK"
	res.Data = report
	c.JSON(http.StatusOK, res)
}

// LastRun returns the most recent run report, if one is cached
func (h *PublishHandler) LastRun(c *gin.Context) {
	var res dto.Res
	if h.ReportCache == nil {
		res.ResponseCode = "404"
		res.ResponseMessage = "No run report available"
		c.JSON(http.StatusNotFound, res)
		return
	}
	report, err := h.ReportCache.GetLastRun(c.Request.Context())
	if err != nil || report == nil {
		res.ResponseCode = "404"
		res.ResponseMessage = "No run report available"
		c.JSON(http.StatusNotFound, res)
		return
	}
	res.ResponseCode = "200"
	res.ResponseMessage = "OK"
	res.Data = report
	c.JSON(http.StatusOK, res)
}
