package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"StockTrends/internal/collector"
	"StockTrends/internal/export"
	"StockTrends/internal/pipeline"
	"StockTrends/internal/recorder"
)

// APIController serves the JSON and export endpoints.
type APIController struct {
	runner  *pipeline.Runner
	tickers []string
	rec     recorder.Recorder
}

func NewAPIController(runner *pipeline.Runner, tickers []string, rec recorder.Recorder) *APIController {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &APIController{runner: runner, tickers: tickers, rec: rec}
}

// RegisterRoutes sets up the API routes under the given group.
func (ctrl *APIController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", ctrl.healthCheck)
	router.HEAD("/health", ctrl.healthCheck)
	router.GET("/stocks", ctrl.listStocks)
	router.GET("/run", ctrl.run)
	router.GET("/recommendations", ctrl.recommendations)
	router.GET("/forecast/:ticker/export", ctrl.exportForecast)
}

func (ctrl *APIController) healthCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (ctrl *APIController) listStocks(c *gin.Context) {
	handleSuccess(c, "Fetch Success", ctrl.tickers)
}

// run executes the pipeline. Section failures are part of a 200 response;
// only an invalid selection is rejected.
func (ctrl *APIController) run(c *gin.Context) {
	sel, err := selectionFromQuery(c, ctrl.tickers)
	if err != nil {
		handleError(c, "Invalid selection", err)
		return
	}
	out := ctrl.runner.Run(c.Request.Context(), sel)
	if out.Err != nil {
		handleError(c, "Invalid selection", out.Err)
		return
	}
	handleSuccess(c, "Run complete", out)
}

func (ctrl *APIController) recommendations(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			c.JSON(http.StatusBadRequest, Response{Success: false, Message: "limit must be between 1 and 500"})
			return
		}
		limit = n
	}
	events, err := ctrl.rec.RecentRecommendations(limit)
	if err != nil {
		handleError(c, "Failed to read recommendations", err)
		return
	}
	if events == nil {
		events = []recorder.RecommendationEvent{}
	}
	handleSuccess(c, "Fetch Success", events)
}

// exportForecast streams the forecast frame of one ticker as Parquet.
func (ctrl *APIController) exportForecast(c *gin.Context) {
	years := 1
	if v := c.Query("years"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			handleError(c, "Invalid selection", fmt.Errorf("%w: years must be an integer", collector.ErrInvalidSelection))
			return
		}
		years = n
	}

	out := ctrl.runner.Run(c.Request.Context(), pipeline.Selection{Primary: c.Param("ticker"), HorizonYears: years})
	if out.Err != nil {
		handleError(c, "Invalid selection", out.Err)
		return
	}
	if !out.Primary.OK() {
		handleError(c, "Forecast unavailable", out.Primary.Err)
		return
	}

	frame := out.Primary.Frame
	c.Header("Content-Type", "application/vnd.apache.parquet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName(frame, time.Now())))
	c.Status(http.StatusOK)
	if err := export.WriteForecast(c.Writer, frame); err != nil {
		// Headers are already sent; the client sees a truncated body.
		_ = c.Error(err)
	}
}
