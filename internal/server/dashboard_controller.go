package server

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"StockTrends/internal/chart"
	"StockTrends/internal/pipeline"
	"StockTrends/internal/presenter"
)

// figureView is one chart ready for inline rendering.
type figureView struct {
	Title string
	SVG   template.HTML
	Err   string
}

type sectionView struct {
	*pipeline.StockSection
	RawChart      *figureView
	ForecastChart *figureView
	Components    []figureView
}

type comparisonView struct {
	*pipeline.ComparisonSection
	Chart *figureView
}

type pageView struct {
	Tickers         []string
	Years           []int
	Selection       pipeline.Selection
	From, To        string
	Error           string
	Sections        []sectionView
	Comparison      *comparisonView
	RawColumns      []string
	ForecastColumns []string
}

// DashboardController renders the HTML dashboard.
type DashboardController struct {
	runner  *pipeline.Runner
	tickers []string
}

func NewDashboardController(runner *pipeline.Runner, tickers []string) *DashboardController {
	return &DashboardController{runner: runner, tickers: tickers}
}

// RegisterRoutes sets up the dashboard page.
func (ctrl *DashboardController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/", ctrl.index)
}

func (ctrl *DashboardController) index(c *gin.Context) {
	page := pageView{
		Tickers:         ctrl.tickers,
		RawColumns:      presenter.RawColumns,
		ForecastColumns: presenter.ForecastColumns,
	}
	for y := pipeline.MinYears; y <= pipeline.MaxYears; y++ {
		page.Years = append(page.Years, y)
	}

	sel, err := selectionFromQuery(c, ctrl.tickers)
	page.Selection = sel
	page.From, page.To = c.Query("from"), c.Query("to")
	if err != nil {
		page.Error = err.Error()
		c.HTML(http.StatusBadRequest, "dashboard.html", page)
		return
	}

	out := ctrl.runner.Run(c.Request.Context(), sel)
	if out.Err != nil {
		page.Error = out.Err.Error()
		c.HTML(http.StatusBadRequest, "dashboard.html", page)
		return
	}
	for _, s := range []*pipeline.StockSection{out.Primary, out.Secondary} {
		if s != nil {
			page.Sections = append(page.Sections, newSectionView(s))
		}
	}
	if out.Comparison != nil {
		cv := &comparisonView{ComparisonSection: out.Comparison}
		if out.Comparison.Figure != nil {
			cv.Chart = renderFigure(*out.Comparison.Figure)
		}
		page.Comparison = cv
	}
	c.HTML(http.StatusOK, "dashboard.html", page)
}

func newSectionView(s *pipeline.StockSection) sectionView {
	v := sectionView{StockSection: s}
	if s.Raw != nil {
		v.RawChart = renderFigure(s.Raw.Figure)
	}
	if s.Forecast != nil {
		v.ForecastChart = renderFigure(s.Forecast.Figure)
		for _, f := range s.Forecast.Components {
			v.Components = append(v.Components, *renderFigure(f))
		}
	}
	return v
}

// renderFigure draws fig as inline SVG. Render failures are shown in place
// of the chart.
func renderFigure(fig chart.Figure) *figureView {
	fv := &figureView{Title: fig.Title}
	svg, err := chart.RenderSVG(fig, chart.DefaultWidth, chart.DefaultHeight)
	if err != nil {
		log.Error().Err(err).Str("figure", fig.Title).Msg("render figure")
		fv.Err = err.Error()
		return fv
	}
	// Drop the XML prolog so the document can be inlined.
	if i := bytes.Index(svg, []byte("<svg")); i > 0 {
		svg = svg[i:]
	}
	fv.SVG = template.HTML(svg)
	return fv
}
