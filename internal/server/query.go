package server

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"StockTrends/internal/collector"
	"StockTrends/internal/pipeline"
)

const dateLayout = "2006-01-02"

// runQuery mirrors the dashboard widgets.
type runQuery struct {
	Stock   string `form:"stock"`
	Years   int    `form:"years,default=1"`
	Compare bool   `form:"compare"`
	Stock2  string `form:"stock2"`
	From    string `form:"from"`
	To      string `form:"to"`
}

func parseDate(name, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", collector.ErrInvalidSelection, name)
	}
	return t, nil
}

// selectionFromQuery builds a selection from query parameters. Missing
// tickers fall back to the first and second configured stocks.
func selectionFromQuery(c *gin.Context, tickers []string) (pipeline.Selection, error) {
	var q runQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return pipeline.Selection{}, fmt.Errorf("%w: %v", collector.ErrInvalidSelection, err)
	}
	if q.Stock == "" && len(tickers) > 0 {
		q.Stock = tickers[0]
	}
	if q.Stock2 == "" && q.Compare {
		q.Stock2 = q.Stock
		if len(tickers) > 1 {
			q.Stock2 = tickers[1]
		}
	}

	from, err := parseDate("from", q.From)
	if err != nil {
		return pipeline.Selection{}, err
	}
	to, err := parseDate("to", q.To)
	if err != nil {
		return pipeline.Selection{}, err
	}
	return pipeline.Selection{
		Primary:      q.Stock,
		HorizonYears: q.Years,
		Compare:      q.Compare,
		Secondary:    q.Stock2,
		From:         from,
		To:           to,
	}.Normalized(), nil
}
