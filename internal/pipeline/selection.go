package pipeline

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"StockTrends/internal/collector"
)

// Horizon slider bounds, in years.
const (
	MinYears = 1
	MaxYears = 4
)

// Selection is the complete user input for one run.
type Selection struct {
	Primary      string    `json:"stock" validate:"required"`
	HorizonYears int       `json:"years" validate:"min=1,max=4"`
	Compare      bool      `json:"compare"`
	Secondary    string    `json:"stock2,omitempty" validate:"required_if=Compare true"`
	From         time.Time `json:"from,omitempty"`
	To           time.Time `json:"to,omitempty"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func selectionValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Normalized returns a copy with upper-cased tickers. The secondary ticker
// is cleared when comparison is off.
func (s Selection) Normalized() Selection {
	s.Primary = strings.ToUpper(strings.TrimSpace(s.Primary))
	s.Secondary = strings.ToUpper(strings.TrimSpace(s.Secondary))
	if !s.Compare {
		s.Secondary = ""
	}
	return s
}

// Validate checks the selection's form constraints. Membership in the stock
// list is checked by the loader.
func (s Selection) Validate() error {
	if err := selectionValidator().Struct(s); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed %q", collector.ErrInvalidSelection, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", collector.ErrInvalidSelection, err)
	}
	if !s.From.IsZero() && !s.To.IsZero() && s.To.Before(s.From) {
		return fmt.Errorf("%w: window ends before it starts", collector.ErrInvalidSelection)
	}
	return nil
}
