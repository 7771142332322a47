package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// filterInput is the wire form of a filter, read either from the query string
// or from the datastar signals of the same names.
type filterInput struct {
	Start    string `json:"start" validate:"omitempty,datetime=2006-01-02"`
	End      string `json:"end" validate:"omitempty,datetime=2006-01-02"`
	Manager  string `json:"manager" validate:"max=200"`
	Customer string `json:"customer" validate:"max=400"`
}

// ParseFilter builds the filter for a request. Missing dates fall back to the
// month containing now. A reversed range is accepted and yields empty panels.
func ParseFilter(r *http.Request, now time.Time) (models.Filter, error) {
	var in filterInput

	if isDatastarRequest(r) {
		if err := datastar.ReadSignals(r, &in); err != nil {
			return models.Filter{}, errors.BadRequestWrap(err, "could not read filter signals")
		}
	} else {
		q := r.URL.Query()
		in = filterInput{
			Start:    q.Get("start"),
			End:      q.Get("end"),
			Manager:  q.Get("manager"),
			Customer: q.Get("customer"),
		}
	}

	in.Start = strings.TrimSpace(in.Start)
	in.End = strings.TrimSpace(in.End)

	if err := validate.Struct(in); err != nil {
		return models.Filter{}, errors.ValidationWrap(err, describeValidation(err))
	}

	f := models.CurrentMonth(now)
	f.Manager = in.Manager
	f.Customer = in.Customer

	// Already validated, so parsing cannot fail.
	if in.Start != "" {
		f.Start, _ = time.Parse(models.DateLayout, in.Start)
	}
	if in.End != "" {
		f.End, _ = time.Parse(models.DateLayout, in.End)
	}

	return f, nil
}

func isDatastarRequest(r *http.Request) bool {
	return r.Header.Get("Datastar-Request") == "true"
}

func describeValidation(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "invalid filter"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD form", strings.ToLower(fe.Field()))
	case "max":
		return fmt.Sprintf("%s is too long", strings.ToLower(fe.Field()))
	default:
		return fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field()))
	}
}
