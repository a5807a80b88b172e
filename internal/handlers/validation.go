package handlers

import (
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Team and player names: letters, spaces, hyphens, periods, apostrophes.
var namePattern = regexp.MustCompile(`^[\p{L}\s\-.']+$`)

const nameRule = "required,min=1,max=100,teamname"

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("teamname", func(fl validator.FieldLevel) bool {
		return namePattern.MatchString(fl.Field().String())
	})
	return v
}

// nameParam reads and validates a name URL parameter, writing a 400 on
// failure.
func (h *Handler) nameParam(w http.ResponseWriter, r *http.Request, key string) (string, bool) {
	raw := chi.URLParam(r, key)
	name, err := url.PathUnescape(raw)
	if err != nil {
		name = raw
	}
	name = strings.TrimSpace(name)
	if err := h.validator.Var(name, nameRule); err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "Invalid "+key+" name")
		return "", false
	}
	return name, true
}

// queryFlag parses an optional boolean query parameter.
func queryFlag(q url.Values, key string, def bool) (bool, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return def, nil
	}
	return strconv.ParseBool(v)
}

// queryLimit parses ?limit= within [1, max], defaulting to def.
func queryLimit(q url.Values, def, max int) (int, bool) {
	v := q.Get("limit")
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > max {
		return 0, false
	}
	return n, true
}
