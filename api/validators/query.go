package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/Spart911/southclub-storefront/pkg/errors"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// Pagination reads the standard page/size query pair.
func Pagination(r *http.Request) (page, size int, err error) {
	page, err = ParseQueryInt(r, "page", 1, 1, 10000)
	if err != nil {
		return 0, 0, err
	}
	size, err = ParseQueryInt(r, "size", 10, 1, 100)
	if err != nil {
		return 0, 0, err
	}
	return page, size, nil
}
