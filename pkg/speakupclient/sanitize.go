package speakupclient

import (
	"strconv"
	"strings"

	"github.com/openhrstack/speakup_app/internal/dto"
)

// RawFilters holds filter values exactly as a UI control surface produces
// them: strings from inputs, numbers from selects, nil for untouched fields.
type RawFilters struct {
	IsAnonymous        any
	CompanyID          any
	StatusID           any
	TypeID             any
	CommonSearchString any
}

const unsetFilter = -1

// SanitizeFilters normalizes raw control values into wire-ready search
// params. Numeric selectors become ints, with -1 standing in for anything
// missing or unparseable; the free-text query is trimmed.
func SanitizeFilters(raw RawFilters) dto.SearchParams {
	return dto.SearchParams{
		IsAnonymous:        coerceInt(raw.IsAnonymous),
		CompanyID:          coerceInt(raw.CompanyID),
		StatusID:           coerceInt(raw.StatusID),
		TypeID:             coerceInt(raw.TypeID),
		CommonSearchString: coerceString(raw.CommonSearchString),
	}
}

func coerceInt(v any) int {
	switch n := v.(type) {
	case nil:
		return unsetFilter
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return unsetFilter
		}
		parsed, err := strconv.Atoi(s)
		if err != nil {
			return unsetFilter
		}
		return parsed
	default:
		return unsetFilter
	}
}

func coerceString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
