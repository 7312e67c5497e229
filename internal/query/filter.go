package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shimrin23/GreenPulse/internal/shared/apperr"
)

// Params are the raw, user-supplied filter values shared by the planting list,
// leaderboard, map and stats endpoints. Empty fields are skipped.
type Params struct {
	Timeframe string // all, month, week
	Location  string // matches city, state or country
	City      string
	State     string
	Country   string
	TreeType  string
	Search    string // matches tree type, species, description, address
	Verified  *bool
	Bounds    string // "lat1,lng1,lat2,lng2"
	DateFrom  string
	DateTo    string
	PlantedBy string
}

// Filter is the normalized predicate set: AND-ed SQL conditions over the
// plantings table (alias p) plus their positional arguments.
type Filter struct {
	conds []string
	args  []any
}

// Build normalizes params into a Filter. Soft-deleted records are always
// excluded. now anchors the timeframe lower bounds.
func Build(p Params, now time.Time) (*Filter, error) {
	f := &Filter{}
	f.conds = append(f.conds, "p.is_active = TRUE")

	if p.Verified != nil {
		f.cond("p.is_verified = %s", *p.Verified)
	}

	switch p.Timeframe {
	case "", "all":
	case "month":
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		f.cond("p.created_at >= %s", first)
	case "week":
		f.cond("p.created_at >= %s", now.Add(-7*24*time.Hour))
	default:
		return nil, apperr.Validation("timeframe", "must be all, month or week")
	}

	if p.Location != "" {
		ph := f.bind(like(p.Location))
		f.conds = append(f.conds, fmt.Sprintf("(p.city ILIKE %s OR p.state ILIKE %s OR p.country ILIKE %s)", ph, ph, ph))
	}
	if p.City != "" {
		f.cond("p.city ILIKE %s", like(p.City))
	}
	if p.State != "" {
		f.cond("p.state ILIKE %s", like(p.State))
	}
	if p.Country != "" {
		f.cond("p.country ILIKE %s", like(p.Country))
	}
	if p.TreeType != "" {
		f.cond("p.tree_type ILIKE %s", like(p.TreeType))
	}
	if p.Search != "" {
		ph := f.bind(like(p.Search))
		f.conds = append(f.conds, fmt.Sprintf(
			"(p.tree_type ILIKE %s OR p.species ILIKE %s OR p.description ILIKE %s OR p.address ILIKE %s)",
			ph, ph, ph, ph))
	}
	if p.PlantedBy != "" {
		f.cond("p.user_id = %s", p.PlantedBy)
	}

	if p.Bounds != "" {
		b, err := ParseBounds(p.Bounds)
		if err != nil {
			return nil, err
		}
		f.cond("p.latitude >= %s", b.MinLat)
		f.cond("p.latitude <= %s", b.MaxLat)
		f.cond("p.longitude >= %s", b.MinLng)
		f.cond("p.longitude <= %s", b.MaxLng)
	}

	if p.DateFrom != "" {
		from, err := parseDate("date_from", p.DateFrom)
		if err != nil {
			return nil, err
		}
		f.cond("p.planting_date >= %s", from)
	}
	if p.DateTo != "" {
		to, err := parseDate("date_to", p.DateTo)
		if err != nil {
			return nil, err
		}
		f.cond("p.planting_date <= %s", to)
	}

	return f, nil
}

// And appends an extra condition; cond must contain one %s placeholder per value.
func (f *Filter) And(cond string, vals ...any) {
	f.cond(cond, vals...)
}

// Where renders the conditions as a WHERE clause.
func (f *Filter) Where() string {
	return "WHERE " + strings.Join(f.conds, " AND ")
}

// Bind registers an extra argument (e.g. LIMIT) and returns its placeholder.
func (f *Filter) Bind(v any) string {
	return f.bind(v)
}

func (f *Filter) Args() []any { return f.args }

func (f *Filter) cond(format string, vals ...any) {
	phs := make([]any, len(vals))
	for i, v := range vals {
		phs[i] = f.bind(v)
	}
	f.conds = append(f.conds, fmt.Sprintf(format, phs...))
}

func (f *Filter) bind(v any) string {
	f.args = append(f.args, v)
	return "$" + strconv.Itoa(len(f.args))
}

func like(s string) string {
	return "%" + s + "%"
}

type Bounds struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// ParseBounds parses a "lat1,lng1,lat2,lng2" viewport string, normalizing
// unordered corner pairs via min/max on each axis.
func ParseBounds(raw string) (Bounds, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return Bounds{}, apperr.Validation("bounds", "expected lat1,lng1,lat2,lng2")
	}
	nums := make([]float64, 4)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Bounds{}, apperr.Validation("bounds", "%q is not a number", part)
		}
		nums[i] = v
	}
	return Bounds{
		MinLat: min(nums[0], nums[2]),
		MaxLat: max(nums[0], nums[2]),
		MinLng: min(nums[1], nums[3]),
		MaxLng: max(nums[1], nums[3]),
	}, nil
}

func parseDate(field, raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperr.Validation(field, "%q is not a valid date", raw)
}

// PositiveInt parses a numeric query parameter, clamping to a minimum of 1.
// Empty input yields the default; non-numeric input is a validation error.
func PositiveInt(field, raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation(field, "%q is not an integer", raw)
	}
	if v < 1 {
		return 1, nil
	}
	return v, nil
}

// Bool is a convenience for building tri-state Verified params.
func Bool(b bool) *bool { return &b }
