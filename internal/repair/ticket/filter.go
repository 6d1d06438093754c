// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ticket

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/repairment/pkg/pointer"
)

// # Query Parameters

// Names of the triage filter query parameters.
const (
	ParamApplicationID = "applicationId"
	ParamCategoryID    = "categoryId"
	ParamFirstname     = "firstname"
	ParamLastname      = "lastname"
	ParamDateFrom      = "dateOfRegistrationFrom"
	ParamDateTo        = "dateOfRegistrationTo"
	ParamPriceFrom     = "suggestedPriceFrom"
	ParamPriceTo       = "suggestedPriceTo"
	ParamStatusID      = "reparationStatusId"
)

// Database-side wildcard sentinels. They never collide with stored data:
// ids and prices are never negative and no ticket predates year 1.
const (
	wildcardNumber = -1
	wildcardText   = ""
	wildcardDate   = "0001-01-01"
)

const dateLayout = "2006-01-02"

// RawFilter holds the nine filter values exactly as received.
type RawFilter struct {
	ApplicationID string
	CategoryID    string
	Firstname     string
	Lastname      string
	DateFrom      string
	DateTo        string
	PriceFrom     string
	PriceTo       string
	StatusID      string
}

// RawFilterFromQuery reads the filter from URL query values. Absent
// parameters become empty strings.
func RawFilterFromQuery(values url.Values) RawFilter {
	return RawFilter{
		ApplicationID: values.Get(ParamApplicationID),
		CategoryID:    values.Get(ParamCategoryID),
		Firstname:     values.Get(ParamFirstname),
		Lastname:      values.Get(ParamLastname),
		DateFrom:      values.Get(ParamDateFrom),
		DateTo:        values.Get(ParamDateTo),
		PriceFrom:     values.Get(ParamPriceFrom),
		PriceTo:       values.Get(ParamPriceTo),
		StatusID:      values.Get(ParamStatusID),
	}
}

// # Normalized Filter

// Filter is the normalized triage filter. A nil field is a wildcard.
//
// Rejected lists, in parameter order, the fields whose values could not be
// parsed. A filter with rejected fields matches no ticket.
type Filter struct {
	ApplicationID *int64
	CategoryID    *int64
	Firstname     *string
	Lastname      *string
	DateFrom      *time.Time
	DateTo        *time.Time
	PriceFrom     *float64
	PriceTo       *float64
	StatusID      *int64

	Rejected []string
}

// Unsatisfiable reports whether the filter can match nothing.
func (f Filter) Unsatisfiable() bool {
	return len(f.Rejected) > 0
}

// IsWildcard reports whether no field constrains the result.
func (f Filter) IsWildcard() bool {
	return f.ApplicationID == nil && f.CategoryID == nil && f.Firstname == nil &&
		f.Lastname == nil && f.DateFrom == nil && f.DateTo == nil && f.PriceFrom == nil &&
		f.PriceTo == nil && f.StatusID == nil && len(f.Rejected) == 0
}

// Normalize turns raw values into explicit optionals.
//
// It never fails. Empty strings, "0" and the database sentinels are
// wildcards; unparseable values are recorded in [Filter.Rejected].
// Normalize(f.Raw()) equals f for every normalized f.
func Normalize(raw RawFilter) Filter {
	var filter Filter
	reject := func(name string) { filter.Rejected = append(filter.Rejected, name) }

	filter.ApplicationID = normalizeID(raw.ApplicationID, ParamApplicationID, reject)
	filter.CategoryID = normalizeID(raw.CategoryID, ParamCategoryID, reject)
	filter.Firstname = normalizeName(raw.Firstname)
	filter.Lastname = normalizeName(raw.Lastname)
	filter.DateFrom = normalizeDate(raw.DateFrom, ParamDateFrom, reject)
	filter.DateTo = normalizeDate(raw.DateTo, ParamDateTo, reject)
	filter.PriceFrom = normalizePrice(raw.PriceFrom, ParamPriceFrom, reject)
	filter.PriceTo = normalizePrice(raw.PriceTo, ParamPriceTo, reject)
	filter.StatusID = normalizeID(raw.StatusID, ParamStatusID, reject)

	return filter
}

// rejectedValue is emitted by [Filter.Raw] for rejected fields so that
// normalizing again rejects them again.
const rejectedValue = "invalid"

// Raw renders the filter back into wire values.
func (f Filter) Raw() RawFilter {
	rejected := make(map[string]bool, len(f.Rejected))
	for _, name := range f.Rejected {
		rejected[name] = true
	}

	pick := func(name, value string) string {
		if rejected[name] {
			return rejectedValue
		}
		return value
	}

	return RawFilter{
		ApplicationID: pick(ParamApplicationID, formatID(f.ApplicationID)),
		CategoryID:    pick(ParamCategoryID, formatID(f.CategoryID)),
		Firstname:     formatName(f.Firstname),
		Lastname:      formatName(f.Lastname),
		DateFrom:      pick(ParamDateFrom, formatDate(f.DateFrom)),
		DateTo:        pick(ParamDateTo, formatDate(f.DateTo)),
		PriceFrom:     pick(ParamPriceFrom, formatPrice(f.PriceFrom)),
		PriceTo:       pick(ParamPriceTo, formatPrice(f.PriceTo)),
		StatusID:      pick(ParamStatusID, formatID(f.StatusID)),
	}
}

// # Query Boundary

// Params is the filter projected onto the positional parameters of the
// triage statement. Wildcards become the database sentinels.
type Params struct {
	ApplicationID int64
	CategoryID    int64
	Firstname     string
	Lastname      string
	DateFrom      string
	DateTo        string
	PriceFrom     float64
	PriceTo       float64
	StatusID      int64
	Unsatisfiable bool
}

// Params projects the filter onto query sentinels.
func (f Filter) Params() Params {
	params := Params{
		ApplicationID: pointer.Fallback(f.ApplicationID, wildcardNumber),
		CategoryID:    pointer.Fallback(f.CategoryID, wildcardNumber),
		Firstname:     pointer.Fallback(f.Firstname, wildcardText),
		Lastname:      pointer.Fallback(f.Lastname, wildcardText),
		DateFrom:      wildcardDate,
		DateTo:        wildcardDate,
		PriceFrom:     pointer.Fallback(f.PriceFrom, wildcardNumber),
		PriceTo:       pointer.Fallback(f.PriceTo, wildcardNumber),
		StatusID:      pointer.Fallback(f.StatusID, wildcardNumber),
		Unsatisfiable: f.Unsatisfiable(),
	}

	if f.DateFrom != nil {
		params.DateFrom = f.DateFrom.Format(dateLayout)
	}
	if f.DateTo != nil {
		params.DateTo = f.DateTo.Format(dateLayout)
	}

	return params
}

// Args returns the parameters in statement order ($1 .. $10).
func (p Params) Args() []any {
	return []any{
		p.ApplicationID,
		p.CategoryID,
		p.Firstname,
		p.Lastname,
		p.DateFrom,
		p.DateTo,
		p.PriceFrom,
		p.PriceTo,
		p.StatusID,
		p.Unsatisfiable,
	}
}

// # Field Rules

func isNumericWildcard(value string) bool {
	return value == "" || value == "0" || value == strconv.Itoa(wildcardNumber)
}

func normalizeID(value, name string, reject func(string)) *int64 {
	value = strings.TrimSpace(value)
	if isNumericWildcard(value) {
		return nil
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 0 {
		reject(name)
		return nil
	}
	return pointer.NonZero(id)
}

func normalizeName(value string) *string {
	return pointer.NonZero(norm.NFC.String(strings.TrimSpace(value)))
}

func normalizeDate(value, name string, reject func(string)) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" || value == wildcardDate {
		return nil
	}

	date, err := time.Parse(dateLayout, value)
	if err != nil {
		reject(name)
		return nil
	}
	return &date
}

func normalizePrice(value, name string, reject func(string)) *float64 {
	value = strings.TrimSpace(value)
	if isNumericWildcard(value) {
		return nil
	}

	price, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		reject(name)
		return nil
	}
	return pointer.NonZero(price)
}

func formatID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func formatName(name *string) string {
	return pointer.Val(name)
}

func formatDate(date *time.Time) string {
	if date == nil {
		return ""
	}
	return date.Format(dateLayout)
}

func formatPrice(price *float64) string {
	if price == nil {
		return ""
	}
	return strconv.FormatFloat(*price, 'f', -1, 64)
}
