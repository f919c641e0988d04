// Package query translates flat request parameters into paginated,
// sorted MongoDB list queries. The same machinery backs the property,
// review and user list endpoints; only the filter fields differ.
package query

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Pagination holds a validated page/limit pair.
type Pagination struct {
	Page  int
	Limit int
}

// ParsePagination reads "page" and "limit" from the query string.
// Non-numeric, zero or negative values fall back to the defaults (page 1,
// the caller's limit) rather than propagating into the skip computation.
func ParsePagination(values url.Values, defaultLimit int) Pagination {
	p := Pagination{Page: 1, Limit: defaultLimit}

	if raw := values.Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 0 {
			p.Page = page
		}
	}
	if raw := values.Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			p.Limit = limit
		}
	}
	return p
}

// Skip returns the number of documents to skip for the current page.
func (p Pagination) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// TotalPages returns ceil(total/limit).
func (p Pagination) TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}

// IsSentinel reports whether v is absent or one of the "no filter" sentinel
// values accepted by the list endpoints.
func IsSentinel(v string) bool {
	return v == "" || v == "all" || v == "any"
}

// sortFields maps the JSON field names clients pass in sortBy to the bson
// names documents are stored under. It doubles as the whitelist: anything
// outside the map sorts by the caller's default field.
var sortFields = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"price":     "price",
	"rating":    "rating",
	"views":     "views",
	"bedrooms":  "bedrooms",
	"area":      "area",
	"title":     "title",
	"helpful":   "helpful",
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
	"status":    "status",
}

// SortSpec builds a Mongo sort document from sortBy/sortOrder parameters.
// sortBy is the client-facing JSON name; unknown or empty values fall back
// to defaultField (already a bson name). Everything except "asc" sorts
// descending.
func SortSpec(sortBy, sortOrder, defaultField string) bson.D {
	field, ok := sortFields[sortBy]
	if !ok {
		field = defaultField
	}
	order := -1
	if sortOrder == "asc" {
		order = 1
	}
	return bson.D{{Key: field, Value: order}}
}

// CaseInsensitive builds a case-insensitive substring predicate.
func CaseInsensitive(substr string) bson.M {
	return bson.M{"$regex": substr, "$options": "i"}
}

// FloatRange builds a numeric range predicate from optional min/max strings.
// It returns false when neither bound parses to a number.
func FloatRange(min, max string) (bson.M, bool) {
	rng := bson.M{}
	if min != "" {
		if v, err := strconv.ParseFloat(min, 64); err == nil {
			rng["$gte"] = v
		}
	}
	if max != "" {
		if v, err := strconv.ParseFloat(max, 64); err == nil {
			rng["$lte"] = v
		}
	}
	if len(rng) == 0 {
		return nil, false
	}
	return rng, true
}

// FindPage runs the paginated find plus an unpaginated count over the same
// filter, decoding the page into results (a pointer to a slice). The two
// queries are independent; under concurrent writes the count and the page
// may disagree, which the list endpoints accept.
func FindPage(ctx context.Context, coll *mongo.Collection, filter bson.M, sort bson.D, p Pagination, results interface{}) (int64, error) {
	opts := options.Find().
		SetSort(sort).
		SetSkip(p.Skip()).
		SetLimit(int64(p.Limit))

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return 0, fmt.Errorf("failed to execute list query: %w", err)
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, results); err != nil {
		return 0, fmt.Errorf("failed to decode list results: %w", err)
	}

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count list results: %w", err)
	}
	return total, nil
}
