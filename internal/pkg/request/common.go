package request

import "strings"

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required"`
}

// Normalize trims surrounding whitespace from the ID.
func (r *ByIDRequest) Normalize() {
	r.ID = strings.TrimSpace(r.ID)
}
