package dto

// CompanySearchRequest is the autocomplete query.
type CompanySearchRequest struct {
	Query string `form:"q" validate:"omitempty,max=100"`
}
