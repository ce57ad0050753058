package services

import (
	"context"

	"job-tracker/internal/models"
	"job-tracker/internal/transport/dto"
)

type companyService struct {
	directory CompanyDirectory
}

func NewCompanyService(directory CompanyDirectory) CompanyService {
	return &companyService{directory: directory}
}

// Search returns autocomplete candidates; it never fails.
func (s *companyService) Search(ctx context.Context, req *dto.CompanySearchRequest) []models.DirectoryCompany {
	if s.directory == nil {
		return []models.DirectoryCompany{}
	}
	return s.directory.Suggest(ctx, req.Query)
}
