// Package geo implements rococo.GeoService over the seeded country table
package geo

import (
	"context"
	"strings"

	"github.com/platinummonkey/rococo/pkg/model"
	"github.com/platinummonkey/rococo/pkg/rpc"
	"github.com/platinummonkey/rococo/pkg/storage"
)

const entity = "country"

type Service struct {
	repo storage.CountryRepository
}

var _ rpc.GeoServer = (*Service)(nil)

func NewService(repo storage.CountryRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetCountry(ctx context.Context, in *rpc.IDRequest) (*model.Country, error) {
	country, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	return country, nil
}

func (s *Service) ListCountries(ctx context.Context, in *rpc.ListRequest) (*rpc.CountryPage, error) {
	page, err := s.repo.FindAll(ctx, strings.TrimSpace(in.Query), in.Pageable)
	if err != nil {
		return nil, rpc.ToStatus(err, entity)
	}
	return &page, nil
}
