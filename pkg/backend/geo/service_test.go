package geo

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/platinummonkey/rococo/pkg/model"
	"github.com/platinummonkey/rococo/pkg/rpc"
	"github.com/platinummonkey/rococo/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestGeoService(t *testing.T) {
	ctx := context.Background()
	france := model.Country{ID: uuid.New(), Name: "France", Code: "fr"}
	svc := NewService(memory.NewCountryRepository(france, model.Country{Name: "Finland", Code: "fi"}, model.Country{Name: "Japan", Code: "jp"}))

	got, err := svc.GetCountry(ctx, &rpc.IDRequest{ID: france.ID})
	require.NoError(t, err)
	assert.Equal(t, france, *got)

	_, err = svc.GetCountry(ctx, &rpc.IDRequest{ID: uuid.New()})
	assert.Equal(t, codes.NotFound, status.Code(err))

	page, err := svc.ListCountries(ctx, &rpc.ListRequest{Query: " f ", Pageable: model.Pageable{Sort: model.Sort{Column: "code", Direction: model.Desc}}})
	require.NoError(t, err)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "fr", page.Content[0].Code)
}
