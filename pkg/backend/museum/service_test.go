package museum

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

func newMuseum(title string) *model.Museum {
	return &model.Museum{
		Title:       title,
		Description: "A large museum",
		Geo:         model.Geo{City: "Paris", Country: model.Country{ID: uuid.New(), Name: "France"}},
	}
}

func TestMuseumService_CreateStoresCountryID(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewMuseumRepository(), nil)

	in := newMuseum("Louvre")
	created, err := svc.CreateMuseum(ctx, in)
	require.NoError(t, err)

	got, err := svc.GetMuseum(ctx, &rpc.IDRequest{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, in.Geo.Country.ID, got.Geo.Country.ID)
	assert.Empty(t, got.Geo.Country.Name)
	assert.Equal(t, "Paris", got.Geo.City)
}

func TestMuseumService_CreateRequiresCountry(t *testing.T) {
	svc := NewService(memory.NewMuseumRepository(), nil)

	in := newMuseum("Prado")
	in.Geo.Country.ID = uuid.Nil
	_, err := svc.CreateMuseum(context.Background(), in)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestMuseumService_UpdateDuplicateTitle(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewMuseumRepository(), nil)

	_, err := svc.CreateMuseum(ctx, newMuseum("Orsay"))
	require.NoError(t, err)
	other, err := svc.CreateMuseum(ctx, newMuseum("Hermitage"))
	require.NoError(t, err)

	renamed := newMuseum("Orsay")
	renamed.ID = other.ID
	_, err = svc.UpdateMuseum(ctx, renamed)
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
}

func TestMuseumService_UpdateUnknown(t *testing.T) {
	svc := NewService(memory.NewMuseumRepository(), nil)

	in := newMuseum("Uffizi")
	in.ID = uuid.New()
	_, err := svc.UpdateMuseum(context.Background(), in)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestMuseumService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewMuseumRepository(), nil)

	created, err := svc.CreateMuseum(ctx, newMuseum("Tate Modern"))
	require.NoError(t, err)
	_, err = svc.CreateMuseum(ctx, newMuseum("Rijksmuseum"))
	require.NoError(t, err)

	page, err := svc.ListMuseums(ctx, &rpc.ListRequest{Query: "tate"})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)

	_, err = svc.DeleteMuseum(ctx, &rpc.IDRequest{ID: created.ID})
	require.NoError(t, err)

	page, err = svc.ListMuseums(ctx, &rpc.ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalElements)
}
