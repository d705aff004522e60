package painting

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/platinummonkey/rococo/pkg/model"
	"github.com/platinummonkey/rococo/pkg/rpc"
	"github.com/platinummonkey/rococo/pkg/rpc/rpctest"
	"github.com/platinummonkey/rococo/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func newTestClient(t *testing.T) *rpc.PaintingClient {
	t.Helper()
	svc := NewService(memory.NewPaintingRepository(), nil)
	conn := rpctest.Serve(t, nil, func(s grpc.ServiceRegistrar) { rpc.RegisterPaintingServer(s, svc) })
	return rpc.NewPaintingClient(conn)
}

func TestPaintingService_CreateKeepsReferencesOnly(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	artistID, museumID := uuid.New(), uuid.New()

	created, err := client.CreatePainting(ctx, &model.Painting{
		Title:       "Water Lilies",
		Description: "Series of oil paintings",
		Artist:      model.Artist{ID: artistID, Name: "Claude Monet"},
		Museum:      &model.Museum{ID: museumID, Title: "Orangerie"},
	})
	require.NoError(t, err)
	assert.Empty(t, created.Artist.Name)

	got, err := client.GetPainting(ctx, &rpc.IDRequest{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, artistID, got.Artist.ID)
	require.NotNil(t, got.Museum)
	assert.Equal(t, museumID, got.Museum.ID)
}

func TestPaintingService_MuseumIsOptional(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	created, err := client.CreatePainting(ctx, &model.Painting{Title: "Private piece", Artist: model.Artist{ID: uuid.New()}})
	require.NoError(t, err)

	got, err := client.GetPainting(ctx, &rpc.IDRequest{ID: created.ID})
	require.NoError(t, err)
	assert.Nil(t, got.Museum)
}

func TestPaintingService_Validation(t *testing.T) {
	client := newTestClient(t)

	_, err := client.CreatePainting(context.Background(), &model.Painting{Title: "No artist"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.ListPaintingsByArtist(context.Background(), &rpc.ListByArtistRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestPaintingService_ListByArtist(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	monet, klimt := uuid.New(), uuid.New()

	for i, title := range []string{"Impression, Sunrise", "Haystacks", "The Kiss"} {
		artistID := monet
		if i == 2 {
			artistID = klimt
		}
		_, err := client.CreatePainting(ctx, &model.Painting{Title: title, Artist: model.Artist{ID: artistID}})
		require.NoError(t, err)
	}

	page, err := client.ListPaintingsByArtist(ctx, &rpc.ListByArtistRequest{ArtistID: monet, Pageable: model.Pageable{Size: 10}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalElements)
	assert.Equal(t, "Haystacks", page.Content[0].Title)

	page, err = client.ListPaintings(ctx, &rpc.ListRequest{Query: "kiss"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalElements)
}

func TestPaintingService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	created, err := client.CreatePainting(ctx, &model.Painting{Title: "Sketch", Artist: model.Artist{ID: uuid.New()}, Photo: "data:image/png;base64,AAAA"})
	require.NoError(t, err)

	updated, err := client.UpdatePainting(ctx, &model.Painting{ID: created.ID, Title: "Study", Artist: created.Artist})
	require.NoError(t, err)
	assert.Equal(t, "Study", updated.Title)
	assert.Equal(t, "data:image/png;base64,AAAA", updated.Photo)

	_, err = client.DeletePainting(ctx, &rpc.IDRequest{ID: created.ID})
	require.NoError(t, err)
	_, err = client.GetPainting(ctx, &rpc.IDRequest{ID: created.ID})
	assert.Equal(t, codes.NotFound, status.Code(err))
}
