package source

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ytcast/internal/models"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Search(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

func (m *mockProvider) ChannelDetails(ctx context.Context, id string) (*models.Source, error) {
	args := m.Called(ctx, id)
	src, _ := args.Get(0).(*models.Source)
	return src, args.Error(1)
}

func (m *mockProvider) PlaylistDetails(ctx context.Context, id string) (*models.Source, error) {
	args := m.Called(ctx, id)
	src, _ := args.Get(0).(*models.Source)
	return src, args.Error(1)
}

func (m *mockProvider) PlaylistVideos(ctx context.Context, playlistID string) ([]models.Video, error) {
	args := m.Called(ctx, playlistID)
	videos, _ := args.Get(0).([]models.Video)
	return videos, args.Error(1)
}
