package services

import (
	"context"
	"math"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"itinera/internal/discovery"
	"itinera/internal/repositories"
	"itinera/pkg/logger"
	mem "itinera/pkg/memcache"
	"itinera/pkg/utils"
)

const MaxFeedLimit = 100

type FeedServiceInterface interface {
	Feed(ctx context.Context, limit int) []discovery.FeedItem
	FeedByDestination(ctx context.Context, destination string, limit int) []discovery.FeedItem
	// RecordVideoView bumps the view counter and remembers the video as the
	// session's referral pointer.
	RecordVideoView(ctx context.Context, sessionKey string, videoID uuid.UUID) (*discovery.Referral, error)
}

type FeedService struct {
	catalogService  CatalogServiceInterface
	videoRepository repositories.CreatorVideoRepository
	referrals       mem.ReferralStore
}

func NewFeedService(
	catalogService CatalogServiceInterface,
	videoRepository repositories.CreatorVideoRepository,
	referrals mem.ReferralStore,
) FeedServiceInterface {
	return &FeedService{
		catalogService:  catalogService,
		videoRepository: videoRepository,
		referrals:       referrals,
	}
}

func (s *FeedService) Feed(ctx context.Context, limit int) []discovery.FeedItem {
	if limit <= 0 {
		return []discovery.FeedItem{}
	}

	var places []discovery.DiscoveredPlace
	var videos []discovery.Video

	var g errgroup.Group
	g.Go(func() error {
		places = s.catalogService.FeaturedPlaces(ctx, limit)
		return nil
	})
	g.Go(func() error {
		rows, err := s.videoRepository.ListFeatured(ctx, videoCap(limit))
		if err != nil {
			logger.LogError(logger.GetLogger(), "services", "Feed", "videoRepository.ListFeatured", nil, err)
			return nil
		}
		for i := range rows {
			videos = append(videos, rows[i].ToVideo())
		}
		return nil
	})
	_ = g.Wait()

	return discovery.Compose(places, videos, limit)
}

func (s *FeedService) FeedByDestination(ctx context.Context, destination string, limit int) []discovery.FeedItem {
	if limit <= 0 {
		return []discovery.FeedItem{}
	}

	var places []discovery.DiscoveredPlace
	var videos []discovery.Video

	var g errgroup.Group
	g.Go(func() error {
		places = s.catalogService.Aggregate(ctx, discovery.Filter{Region: destination})
		if c := int(math.Ceil(float64(limit) * 0.75)); len(places) > c {
			places = places[:c]
		}
		return nil
	})
	g.Go(func() error {
		rows, err := s.videoRepository.ListByDestination(ctx, destination, videoCap(limit))
		if err != nil {
			logger.LogError(logger.GetLogger(), "services", "FeedByDestination", "videoRepository.ListByDestination", destination, err)
			return nil
		}
		for i := range rows {
			videos = append(videos, rows[i].ToVideo())
		}
		return nil
	})
	_ = g.Wait()

	return discovery.Compose(places, videos, limit)
}

func (s *FeedService) RecordVideoView(ctx context.Context, sessionKey string, videoID uuid.UUID) (*discovery.Referral, error) {
	if sessionKey == "" {
		return nil, utils.ErrUnauthenticated
	}

	video, err := s.videoRepository.GetByID(ctx, videoID)
	if err != nil {
		return nil, utils.DatabaseError(err)
	}
	if video == nil {
		return nil, utils.ErrVideoNotFound
	}

	if err := s.videoRepository.IncrementViews(ctx, videoID); err != nil {
		return nil, utils.DatabaseError(err)
	}

	referral := discovery.Referral{CreatorID: video.CreatorID, ContentID: video.ID}
	if err := s.referrals.Set(ctx, sessionKey, referral); err != nil {
		return nil, err
	}
	return &referral, nil
}

func videoCap(limit int) int {
	return int(math.Ceil(float64(limit) / 4))
}
