package container

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joshua-takyi/wanderlust/internal/ai"
	"github.com/joshua-takyi/wanderlust/internal/cache"
	"github.com/joshua-takyi/wanderlust/internal/config"
	"github.com/joshua-takyi/wanderlust/internal/helpers"
	"github.com/joshua-takyi/wanderlust/internal/models"
	"github.com/joshua-takyi/wanderlust/internal/services"
	"github.com/redis/go-redis/v9"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	SupabaseClient *supabase.Client
	MongoDBClient  *mongo.Client
	RedisClient    *redis.Client

	Repo   *models.MongodbRepo
	Tokens *helpers.TokenValidator
	Worker *services.AnalysisWorker

	AuthService     *services.AuthService
	ListingService  *services.ListingService
	ReviewService   *services.ReviewService
	AnalysisService *services.AnalysisService
	ChatService     *services.ChatService
	ContentService  *services.ContentService
	PricingService  *services.PricingService
}

// NewContainer creates a new dependency injection container. Redis and
// Cloudinary clients may be nil.
func NewContainer(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	cld *cloudinary.Cloudinary,
	supabaseClient *supabase.Client,
	mongoDBClient *mongo.Client,
	redisClient *redis.Client,
) (*Container, error) {
	supa := models.SupabaseNewRepo(supabaseClient)
	repo := models.MongodbNewRepo(mongoDBClient, cfg.MongoDBDatabase)

	delegate, err := ai.NewDelegate(cfg.AI())
	if err != nil {
		return nil, fmt.Errorf("failed to configure AI provider: %v", err)
	}

	tokens, err := helpers.NewTokenValidator(ctx, cfg.SupabaseJWTSecret, helpers.SupabaseJWKSURL(cfg.SupabaseURL))
	if err != nil {
		return nil, err
	}

	var trendCache cache.Cache
	if redisClient != nil {
		trendCache = cache.NewRedisCache(redisClient)
	}
	var images helpers.ImageStore
	if cld != nil {
		images = helpers.NewCloudinaryStore(cld)
	}

	analysis := services.NewAnalysisService(delegate, repo, repo)
	worker := services.NewAnalysisWorker(analysis, services.DefaultQueueSize, services.DefaultJobTimeout)
	pricing := services.NewPricingService(delegate, trendCache)

	return &Container{
		Config:          cfg,
		Logger:          logger,
		SupabaseClient:  supabaseClient,
		MongoDBClient:   mongoDBClient,
		RedisClient:     redisClient,
		Repo:            repo,
		Tokens:          tokens,
		Worker:          worker,
		AuthService:     services.NewAuthService(supa),
		ListingService:  services.NewListingService(repo, repo, images, pricing),
		ReviewService:   services.NewReviewService(repo, repo, worker),
		AnalysisService: analysis,
		ChatService:     services.NewChatService(repo, delegate),
		ContentService:  services.NewContentService(delegate),
		PricingService:  pricing,
	}, nil
}

// Start prepares the collections and starts the background worker.
func (c *Container) Start(ctx context.Context) error {
	if err := c.Repo.EnsureIndexes(ctx); err != nil {
		return err
	}
	c.Worker.Start()
	return nil
}

// Close drains the worker and releases the token validator. The database
// clients are closed by their owner.
func (c *Container) Close(ctx context.Context) error {
	err := c.Worker.Stop(ctx)
	c.Tokens.Close()
	return err
}
