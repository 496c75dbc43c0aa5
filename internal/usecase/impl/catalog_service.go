package impl

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"lebay/config"
	deliverycontext "lebay/internal/delivery/context"
	"lebay/internal/domain/constants"
	"lebay/internal/domain/entity"
	domainerrors "lebay/internal/domain/errors"
	"lebay/internal/domain/repository"
	"lebay/internal/domain/service"
	"lebay/internal/errors"
	"lebay/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const defaultCategoryTTL = 10 * time.Minute

type catalogService struct {
	categoryRepo repository.CategoryRepository
	cache        service.CacheStore
	auctions     usecase.AuctionUsecase
	categoryTTL  time.Duration
	logger       *slog.Logger
}

type CatalogServiceParams struct {
	fx.In

	CategoryRepo repository.CategoryRepository
	Cache        service.CacheStore
	Auctions     usecase.AuctionUsecase
	Config       *config.Config
	Logger       *slog.Logger
}

func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	ttl := defaultCategoryTTL
	if params.Config != nil && params.Config.Cache != nil && params.Config.Cache.CategoryTTL > 0 {
		ttl = params.Config.Cache.CategoryTTL
	}

	return &catalogService{
		categoryRepo: params.CategoryRepo,
		cache:        params.Cache,
		auctions:     params.Auctions,
		categoryTTL:  ttl,
		logger:       params.Logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetCategoryTree serves the tree from cache. Cache failures fall through to the database.
func (srv *catalogService) GetCategoryTree(ctx context.Context) ([]*entity.CategoryNode, error) {
	if cached, found, err := srv.cache.Get(ctx, constants.CacheKeyCategoryTree); err != nil {
		srv.log(ctx).Warn("Category tree cache read failed", slog.Any("error", err))
	} else if found {
		var tree []*entity.CategoryNode
		if err := json.Unmarshal(cached, &tree); err == nil {
			return tree, nil
		}
		srv.log(ctx).Warn("Discarding undecodable category tree cache entry")
	}

	categories, err := srv.categoryRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}
	tree := entity.BuildCategoryTree(categories)

	if payload, err := json.Marshal(tree); err == nil {
		if err := srv.cache.Set(ctx, constants.CacheKeyCategoryTree, payload, srv.categoryTTL); err != nil {
			srv.log(ctx).Warn("Category tree cache write failed", slog.Any("error", err))
		}
	}

	return tree, nil
}

func (srv *catalogService) CreateCategory(ctx context.Context, input *usecase.CreateCategoryInput) (*entity.ItemCategory, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("title is required")
	}

	if input.ParentID != nil {
		if _, err := srv.categoryRepo.FindByID(ctx, *input.ParentID); err != nil {
			return nil, translateRepoError(err, "failed to find parent category")
		}
	}

	category := &entity.ItemCategory{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		ParentID:    input.ParentID,
	}
	if err := srv.categoryRepo.Create(ctx, category); err != nil {
		return nil, translateRepoError(err, "failed to create category")
	}

	if err := srv.cache.Delete(ctx, constants.CacheKeyCategoryTree); err != nil {
		srv.log(ctx).Warn("Category tree cache invalidation failed", slog.Any("error", err))
	}
	srv.log(ctx).Info("Category created", slog.Any("category_id", category.ID), slog.String("title", title))

	return category, nil
}

func (srv *catalogService) GetCategoryPage(ctx context.Context, categoryID uuid.UUID, input *usecase.BrowseInput) (*usecase.CategoryPage, error) {
	category, err := srv.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, translateRepoError(err, "failed to find category")
	}

	browse := usecase.BrowseInput{}
	if input != nil {
		browse = *input
	}
	browse.CategoryID = &categoryID

	page, err := srv.auctions.Browse(ctx, &browse)
	if err != nil {
		return nil, err
	}

	return &usecase.CategoryPage{Category: category, Auctions: page}, nil
}
