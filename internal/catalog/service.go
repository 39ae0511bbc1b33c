// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package catalog implements the content catalog: categories, genres, and
// the titles they classify.
//
// # Architecture
//
// The service orchestrates domain entities and interacts with repositories
// through interfaces. It is technology-agnostic and does not know about
// HTTP or SQL. Authorization decisions are delegated to the access package;
// read paths are public and never consult it.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/taibuivan/critiq/internal/access"
	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/platform/dberr"
	"github.com/taibuivan/critiq/internal/platform/validate"
	"github.com/taibuivan/critiq/pkg/slug"
	"github.com/taibuivan/critiq/pkg/uuid"
)

const (
	// maxNameLength bounds category, genre, and title names.
	maxNameLength = 256
	// maxSlugLength bounds category and genre slugs.
	maxSlugLength = 50
)

// Service implements catalog use cases for categories, genres, and titles.
type Service struct {
	categoryRepository CategoryRepository
	genreRepository    GenreRepository
	titleRepository    TitleRepository
	aggregator         *Aggregator
}

// NewService constructs a new catalog [Service] with necessary dependencies.
func NewService(
	categoryRepo CategoryRepository,
	genreRepo GenreRepository,
	titleRepo TitleRepository,
	aggregator *Aggregator,
) *Service {
	return &Service{
		categoryRepository: categoryRepo,
		genreRepository:    genreRepo,
		titleRepository:    titleRepo,
		aggregator:         aggregator,
	}
}

// # Category Use Cases

// ListCategories returns a page of categories and the total count.
// This read is public.
func (service *Service) ListCategories(ctx context.Context, limit, offset int) ([]*Category, int, error) {
	return service.categoryRepository.List(ctx, limit, offset)
}

// TaxonomyInput holds the data to create a category or genre.
type TaxonomyInput struct {
	Name string
	Slug string // Optional; derived from Name when empty.
}

// CreateCategory validates and persists a new category. Admin only.
//
// # Business Rules
//   - Name is required and bounded.
//   - Slug is derived from the name when omitted, and must be unique.
func (service *Service) CreateCategory(ctx context.Context, principal *access.Principal, input TaxonomyInput) (*Category, error) {
	if err := access.Require(principal, access.CanManageCatalog(principal)); err != nil {
		return nil, err
	}

	name, slugValue, err := normalizeTaxonomy(input)
	if err != nil {
		return nil, err
	}

	category := &Category{Name: name, Slug: slugValue}
	if err := service.categoryRepository.Create(ctx, category); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict("A category with this slug already exists")
		}
		return nil, fmt.Errorf("catalog_service_create_category_failed: %w", err)
	}

	return category, nil
}

// DeleteCategory removes a category by slug. Admin only.
//
// Titles referencing the category survive with their category cleared.
func (service *Service) DeleteCategory(ctx context.Context, principal *access.Principal, categorySlug string) error {
	if err := access.Require(principal, access.CanManageCatalog(principal)); err != nil {
		return err
	}

	return service.categoryRepository.DeleteBySlug(ctx, categorySlug)
}

// # Genre Use Cases

// ListGenres returns a page of genres and the total count. This read is public.
func (service *Service) ListGenres(ctx context.Context, limit, offset int) ([]*Genre, int, error) {
	return service.genreRepository.List(ctx, limit, offset)
}

// CreateGenre validates and persists a new genre. Admin only.
func (service *Service) CreateGenre(ctx context.Context, principal *access.Principal, input TaxonomyInput) (*Genre, error) {
	if err := access.Require(principal, access.CanManageCatalog(principal)); err != nil {
		return nil, err
	}

	name, slugValue, err := normalizeTaxonomy(input)
	if err != nil {
		return nil, err
	}

	genre := &Genre{Name: name, Slug: slugValue}
	if err := service.genreRepository.Create(ctx, genre); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict("A genre with this slug already exists")
		}
		return nil, fmt.Errorf("catalog_service_create_genre_failed: %w", err)
	}

	return genre, nil
}

// DeleteGenre removes a genre by slug. Admin only.
func (service *Service) DeleteGenre(ctx context.Context, principal *access.Principal, genreSlug string) error {
	if err := access.Require(principal, access.CanManageCatalog(principal)); err != nil {
		return err
	}

	return service.genreRepository.DeleteBySlug(ctx, genreSlug)
}

// # Title Use Cases

// ListTitles returns a filtered page of titles with computed ratings.
// This read is public.
func (service *Service) ListTitles(ctx context.Context, filter TitleFilter, limit, offset int) ([]*Title, int, error) {
	titles, total, err := service.titleRepository.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	if err := service.aggregator.Decorate(ctx, titles...); err != nil {
		return nil, 0, fmt.Errorf("catalog_service_list_rating_failed: %w", err)
	}

	return titles, total, nil
}

// GetTitle returns a single title with its computed rating. This read is public.
func (service *Service) GetTitle(ctx context.Context, titleID string) (*Title, error) {
	title, err := service.titleRepository.FindByID(ctx, titleID)
	if err != nil {
		return nil, titleNotFound(err)
	}

	if err := service.aggregator.Decorate(ctx, title); err != nil {
		return nil, fmt.Errorf("catalog_service_get_rating_failed: %w", err)
	}

	return title, nil
}

// TitleInput holds the data to create a title.
//
// Category and genres are referenced by slug, matching their public identity.
type TitleInput struct {
	Name         string
	Year         int
	Description  *string
	CategorySlug string
	GenreSlugs   []string
}

// CreateTitle validates, resolves slug references, and persists a new title.
// Admin only.
//
// # Business Rules
//   - Name is required and bounded.
//   - Year must not be further than one year in the future (announced works
//     are listable, unreleased vaporware is not).
//   - Referenced category and genre slugs must exist.
func (service *Service) CreateTitle(ctx context.Context, principal *access.Principal, input TitleInput) (*Title, error) {
	// ── 1. Authorization ──────────────────────────────────────────────────

	if err := access.Require(principal, access.CanManageCatalog(principal)); err != nil {
		return nil, err
	}

	// ── 2. Validation ─────────────────────────────────────────────────────

	validator := &validate.Validator{}
	validator.
		Required("name", input.Name).
		MaxLen("name", input.Name, maxNameLength).
		Max("year", input.Year, maxTitleYear()).
		Custom("year", input.Year <= 0, "Must be a positive year")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 3. Slug Resolution ────────────────────────────────────────────────

	categoryID, category, err := service.resolveCategory(ctx, input.CategorySlug)
	if err != nil {
		return nil, err
	}

	genreIDs, genres, err := service.resolveGenres(ctx, input.GenreSlugs)
	if err != nil {
		return nil, err
	}

	// ── 4. Entity Construction & Persistence ──────────────────────────────

	title := &Title{
		ID:          uuid.New(), // Time-sortable ID to prevent PG index fragmentation.
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		Category:    category,
		Genres:      genres,
	}

	if err := service.titleRepository.Create(ctx, title, categoryID, genreIDs); err != nil {
		return nil, fmt.Errorf("catalog_service_create_title_failed: %w", err)
	}

	return title, nil
}

// UpdateTitleInput holds a partial title update. Nil fields are unchanged.
type UpdateTitleInput struct {
	Name         *string
	Year         *int
	Description  *string
	CategorySlug *string
	GenreSlugs   *[]string
}

// UpdateTitle applies a partial update to an existing title. Admin only.
func (service *Service) UpdateTitle(ctx context.Context, principal *access.Principal, titleID string, input UpdateTitleInput) (*Title, error) {
	// ── 1. Authorization ──────────────────────────────────────────────────

	if err := access.Require(principal, access.CanManageCatalog(principal)); err != nil {
		return nil, err
	}

	// ── 2. Load Current State ─────────────────────────────────────────────

	title, err := service.titleRepository.FindByID(ctx, titleID)
	if err != nil {
		return nil, titleNotFound(err)
	}

	// ── 3. Apply Patch ────────────────────────────────────────────────────

	if input.Name != nil {
		title.Name = *input.Name
	}
	if input.Year != nil {
		title.Year = *input.Year
	}
	if input.Description != nil {
		title.Description = input.Description
	}

	validator := &validate.Validator{}
	validator.
		Required("name", title.Name).
		MaxLen("name", title.Name, maxNameLength).
		Max("year", title.Year, maxTitleYear()).
		Custom("year", title.Year <= 0, "Must be a positive year")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 4. Re-resolve References ──────────────────────────────────────────

	categorySlug := ""
	if title.Category != nil {
		categorySlug = title.Category.Slug
	}
	if input.CategorySlug != nil {
		categorySlug = *input.CategorySlug
	}

	categoryID, category, err := service.resolveCategory(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	title.Category = category

	genreSlugs := make([]string, 0, len(title.Genres))
	for _, g := range title.Genres {
		genreSlugs = append(genreSlugs, g.Slug)
	}
	if input.GenreSlugs != nil {
		genreSlugs = *input.GenreSlugs
	}

	genreIDs, genres, err := service.resolveGenres(ctx, genreSlugs)
	if err != nil {
		return nil, err
	}
	title.Genres = genres

	// ── 5. Persistence ────────────────────────────────────────────────────

	if err := service.titleRepository.Update(ctx, title, categoryID, genreIDs); err != nil {
		return nil, titleNotFound(err)
	}

	if err := service.aggregator.Decorate(ctx, title); err != nil {
		return nil, fmt.Errorf("catalog_service_update_rating_failed: %w", err)
	}

	return title, nil
}

// DeleteTitle removes a title and, by cascade, its reviews and comments.
// Admin only.
func (service *Service) DeleteTitle(ctx context.Context, principal *access.Principal, titleID string) error {
	if err := access.Require(principal, access.CanManageCatalog(principal)); err != nil {
		return err
	}

	if err := service.titleRepository.Delete(ctx, titleID); err != nil {
		return titleNotFound(err)
	}

	return nil
}

// # Helpers

// normalizeTaxonomy validates a [TaxonomyInput] and derives the slug when absent.
func normalizeTaxonomy(input TaxonomyInput) (name, slugValue string, err error) {
	slugValue = input.Slug
	if slugValue == "" {
		slugValue = slug.From(input.Name)
	}

	validator := &validate.Validator{}
	validator.
		Required("name", input.Name).
		MaxLen("name", input.Name, maxNameLength).
		Slug("slug", slugValue).
		MaxLen("slug", slugValue, maxSlugLength)
	if err := validator.Err(); err != nil {
		return "", "", err
	}

	return input.Name, slugValue, nil
}

// resolveCategory maps a category slug to its storage ID and entity.
// An empty slug resolves to no category; an unknown slug is a validation
// failure naming the slug, not a 404.
func (service *Service) resolveCategory(ctx context.Context, categorySlug string) (*int64, *Category, error) {
	if categorySlug == "" {
		return nil, nil, nil
	}

	category, err := service.categoryRepository.FindBySlug(ctx, categorySlug)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, nil, validate.RequiredError("category", fmt.Sprintf("Unknown category slug %q", categorySlug))
		}
		return nil, nil, err
	}

	return &category.ID, category, nil
}

// resolveGenres maps genre slugs to storage IDs and entities in input order.
// The first unknown slug fails the whole resolution with a validation error
// naming it.
func (service *Service) resolveGenres(ctx context.Context, genreSlugs []string) ([]int64, []Genre, error) {
	bySlug, err := service.genreRepository.FindBySlugs(ctx, genreSlugs)
	if err != nil {
		return nil, nil, fmt.Errorf("catalog_service_resolve_genres_failed: %w", err)
	}

	ids := make([]int64, 0, len(genreSlugs))
	genres := make([]Genre, 0, len(genreSlugs))
	for _, genreSlug := range genreSlugs {
		genre, ok := bySlug[genreSlug]
		if !ok {
			return nil, nil, validate.RequiredError("genres", fmt.Sprintf("Unknown genre slug %q", genreSlug))
		}
		ids = append(ids, genre.ID)
		genres = append(genres, genre)
	}

	return ids, genres, nil
}

// maxTitleYear is the newest release year the catalog accepts. Announced
// next-year releases are allowed; anything later is rejected.
func maxTitleYear() int {
	return time.Now().Year() + 1
}

// titleNotFound maps a storage not-found to a client-facing Title error,
// passing every other error through untouched.
func titleNotFound(err error) error {
	if dberr.IsNotFound(err) {
		return apperr.NotFound("Title")
	}
	return err
}
