// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/critiq/internal/access"
	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/platform/dberr"
	"github.com/taibuivan/critiq/internal/platform/sec"
)

// # In-memory Fakes

type fakeCategoryRepo struct {
	categories map[string]*Category
	nextID     int64
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[string]*Category{}, nextID: 1}
}

func (r *fakeCategoryRepo) List(_ context.Context, limit, offset int) ([]*Category, int, error) {
	var out []*Category
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (r *fakeCategoryRepo) FindBySlug(_ context.Context, slug string) (*Category, error) {
	c, ok := r.categories[slug]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return c, nil
}

func (r *fakeCategoryRepo) Create(_ context.Context, c *Category) error {
	if _, exists := r.categories[c.Slug]; exists {
		return dberr.ErrUniqueViolation
	}
	c.ID = r.nextID
	r.nextID++
	r.categories[c.Slug] = c
	return nil
}

func (r *fakeCategoryRepo) DeleteBySlug(_ context.Context, slug string) error {
	if _, ok := r.categories[slug]; !ok {
		return dberr.ErrNotFound
	}
	delete(r.categories, slug)
	return nil
}

type fakeGenreRepo struct {
	genres map[string]*Genre
	nextID int64
}

func newFakeGenreRepo() *fakeGenreRepo {
	return &fakeGenreRepo{genres: map[string]*Genre{}, nextID: 1}
}

func (r *fakeGenreRepo) List(_ context.Context, limit, offset int) ([]*Genre, int, error) {
	var out []*Genre
	for _, g := range r.genres {
		out = append(out, g)
	}
	return out, len(out), nil
}

func (r *fakeGenreRepo) FindBySlug(_ context.Context, slug string) (*Genre, error) {
	g, ok := r.genres[slug]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return g, nil
}

func (r *fakeGenreRepo) FindBySlugs(_ context.Context, slugs []string) (map[string]Genre, error) {
	out := make(map[string]Genre, len(slugs))
	for _, slug := range slugs {
		if g, ok := r.genres[slug]; ok {
			out[slug] = *g
		}
	}
	return out, nil
}

func (r *fakeGenreRepo) Create(_ context.Context, g *Genre) error {
	if _, exists := r.genres[g.Slug]; exists {
		return dberr.ErrUniqueViolation
	}
	g.ID = r.nextID
	r.nextID++
	r.genres[g.Slug] = g
	return nil
}

func (r *fakeGenreRepo) DeleteBySlug(_ context.Context, slug string) error {
	if _, ok := r.genres[slug]; !ok {
		return dberr.ErrNotFound
	}
	delete(r.genres, slug)
	return nil
}

type fakeTitleRepo struct {
	titles map[string]*Title
	scores map[string][]int
}

func newFakeTitleRepo() *fakeTitleRepo {
	return &fakeTitleRepo{titles: map[string]*Title{}, scores: map[string][]int{}}
}

func (r *fakeTitleRepo) List(_ context.Context, f TitleFilter, limit, offset int) ([]*Title, int, error) {
	var out []*Title
	for _, t := range r.titles {
		out = append(out, t)
	}
	return out, len(out), nil
}

func (r *fakeTitleRepo) FindByID(_ context.Context, id string) (*Title, error) {
	t, ok := r.titles[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return t, nil
}

func (r *fakeTitleRepo) Create(_ context.Context, t *Title, _ *int64, _ []int64) error {
	r.titles[t.ID] = t
	return nil
}

func (r *fakeTitleRepo) Update(_ context.Context, t *Title, _ *int64, _ []int64) error {
	if _, ok := r.titles[t.ID]; !ok {
		return dberr.ErrNotFound
	}
	r.titles[t.ID] = t
	return nil
}

func (r *fakeTitleRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.titles[id]; !ok {
		return dberr.ErrNotFound
	}
	delete(r.titles, id)
	return nil
}

func (r *fakeTitleRepo) ScoresForTitles(_ context.Context, titleIDs []string) (map[string][]int, error) {
	out := make(map[string][]int)
	for _, id := range titleIDs {
		if s, ok := r.scores[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

// # Test Fixture

type catalogFixture struct {
	service    *Service
	categories *fakeCategoryRepo
	genres     *fakeGenreRepo
	titles     *fakeTitleRepo
}

func newCatalogFixture() *catalogFixture {
	categories := newFakeCategoryRepo()
	genres := newFakeGenreRepo()
	titles := newFakeTitleRepo()

	return &catalogFixture{
		service:    NewService(categories, genres, titles, NewAggregator(titles)),
		categories: categories,
		genres:     genres,
		titles:     titles,
	}
}

func admin() *access.Principal {
	return &access.Principal{UserID: "adm-1", Username: "root", Role: sec.RoleAdmin}
}

func member() *access.Principal {
	return &access.Principal{UserID: "usr-1", Username: "casey", Role: sec.RoleUser}
}

// # Category & Genre

func TestCreateCategory(t *testing.T) {
	fixture := newCatalogFixture()
	ctx := context.Background()

	t.Run("admin creates with derived slug", func(t *testing.T) {
		category, err := fixture.service.CreateCategory(ctx, admin(), TaxonomyInput{Name: "Science Fiction"})
		require.NoError(t, err)
		assert.Equal(t, "science-fiction", category.Slug)
	})

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		_, err := fixture.service.CreateCategory(ctx, admin(), TaxonomyInput{Name: "Science Fiction"})
		require.Error(t, err)
		assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		_, err := fixture.service.CreateCategory(ctx, member(), TaxonomyInput{Name: "Books"})
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	})

	t.Run("anonymous unauthorized", func(t *testing.T) {
		_, err := fixture.service.CreateCategory(ctx, nil, TaxonomyInput{Name: "Books"})
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := fixture.service.CreateCategory(ctx, admin(), TaxonomyInput{Name: ""})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})
}

func TestDeleteGenre(t *testing.T) {
	fixture := newCatalogFixture()
	ctx := context.Background()

	_, err := fixture.service.CreateGenre(ctx, admin(), TaxonomyInput{Name: "Drama"})
	require.NoError(t, err)

	t.Run("unknown slug is not found", func(t *testing.T) {
		err := fixture.service.DeleteGenre(ctx, admin(), "thriller")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})

	t.Run("admin deletes", func(t *testing.T) {
		require.NoError(t, fixture.service.DeleteGenre(ctx, admin(), "drama"))
	})
}

// # Titles

func TestCreateTitle(t *testing.T) {
	fixture := newCatalogFixture()
	ctx := context.Background()

	_, err := fixture.service.CreateCategory(ctx, admin(), TaxonomyInput{Name: "Films"})
	require.NoError(t, err)
	_, err = fixture.service.CreateGenre(ctx, admin(), TaxonomyInput{Name: "Drama"})
	require.NoError(t, err)

	t.Run("resolves category and genres by slug", func(t *testing.T) {
		title, err := fixture.service.CreateTitle(ctx, admin(), TitleInput{
			Name:         "Arrival",
			Year:         2016,
			CategorySlug: "films",
			GenreSlugs:   []string{"drama"},
		})
		require.NoError(t, err)
		require.NotNil(t, title.Category)
		assert.Equal(t, "films", title.Category.Slug)
		require.Len(t, title.Genres, 1)
		assert.Equal(t, "drama", title.Genres[0].Slug)
		assert.NotEmpty(t, title.ID)
	})

	t.Run("unknown category slug named in validation error", func(t *testing.T) {
		_, err := fixture.service.CreateTitle(ctx, admin(), TitleInput{
			Name:         "Arrival",
			Year:         2016,
			CategorySlug: "games",
		})
		require.Error(t, err)

		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		require.Len(t, appErr.Details, 1)
		assert.Contains(t, appErr.Details[0].Message, "games")
	})

	t.Run("unknown genre slug named in validation error", func(t *testing.T) {
		_, err := fixture.service.CreateTitle(ctx, admin(), TitleInput{
			Name:       "Arrival",
			Year:       2016,
			GenreSlugs: []string{"noir"},
		})
		require.Error(t, err)

		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		require.Len(t, appErr.Details, 1)
		assert.Contains(t, appErr.Details[0].Message, "noir")
	})

	t.Run("far-future year rejected", func(t *testing.T) {
		_, err := fixture.service.CreateTitle(ctx, admin(), TitleInput{
			Name: "Unannounced",
			Year: time.Now().Year() + 2,
		})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})

	t.Run("next year allowed", func(t *testing.T) {
		_, err := fixture.service.CreateTitle(ctx, admin(), TitleInput{
			Name: "Announced Sequel",
			Year: time.Now().Year() + 1,
		})
		require.NoError(t, err)
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		_, err := fixture.service.CreateTitle(ctx, member(), TitleInput{Name: "Dune", Year: 2021})
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	})
}

func TestGetTitleRating(t *testing.T) {
	fixture := newCatalogFixture()
	ctx := context.Background()

	title, err := fixture.service.CreateTitle(ctx, admin(), TitleInput{Name: "Solaris", Year: 1972})
	require.NoError(t, err)

	t.Run("unreviewed title has nil rating", func(t *testing.T) {
		got, err := fixture.service.GetTitle(ctx, title.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Rating)
	})

	t.Run("rating is the mean of review scores", func(t *testing.T) {
		fixture.titles.scores[title.ID] = []int{10, 7}

		got, err := fixture.service.GetTitle(ctx, title.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Rating)
		assert.Equal(t, 8.5, *got.Rating)
	})

	t.Run("unknown title is not found", func(t *testing.T) {
		_, err := fixture.service.GetTitle(ctx, "missing")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}

func TestUpdateTitle(t *testing.T) {
	fixture := newCatalogFixture()
	ctx := context.Background()

	_, err := fixture.service.CreateCategory(ctx, admin(), TaxonomyInput{Name: "Films"})
	require.NoError(t, err)

	title, err := fixture.service.CreateTitle(ctx, admin(), TitleInput{Name: "Dune", Year: 2020})
	require.NoError(t, err)

	t.Run("partial patch keeps unset fields", func(t *testing.T) {
		year := 2021
		category := "films"
		updated, err := fixture.service.UpdateTitle(ctx, admin(), title.ID, UpdateTitleInput{
			Year:         &year,
			CategorySlug: &category,
		})
		require.NoError(t, err)
		assert.Equal(t, "Dune", updated.Name)
		assert.Equal(t, 2021, updated.Year)
		require.NotNil(t, updated.Category)
		assert.Equal(t, "films", updated.Category.Slug)
	})

	t.Run("moderator cannot manage catalog", func(t *testing.T) {
		name := "Dune Part Two"
		moderator := &access.Principal{UserID: "mod-1", Role: sec.RoleModerator}
		_, err := fixture.service.UpdateTitle(ctx, moderator, title.ID, UpdateTitleInput{Name: &name})
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	})
}
