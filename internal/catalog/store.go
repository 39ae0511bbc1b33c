// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import "context"

// CategoryRepository defines the data access contract for categories.
//
// # Architecture
//
// The interface lives in the domain package because the service layer (the
// consumer) defines what it needs; the postgres implementation lives alongside
// it in store_postgres.go.
type CategoryRepository interface {
	// List returns a paginated slice of categories and the total count.
	List(ctx context.Context, limit, offset int) ([]*Category, int, error)

	// FindBySlug returns the category with the given slug.
	//
	// It returns [dberr.ErrNotFound] if no match exists.
	FindBySlug(ctx context.Context, slug string) (*Category, error)

	// Create persists a new category. The caller sets Name and Slug; the
	// store assigns the ID.
	Create(ctx context.Context, c *Category) error

	// DeleteBySlug removes a category. Titles referencing it keep existing
	// with their category cleared.
	DeleteBySlug(ctx context.Context, slug string) error
}

// GenreRepository defines the data access contract for genres.
type GenreRepository interface {
	// List returns a paginated slice of genres and the total count.
	List(ctx context.Context, limit, offset int) ([]*Genre, int, error)

	// FindBySlug returns the genre with the given slug.
	FindBySlug(ctx context.Context, slug string) (*Genre, error)

	// FindBySlugs resolves multiple slugs at once. Unknown slugs are simply
	// absent from the result; the service layer detects and names them.
	FindBySlugs(ctx context.Context, slugs []string) (map[string]Genre, error)

	// Create persists a new genre.
	Create(ctx context.Context, g *Genre) error

	// DeleteBySlug removes a genre and its title associations.
	DeleteBySlug(ctx context.Context, slug string) error
}

// TitleRepository defines the data access contract for titles.
type TitleRepository interface {
	// List returns a filtered, paginated slice of titles and the total count.
	//
	// Returned titles carry their Category and Genres; Rating is left nil
	// for the [Aggregator] to fill.
	List(ctx context.Context, f TitleFilter, limit, offset int) ([]*Title, int, error)

	// FindByID returns the title with the given ID, including its category
	// and genres.
	FindByID(ctx context.Context, id string) (*Title, error)

	// Create persists a new title and its genre associations in one
	// transaction. The caller generates the ID.
	Create(ctx context.Context, t *Title, categoryID *int64, genreIDs []int64) error

	// Update persists changes to a title's mutable fields and replaces its
	// genre associations.
	Update(ctx context.Context, t *Title, categoryID *int64, genreIDs []int64) error

	// Delete removes a title. Reviews and comments under it are removed by
	// the storage layer's cascade rules.
	Delete(ctx context.Context, id string) error
}
