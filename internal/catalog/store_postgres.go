// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/critiq/internal/platform/dberr"
)

// categoryRepository implements the [CategoryRepository] interface using pgx.
type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository constructs a PostgreSQL backed category store.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

// genreRepository implements the [GenreRepository] interface using pgx.
type genreRepository struct {
	pool *pgxpool.Pool
}

// NewGenreRepository constructs a PostgreSQL backed genre store.
func NewGenreRepository(pool *pgxpool.Pool) GenreRepository {
	return &genreRepository{pool: pool}
}

// titleRepository implements [TitleRepository] and [ScoreSource] using pgx.
type titleRepository struct {
	pool *pgxpool.Pool
}

// NewTitleRepository constructs a PostgreSQL backed title store.
func NewTitleRepository(pool *pgxpool.Pool) *titleRepository {
	return &titleRepository{pool: pool}
}

// # Category Repository Implementation

/*
List returns a paginated slice of categories and the total count.

Description: Uses the COUNT(*) OVER() window function to retrieve the total
record count without issuing a second query.

Parameters:
  - ctx: context.Context
  - limit: int
  - offset: int

Returns:
  - []*Category: Slice of category entities ordered by name
  - int: Total count
  - error: Database execution errors
*/
func (repository *categoryRepository) List(ctx context.Context, limit, offset int) ([]*Category, int, error) {
	const query = `
		SELECT id, name, slug, COUNT(*) OVER() AS total_count
		FROM catalog.category
		ORDER BY name ASC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "category_list")
	}
	defer rows.Close()

	var categories []*Category
	var totalCount int

	for rows.Next() {
		category := &Category{}
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug, &totalCount); err != nil {
			return nil, 0, dberr.Wrap(err, "category_list_scan")
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "category_list_rows")
	}

	return categories, totalCount, nil
}

// FindBySlug returns the category with the given slug.
func (repository *categoryRepository) FindBySlug(ctx context.Context, slug string) (*Category, error) {
	const query = `SELECT id, name, slug FROM catalog.category WHERE slug = $1`

	category := &Category{}
	err := repository.pool.QueryRow(ctx, query, slug).Scan(&category.ID, &category.Name, &category.Slug)
	if err != nil {
		return nil, dberr.Wrap(err, "category_find_by_slug")
	}

	return category, nil
}

// Create persists a new category, assigning its generated ID.
func (repository *categoryRepository) Create(ctx context.Context, category *Category) error {
	const query = `
		INSERT INTO catalog.category (name, slug, createdat)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := repository.pool.QueryRow(ctx, query, category.Name, category.Slug, time.Now()).Scan(&category.ID)
	if err != nil {
		return dberr.Wrap(err, "category_create")
	}

	return nil
}

// DeleteBySlug removes a category. Titles referencing it keep existing with
// a NULL category via the schema's ON DELETE SET NULL rule.
func (repository *categoryRepository) DeleteBySlug(ctx context.Context, slug string) error {
	const query = `DELETE FROM catalog.category WHERE slug = $1`

	tag, err := repository.pool.Exec(ctx, query, slug)
	if err != nil {
		return dberr.Wrap(err, "category_delete")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// # Genre Repository Implementation

// List returns a paginated slice of genres and the total count.
func (repository *genreRepository) List(ctx context.Context, limit, offset int) ([]*Genre, int, error) {
	const query = `
		SELECT id, name, slug, COUNT(*) OVER() AS total_count
		FROM catalog.genre
		ORDER BY name ASC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "genre_list")
	}
	defer rows.Close()

	var genres []*Genre
	var totalCount int

	for rows.Next() {
		genre := &Genre{}
		if err := rows.Scan(&genre.ID, &genre.Name, &genre.Slug, &totalCount); err != nil {
			return nil, 0, dberr.Wrap(err, "genre_list_scan")
		}
		genres = append(genres, genre)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "genre_list_rows")
	}

	return genres, totalCount, nil
}

// FindBySlug returns the genre with the given slug.
func (repository *genreRepository) FindBySlug(ctx context.Context, slug string) (*Genre, error) {
	const query = `SELECT id, name, slug FROM catalog.genre WHERE slug = $1`

	genre := &Genre{}
	err := repository.pool.QueryRow(ctx, query, slug).Scan(&genre.ID, &genre.Name, &genre.Slug)
	if err != nil {
		return nil, dberr.Wrap(err, "genre_find_by_slug")
	}

	return genre, nil
}

/*
FindBySlugs resolves multiple slugs at once.

Description: Unknown slugs are simply absent from the returned map; the
service layer compares against its input to name the offending slug in a
client-facing validation error.

Parameters:
  - ctx: context.Context
  - slugs: []string

Returns:
  - map[string]Genre: Resolved genres keyed by slug
  - error: Database execution errors
*/
func (repository *genreRepository) FindBySlugs(ctx context.Context, slugs []string) (map[string]Genre, error) {
	bySlug := make(map[string]Genre, len(slugs))
	if len(slugs) == 0 {
		return bySlug, nil
	}

	const query = `SELECT id, name, slug FROM catalog.genre WHERE slug = ANY($1)`

	rows, err := repository.pool.Query(ctx, query, slugs)
	if err != nil {
		return nil, dberr.Wrap(err, "genre_find_by_slugs")
	}
	defer rows.Close()

	for rows.Next() {
		var genre Genre
		if err := rows.Scan(&genre.ID, &genre.Name, &genre.Slug); err != nil {
			return nil, dberr.Wrap(err, "genre_find_by_slugs_scan")
		}
		bySlug[genre.Slug] = genre
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "genre_find_by_slugs_rows")
	}

	return bySlug, nil
}

// Create persists a new genre, assigning its generated ID.
func (repository *genreRepository) Create(ctx context.Context, genre *Genre) error {
	const query = `
		INSERT INTO catalog.genre (name, slug, createdat)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := repository.pool.QueryRow(ctx, query, genre.Name, genre.Slug, time.Now()).Scan(&genre.ID)
	if err != nil {
		return dberr.Wrap(err, "genre_create")
	}

	return nil
}

// DeleteBySlug removes a genre. Join rows in catalog.titlegenre are removed
// by the schema's ON DELETE CASCADE rule.
func (repository *genreRepository) DeleteBySlug(ctx context.Context, slug string) error {
	const query = `DELETE FROM catalog.genre WHERE slug = $1`

	tag, err := repository.pool.Exec(ctx, query, slug)
	if err != nil {
		return dberr.Wrap(err, "genre_delete")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// # Title Repository Implementation

// titleSelectColumns is the shared projection for title reads. The category
// is joined in-line and genres are aggregated into a JSON array to prevent
// N+1 lookups.
const titleSelectColumns = `
	t.id, t.name, t.year, t.description, t.createdat, t.updatedat,
	c.name, c.slug,
	COALESCE((
		SELECT json_agg(json_build_object('name', g.name, 'slug', g.slug) ORDER BY g.name)
		FROM catalog.genre g
		JOIN catalog.titlegenre tg ON g.id = tg.genreid
		WHERE tg.titleid = t.id
	), '[]') AS genres`

/*
List returns a filtered, paginated slice of titles and the total count.

Description: This query utilizes several PostgreSQL features:
  - Window Function: COUNT(*) OVER() retrieves the total record count
    without a second query.
  - JSON Aggregation: A sub-query aggregates associated genres into a JSON
    array to prevent N+1 overhead.
  - Dynamic WHERE clause: Filters are appended with positional arguments.

Parameters:
  - ctx: context.Context
  - filter: TitleFilter (category/genre slug, name search, year)
  - limit: int
  - offset: int

Returns:
  - []*Title: Slice of hydrated title entities (Rating left nil)
  - int: Total count matching filters
  - error: Database execution errors
*/
func (repository *titleRepository) List(ctx context.Context, filter TitleFilter, limit, offset int) ([]*Title, int, error) {

	// Query build initialization
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(`
		SELECT ` + titleSelectColumns + `,
			COUNT(*) OVER() AS total_count
		FROM catalog.title t
		LEFT JOIN catalog.category c ON c.id = t.categoryid
		WHERE TRUE
	`)

	// Category Filtering (by slug)
	if filter.CategorySlug != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.slug = $%d", argID))
		args = append(args, filter.CategorySlug)
		argID++
	}

	// Genre Filtering (by slug, through the join table)
	if filter.GenreSlug != "" {
		queryBuilder.WriteString(fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM catalog.titlegenre tg
			JOIN catalog.genre g ON g.id = tg.genreid
			WHERE tg.titleid = t.id AND g.slug = $%d
		)`, argID))
		args = append(args, filter.GenreSlug)
		argID++
	}

	// Name Search Filtering (case-insensitive substring)
	if filter.Name != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND t.name ILIKE '%%' || $%d || '%%'", argID))
		args = append(args, filter.Name)
		argID++
	}

	// Year Filtering
	if filter.Year != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND t.year = $%d", argID))
		args = append(args, *filter.Year)
		argID++
	}

	// Stable ordering: newest first, ID as tie-breaker
	queryBuilder.WriteString(" ORDER BY t.createdat DESC, t.id DESC")

	// Pagination injection
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	// Query Execution
	rows, err := repository.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "title_list")
	}
	defer rows.Close()

	var titles []*Title
	var totalCount int

	for rows.Next() {
		title, count, err := scanTitleWithCount(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "title_list_scan")
		}
		totalCount = count
		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "title_list_rows")
	}

	return titles, totalCount, nil
}

// FindByID returns the title with the given ID, including category and genres.
func (repository *titleRepository) FindByID(ctx context.Context, id string) (*Title, error) {
	query := `
		SELECT ` + titleSelectColumns + `
		FROM catalog.title t
		LEFT JOIN catalog.category c ON c.id = t.categoryid
		WHERE t.id = $1`

	row := repository.pool.QueryRow(ctx, query, id)

	title, err := scanTitle(row)
	if err != nil {
		return nil, dberr.Wrap(err, "title_find_by_id")
	}

	return title, nil
}

// Create persists a new title and its genre associations in one transaction.
func (repository *titleRepository) Create(ctx context.Context, title *Title, categoryID *int64, genreIDs []int64) error {
	tx, err := repository.pool.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "title_create_begin")
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	title.CreatedAt = now
	title.UpdatedAt = now

	const insertTitle = `
		INSERT INTO catalog.title (id, name, year, description, categoryid, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = tx.Exec(ctx, insertTitle,
		title.ID,
		title.Name,
		title.Year,
		title.Description,
		categoryID,
		title.CreatedAt,
		title.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "title_create")
	}

	const insertLink = `INSERT INTO catalog.titlegenre (titleid, genreid) VALUES ($1, $2)`
	for _, genreID := range genreIDs {
		if _, err := tx.Exec(ctx, insertLink, title.ID, genreID); err != nil {
			return dberr.Wrap(err, "title_create_genre_link")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "title_create_commit")
	}

	return nil
}

// Update persists changes to a title's mutable fields and replaces its genre
// associations atomically.
func (repository *titleRepository) Update(ctx context.Context, title *Title, categoryID *int64, genreIDs []int64) error {
	tx, err := repository.pool.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "title_update_begin")
	}
	defer tx.Rollback(ctx)

	title.UpdatedAt = time.Now()

	const updateTitle = `
		UPDATE catalog.title
		SET name = $2, year = $3, description = $4, categoryid = $5, updatedat = $6
		WHERE id = $1`

	tag, err := tx.Exec(ctx, updateTitle,
		title.ID,
		title.Name,
		title.Year,
		title.Description,
		categoryID,
		title.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "title_update")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	// Replace genre links wholesale. The sets are small (a handful of
	// genres per title), so delete-and-reinsert beats a diff.
	if _, err := tx.Exec(ctx, `DELETE FROM catalog.titlegenre WHERE titleid = $1`, title.ID); err != nil {
		return dberr.Wrap(err, "title_update_clear_genres")
	}

	const insertLink = `INSERT INTO catalog.titlegenre (titleid, genreid) VALUES ($1, $2)`
	for _, genreID := range genreIDs {
		if _, err := tx.Exec(ctx, insertLink, title.ID, genreID); err != nil {
			return dberr.Wrap(err, "title_update_genre_link")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "title_update_commit")
	}

	return nil
}

// Delete removes a title. Reviews and comments cascade at the schema level.
func (repository *titleRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM catalog.title WHERE id = $1`

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "title_delete")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// ScoresForTitles implements [ScoreSource] with a single grouped query over
// the review table.
func (repository *titleRepository) ScoresForTitles(ctx context.Context, titleIDs []string) (map[string][]int, error) {
	if len(titleIDs) == 0 {
		return map[string][]int{}, nil
	}

	const query = `SELECT titleid, score FROM social.review WHERE titleid = ANY($1)`

	rows, err := repository.pool.Query(ctx, query, titleIDs)
	if err != nil {
		return nil, dberr.Wrap(err, "title_scores")
	}
	defer rows.Close()

	scores := make(map[string][]int)
	for rows.Next() {
		var titleID string
		var score int
		if err := rows.Scan(&titleID, &score); err != nil {
			return nil, dberr.Wrap(err, "title_scores_scan")
		}
		scores[titleID] = append(scores[titleID], score)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "title_scores_rows")
	}

	return scores, nil
}

// # Scan Helpers

// rowScanner abstracts pgx.Row and pgx.Rows for the shared title projection.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTitle hydrates a [Title] from the shared projection (without count).
func scanTitle(row rowScanner) (*Title, error) {
	title := &Title{}
	var categoryName, categorySlug *string
	var genresJSON []byte

	err := row.Scan(
		&title.ID,
		&title.Name,
		&title.Year,
		&title.Description,
		&title.CreatedAt,
		&title.UpdatedAt,
		&categoryName,
		&categorySlug,
		&genresJSON,
	)
	if err != nil {
		return nil, err
	}

	hydrateTitle(title, categoryName, categorySlug, genresJSON)
	return title, nil
}

// scanTitleWithCount hydrates a [Title] plus the window-function total.
func scanTitleWithCount(row rowScanner) (*Title, int, error) {
	title := &Title{}
	var categoryName, categorySlug *string
	var genresJSON []byte
	var totalCount int

	err := row.Scan(
		&title.ID,
		&title.Name,
		&title.Year,
		&title.Description,
		&title.CreatedAt,
		&title.UpdatedAt,
		&categoryName,
		&categorySlug,
		&genresJSON,
		&totalCount,
	)
	if err != nil {
		return nil, 0, err
	}

	hydrateTitle(title, categoryName, categorySlug, genresJSON)
	return title, totalCount, nil
}

// hydrateTitle assembles the nested category and genre slices.
func hydrateTitle(title *Title, categoryName, categorySlug *string, genresJSON []byte) {
	if categorySlug != nil {
		title.Category = &Category{Name: *categoryName, Slug: *categorySlug}
	}

	title.Genres = []Genre{}
	// json_agg output is trusted; a decode failure would indicate schema drift.
	_ = json.Unmarshal(genresJSON, &title.Genres)
}
