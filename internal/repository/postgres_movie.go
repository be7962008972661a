package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/screenseat/cinema-booking-system/internal/domain"
)

type PostgresMovieRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMovieRepository(db *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		db: db,
	}
}

var movieSortColumns = map[string]string{
	"title":        "title",
	"release_date": "release_date",
	"duration":     "duration_mins",
	"id":           "id",
}

func (p *PostgresMovieRepository) GetAll(ctx context.Context, filters domain.MovieFilters) ([]*domain.Movie, *domain.Metadata, error) {
	column, ok := movieSortColumns[filters.SortColumn()]
	if !ok {
		column = "id"
	}

	query := fmt.Sprintf(`
		SELECT count(*) OVER(), id, title, description, duration_mins, genres, languages,
		       rating, poster_url, release_date, created_at
		FROM movies
		WHERE ($1 = '' OR title ILIKE '%%' || $1 || '%%')
		ORDER BY %s %s, id ASC
		LIMIT $2 OFFSET $3
	`, column, filters.SortDirection())

	rows, err := p.db.Query(ctx, query, filters.Term, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	totalRecords := 0
	movies := []*domain.Movie{}

	for rows.Next() {
		var movie domain.Movie
		err := rows.Scan(
			&totalRecords,
			&movie.ID,
			&movie.Title,
			&movie.Description,
			&movie.DurationMin,
			&movie.Genres,
			&movie.Languages,
			&movie.Rating,
			&movie.PosterUrl,
			&movie.ReleaseDate,
			&movie.CreatedAt,
		)
		if err != nil {
			return nil, nil, err
		}
		movies = append(movies, &movie)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, filters.Page, filters.PageSize)

	return movies, metadata, nil
}

func (p *PostgresMovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	query := `
		INSERT INTO movies (title, description, duration_mins, genres, languages, rating, poster_url, release_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	return p.db.QueryRow(ctx, query,
		movie.Title,
		movie.Description,
		movie.DurationMin,
		movie.Genres,
		movie.Languages,
		movie.Rating,
		movie.PosterUrl,
		movie.ReleaseDate,
	).Scan(&movie.ID, &movie.CreatedAt)
}
