package app

import (
	"net/http"
	"strconv"
	"time"

	"github.com/screenseat/cinema-booking-system/api"
	"github.com/screenseat/cinema-booking-system/internal/domain"
)

func (app *application) listMovies(w http.ResponseWriter, r *http.Request) {
	filters := domain.MovieFilters{
		Page:     1,
		PageSize: 20,
		Term:     r.URL.Query().Get("term"),
		Sort:     r.URL.Query().Get("sort"),
	}

	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && page > 0 {
		filters.Page = page
	}
	if pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize")); err == nil && pageSize > 0 && pageSize <= 100 {
		filters.PageSize = pageSize
	}
	if filters.Sort == "" {
		filters.Sort = "-release_date"
	}

	movies, metadata, err := app.movieRepo.GetAll(r.Context(), filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.MovieListResponse{
		Success: true,
		Movies:  make([]api.MovieResponse, 0, len(movies)),
		Metadata: api.MetadataResponse{
			CurrentPage:  metadata.CurrentPage,
			FirstPage:    metadata.FirstPage,
			LastPage:     metadata.LastPage,
			PageSize:     metadata.PageSize,
			TotalRecords: metadata.TotalRecords,
		},
	}
	for _, movie := range movies {
		resp.Movies = append(resp.Movies, toMovieResponse(movie))
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createMovie(w http.ResponseWriter, r *http.Request) {
	var input api.CreateMovieRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	releaseDate, err := time.Parse("2006-01-02", input.ReleaseDate)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	movie := domain.Movie{
		Title:       input.Title,
		Description: input.Description,
		DurationMin: input.DurationMin,
		Genres:      input.Genres,
		Languages:   input.Languages,
		Rating:      input.Rating,
		PosterUrl:   input.PosterUrl,
		ReleaseDate: releaseDate,
	}

	err = app.movieRepo.Create(r.Context(), &movie)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.CreatedResponse{
		Success: true,
		ID:      movie.ID,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toMovieResponse(movie *domain.Movie) api.MovieResponse {
	return api.MovieResponse{
		ID:          movie.ID,
		Title:       movie.Title,
		Description: movie.Description,
		DurationMin: movie.DurationMin,
		Genres:      movie.Genres,
		Languages:   movie.Languages,
		Rating:      movie.Rating,
		PosterUrl:   movie.PosterUrl,
		ReleaseDate: movie.ReleaseDate.Format("2006-01-02"),
		CreatedAt:   movie.CreatedAt,
	}
}
