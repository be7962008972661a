package app

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/screenseat/cinema-booking-system/api"
	"github.com/screenseat/cinema-booking-system/internal/domain"
	"github.com/screenseat/cinema-booking-system/internal/mocks"
)

func TestListMovies(t *testing.T) {
	movieRepo := &mocks.MockMovieRepo{
		GetAllFunc: func(ctx context.Context, filters domain.MovieFilters) ([]*domain.Movie, *domain.Metadata, error) {
			if filters.Page != 2 || filters.PageSize != 5 {
				t.Errorf("filters = page %d size %d, want page 2 size 5", filters.Page, filters.PageSize)
			}

			movies := []*domain.Movie{
				{
					ID:          4,
					Title:       "Interstellar",
					DurationMin: 169,
					Genres:      []string{"Sci-Fi"},
					Languages:   []string{"English"},
					Rating:      "UA",
					ReleaseDate: time.Date(2014, 11, 7, 0, 0, 0, 0, time.UTC),
				},
			}
			return movies, domain.NewMetadata(11, filters.Page, filters.PageSize), nil
		},
	}

	app := newTestApplication(func(a *application) {
		a.movieRepo = movieRepo
	})

	w, r := executeRequest(t, http.MethodGet, "/movies?page=2&pageSize=5", nil)
	app.listMovies(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp api.MovieListResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}

	if len(resp.Movies) != 1 || resp.Movies[0].Title != "Interstellar" {
		t.Errorf("movies = %+v, want a single Interstellar entry", resp.Movies)
	}

	want := api.MetadataResponse{
		CurrentPage:  2,
		FirstPage:    1,
		LastPage:     3,
		PageSize:     5,
		TotalRecords: 11,
	}
	if resp.Metadata != want {
		t.Errorf("metadata = %+v, want %+v", resp.Metadata, want)
	}
}
