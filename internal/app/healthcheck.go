package app

import (
	"net/http"

	"github.com/screenseat/cinema-booking-system/api"
)

func (app *application) healthcheck(w http.ResponseWriter, r *http.Request) {
	resp := api.HealthResponse{
		Status:      "UP",
		Environment: app.config.env,
		Version:     version,
	}

	app.writeJSON(w, http.StatusOK, resp, nil)
}
