package app

import (
	"net/http"

	"github.com/screenseat/cinema-booking-system/api"
	"github.com/screenseat/cinema-booking-system/internal/domain"
)

func (app *application) getFnbMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := app.fnbRepo.GetMenu(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.FnbMenuResponse{
		Success: true,
		Items:   make([]api.SnackResponse, 0, len(menu)),
	}
	for _, snack := range menu {
		resp.Items = append(resp.Items, api.SnackResponse{
			ID:       snack.ID,
			Name:     snack.Name,
			Category: snack.Category,
			Price:    money(snack.Price),
			Size:     snack.Size,
			IsVeg:    snack.IsVeg,
		})
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) orderFnb(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	var input api.OrderFnbRequest

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

	items := make([]domain.FnbOrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, domain.FnbOrderItem{
			ItemID:   item.ItemID,
			Quantity: item.Quantity,
		})
	}

	lines, total, err := app.fnbRepo.OrderForBooking(r.Context(), input.BookingID, user.ID, items)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := api.FnbOrderResponse{
		Success:   true,
		BookingID: input.BookingID,
		Items:     toFnbLines(lines),
		FnbTotal:  money(total),
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toFnbLines(lines []domain.FnbOrderLine) []api.FnbLineResponse {
	if len(lines) == 0 {
		return nil
	}

	out := make([]api.FnbLineResponse, 0, len(lines))
	for _, line := range lines {
		out = append(out, api.FnbLineResponse{
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: money(line.UnitPrice),
			Total:     money(line.LineTotal),
		})
	}

	return out
}
