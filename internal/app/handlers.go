package app

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wisp167/BookSales/internal/report"
)

type saleResponse struct {
	Title string  `json:"title"`
	Shop  string  `json:"shop"`
	Price float64 `json:"price"`
	Date  string  `json:"date"`
}

func (app *Application) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	env := envelope{
		"status": "available",
		"system_info": map[string]string{
			"environment": app.config.Env,
			"version":     version,
			"stage":       app.stage.String(),
		},
	}
	if err := app.writeJSON(w, http.StatusOK, env, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) salesHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	rows, err := app.sales(r.Context(), ps.ByName("publisher"))
	if err != nil {
		if errors.Is(err, report.ErrEmptyQuery) {
			app.badRequestResponse(w, r)
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	report.Sort(rows)
	sales := make([]saleResponse, 0, len(rows))
	for _, row := range rows {
		sales = append(sales, saleResponse{
			Title: row.Title,
			Shop:  row.Shop,
			Price: row.Price,
			Date:  report.FormatDate(row),
		})
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"sales": sales}, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
