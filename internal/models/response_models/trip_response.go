package response_models

import (
	"itinera/internal/budget"
	"itinera/internal/models/db_models"
)

type TripDetail struct {
	Trip   *db_models.Trip `json:"trip"`
	Budget budget.Summary  `json:"budget"`
}
