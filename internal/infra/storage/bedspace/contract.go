package bedspace

import "github.com/m04kA/SMC-AccommodationService/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
