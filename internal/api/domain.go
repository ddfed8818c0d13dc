package api

import (
	"github.com/Infernos444/insurely/internal/enrichment"
	"github.com/Infernos444/insurely/internal/estimates"
	"github.com/Infernos444/insurely/internal/predictions"
	"github.com/Infernos444/insurely/internal/prescriptions"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Estimates     estimates.System
	Predictions   predictions.System
	Prescriptions prescriptions.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	estimatesSystem := estimates.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.DocStore,
		runtime.Logger,
		runtime.Estimates,
		runtime.Pagination,
	)

	watcher := enrichment.NewWatcher(
		enrichment.NewStore(runtime.DocStore),
		&runtime.Enrichment,
		runtime.Logger,
	)

	predictionsSystem := predictions.New(
		estimatesSystem,
		watcher,
		runtime.Logger,
	)

	prescriptionsSystem := prescriptions.New(
		runtime.Storage,
		runtime.Logger,
	)

	return &Domain{
		Estimates:     estimatesSystem,
		Predictions:   predictionsSystem,
		Prescriptions: prescriptionsSystem,
	}
}
