// Package memoryfx wires an openings client to an in-memory archive, for
// tests and demos that seed months by hand through *memstore.Store.
package memoryfx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/openings"
	"github.com/discochess/openings/internal/archive/memstore"
	"github.com/discochess/openings/internal/stats/logger"
)

// Module provides *openings.Client and the *memstore.Store behind it.
// Requires a *zap.Logger.
var Module = fx.Module("openings.memory",
	fx.Provide(
		memstore.New,
		newClient,
	),
)

// Params holds the client's dependencies.
type Params struct {
	fx.In

	Logger    *zap.Logger
	Store     *memstore.Store
	Lifecycle fx.Lifecycle
}

func newClient(p Params) (*openings.Client, error) {
	log := p.Logger.Named("openings")
	client, err := openings.New(
		openings.WithStore(p.Store),
		openings.WithStats(logger.New(log)),
		openings.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	p.Lifecycle.Append(fx.StopHook(client.Close))
	return client, nil
}
