package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/residencygrid/internal/asset"
	"github.com/specialistvlad/residencygrid/internal/config"
	"github.com/specialistvlad/residencygrid/internal/pipeline"
	"github.com/specialistvlad/residencygrid/internal/source"
	"github.com/specialistvlad/residencygrid/internal/warehouse"
	"github.com/specialistvlad/residencygrid/internal/warehouse/memstore"
	"github.com/specialistvlad/residencygrid/internal/warehouse/sqlstore"
)

// openStore connects to the configured warehouse backend.
func openStore(ctx context.Context, w config.Warehouse) (warehouse.Store, error) {
	switch w.Driver {
	case config.WarehouseMemory:
		return memstore.New(), nil
	case config.WarehouseSQLite:
		return sqlstore.Open(ctx, sqlstore.DriverSQLite, w.DSN)
	case config.WarehousePostgres:
		return sqlstore.Open(ctx, sqlstore.DriverPostgres, w.DSN)
	default:
		return nil, fmt.Errorf("unknown warehouse driver %q", w.Driver)
	}
}

// buildGraph wires the asset graph to the configured source files.
func buildGraph(cfg *config.Model) (*asset.Graph, error) {
	return pipeline.New(&source.Files{
		ProgramMaster: cfg.Sources.ProgramMaster,
		Disciplines:   cfg.Sources.Disciplines,
		Descriptions:  cfg.Sources.Descriptions,
	})
}
