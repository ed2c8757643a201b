package hcl_adapter

// fileRoot decodes every top-level construct a configuration file may hold.
// Optional attributes are pointers so an absent attribute leaves the
// default in place. Unknown attributes and blocks are decode errors.
type fileRoot struct {
	Workers   *int            `hcl:"workers,optional"`
	Log       *logBlock       `hcl:"log,block"`
	Warehouse *warehouseBlock `hcl:"warehouse,block"`
	Sources   *sourcesBlock   `hcl:"sources,block"`
	Pipeline  *pipelineBlock  `hcl:"pipeline,block"`
	Quality   *qualityBlock   `hcl:"quality,block"`
	Jobs      []*jobBlock     `hcl:"job,block"`
}

type logBlock struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

type warehouseBlock struct {
	Driver *string `hcl:"driver,optional"`
	DSN    *string `hcl:"dsn,optional"`
}

type sourcesBlock struct {
	ProgramMaster *string `hcl:"program_master,optional"`
	Disciplines   *string `hcl:"disciplines,optional"`
	Descriptions  *string `hcl:"descriptions,optional"`
}

type pipelineBlock struct {
	CarmsYear *int `hcl:"carms_year,optional"`
}

type qualityBlock struct {
	MinCompleteness *float64 `hcl:"min_completeness,optional"`
	MinValidity     *float64 `hcl:"min_validity,optional"`
	MinCarmsYear    *int     `hcl:"min_carms_year,optional"`
	MaxCarmsYear    *int     `hcl:"max_carms_year,optional"`
}

type jobBlock struct {
	Name        string         `hcl:"name,label"`
	Description string         `hcl:"description,optional"`
	All         bool           `hcl:"all,optional"`
	Groups      []string       `hcl:"groups,optional"`
	Assets      []string       `hcl:"assets,optional"`
	Schedule    *scheduleBlock `hcl:"schedule,block"`
}

type scheduleBlock struct {
	Cron string `hcl:"cron"`
}
