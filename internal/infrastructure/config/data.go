package config

// DataConfig holds locations of the static world data files
type DataConfig struct {
	// Directory containing the map grid, load city and demand deck JSON files
	Dir string `mapstructure:"dir" validate:"required"`

	// Individual file names within Dir (overridable for tests)
	GridFile   string `mapstructure:"grid_file"`
	LoadsFile  string `mapstructure:"loads_file"`
	DemandFile string `mapstructure:"demand_file"`
}
