package cmd

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/phil-mansfield/lightcone/cmd/memo"
	"github.com/phil-mansfield/lightcone/cosmo"
	"github.com/phil-mansfield/lightcone/errs"
	"github.com/phil-mansfield/lightcone/logging"
	"github.com/phil-mansfield/lightcone/version"
)

// EnvPrefix is the prefix of environment variables which override config
// file variables, e.g. LIGHTCONE_SIM_BOXL.
const EnvPrefix = "LIGHTCONE"

// GlobalConfig is the config file used by every mode. Lengths are in Mpc/h.
type GlobalConfig struct {
	Version string

	DirOut, DirGcat       string
	InputNameTemplate     string
	LightconeNameTemplate string
	FileAlist             string

	BoxL, ShellWidth float64
	// ShellNums lists the shells to build. If it is empty, the shells
	// covering [ZMin, ZMax] are built instead.
	ShellNums      []int
	ZMin, ZMax     float64
	IsCutsky       bool
	SnapshotCutsky int
	GalTypes       []int
	Origin         [3]float64

	Cosmo     cosmo.Params
	ZMaxTable float64

	Workers      int
	CatalogCache int
	MetricsFile  string
	LogLevel     string
	LogMode      logging.Flag
}

// configFlags maps command line flags onto the config variables they
// override.
var configFlags = []struct {
	flag, key, usage string
}{
	{"dir_out", "dir.dir_out", "output directory (overrides config file)"},
	{"dir_gcat", "dir.dir_gcat", "input directory (same)"},
	{"input_name_template", "dir.input_name_template",
		"template for name of input catalogs (same)"},
	{"lightcone_name_template", "dir.lightcone_name_template",
		"template for name of output catalogs (same)"},
	{"shellnums", "sim.shellnums",
		"list of comma separated shell numbers to compute (same)"},
	{"is_cutsky", "sim.is_cutsky", "if true, uses the same snapshot for " +
		"every shell, otherwise uses the snapshot with the closest " +
		"redshift (same)"},
	{"snapshot_cutsky", "sim.snapshot_cutsky",
		"snapshot to use if is_cutsky is set (same)"},
	{"workers", "run.workers", "number of shells built at once (same)"},
	{"metrics-file", "run.metrics_file",
		"write run metrics to this node-exporter textfile (same)"},
	{"log-level", "run.log_level", "debug, info, warn, or error (same)"},
	{"log-mode", "run.log_mode", "nil, performance, or debug (same)"},
}

// addConfigFlags registers the flags which override config variables.
func addConfigFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	for _, f := range configFlags {
		switch f.flag {
		case "is_cutsky":
			flags.Bool(f.flag, false, f.usage)
		case "snapshot_cutsky", "workers":
			flags.Int(f.flag, 0, f.usage)
		default:
			flags.String(f.flag, "", f.usage)
		}
	}
}

// newViper returns a viper instance reading the INI config file fname from
// fs, with defaults, LIGHTCONE_* environment variables, and any flags
// registered by addConfigFlags on cmd.
func newViper(fs afero.Fs, fname string, cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(fname)
	v.SetConfigType("ini")

	v.SetDefault("sim.galtypes", "1, 2, 3")
	v.SetDefault("sim.origin", "0, 0, 0")
	v.SetDefault("sim.is_cutsky", "false")
	v.SetDefault("cosmo.omega_r", "0")
	v.SetDefault("cosmo.zmax_table", "10")
	v.SetDefault("run.version", version.SourceVersion)
	v.SetDefault("run.workers", strconv.Itoa(runtime.NumCPU()))
	v.SetDefault("run.catalog_cache", "2")
	v.SetDefault("run.log_level", "info")
	v.SetDefault("run.log_mode", "nil")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		for _, f := range configFlags {
			flag := cmd.Flags().Lookup(f.flag)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(f.key, flag); err != nil {
				return nil, err
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, errs.ErrConfig.Wrapf("I couldn't read the config file "+
			"'%s': %s", fname, err)
	}
	return v, nil
}

// ReadConfig reads a config file through fs and validates it. Flags on cmd
// which were set override the file.
func ReadConfig(fs afero.Fs, fname string, cmd *cobra.Command) (*GlobalConfig, error) {
	v, err := newViper(fs, fname, cmd)
	if err != nil {
		return nil, err
	}

	config := &GlobalConfig{}
	if err = config.read(v); err != nil {
		return nil, errs.ErrConfig.Wrap(err.Error())
	}
	if err = config.validate(); err != nil {
		return nil, errs.ErrConfig.Wrap(err.Error())
	}
	return config, nil
}

func (config *GlobalConfig) read(v *viper.Viper) error {
	r := &configReader{v: v}

	config.Version = r.String("run.version")
	config.DirOut = r.String("dir.dir_out")
	config.DirGcat = r.String("dir.dir_gcat")
	config.InputNameTemplate = r.String("dir.input_name_template")
	config.LightconeNameTemplate = r.String("dir.lightcone_name_template")
	config.FileAlist = r.String("dir.file_alist")

	config.BoxL = r.Float("sim.boxl")
	config.ShellWidth = r.Float("sim.shellwidth")
	config.ShellNums = r.Ints("sim.shellnums")
	if len(config.ShellNums) == 0 {
		config.ZMin = r.Float("sim.zmin")
		config.ZMax = r.Float("sim.zmax")
	}
	config.IsCutsky = r.Bool("sim.is_cutsky")
	if config.IsCutsky {
		if !v.IsSet("sim.snapshot_cutsky") {
			return fmt.Errorf("The 'snapshot_cutsky' variable isn't set, " +
				"but 'is_cutsky' is true.")
		}
		config.SnapshotCutsky = r.Int("sim.snapshot_cutsky")
	}
	config.GalTypes = r.Ints("sim.galtypes")
	origin := r.Floats("sim.origin")
	if r.err == nil && len(origin) != 3 {
		return fmt.Errorf("The variable 'origin' has %d components, not 3.",
			len(origin))
	}
	copy(config.Origin[:], origin)

	config.Cosmo = cosmo.Params{
		H100:   r.Float("cosmo.h"),
		OmegaM: r.Float("cosmo.omega_m"),
		OmegaL: r.Float("cosmo.omega_l"),
		OmegaR: r.Float("cosmo.omega_r"),
	}
	config.ZMaxTable = r.Float("cosmo.zmax_table")

	config.Workers = r.Int("run.workers")
	config.CatalogCache = r.Int("run.catalog_cache")
	config.MetricsFile = r.String("run.metrics_file")
	config.LogLevel = r.String("run.log_level")
	mode := r.String("run.log_mode")
	if r.err != nil {
		return r.err
	}

	var err error
	config.LogMode, err = logging.ParseFlag(mode)
	return err
}

// validate checks that all the user-generated fields of GlobalConfig are
// properly set.
func (config *GlobalConfig) validate() error {
	ok, err := version.Compatible(config.Version)
	if err != nil {
		return fmt.Errorf("I couldn't parse the 'version' variable: %s",
			err.Error())
	} else if !ok {
		return fmt.Errorf("The 'version' variable is set to %s, but the "+
			"version of the source is %s.",
			config.Version, version.SourceVersion)
	}

	switch {
	case config.DirOut == "":
		return fmt.Errorf("The 'dir_out' variable isn't set.")
	case config.DirGcat == "":
		return fmt.Errorf("The 'dir_gcat' variable isn't set.")
	case config.InputNameTemplate == "":
		return fmt.Errorf("The 'input_name_template' variable isn't set.")
	case config.LightconeNameTemplate == "":
		return fmt.Errorf("The 'lightcone_name_template' variable isn't set.")
	case !config.IsCutsky && config.FileAlist == "":
		return fmt.Errorf("The 'file_alist' variable isn't set, but " +
			"'is_cutsky' is false, so I need it to choose snapshots.")
	}

	switch {
	case !(config.BoxL > 0):
		return fmt.Errorf("The variable '%s' was set to %g.",
			"boxL", config.BoxL)
	case !(config.ShellWidth > 0):
		return fmt.Errorf("The variable '%s' was set to %g.",
			"shellwidth", config.ShellWidth)
	case config.IsCutsky && config.SnapshotCutsky < 0:
		return fmt.Errorf("The variable '%s' was set to %d.",
			"snapshot_cutsky", config.SnapshotCutsky)
	case len(config.GalTypes) == 0:
		return fmt.Errorf("The 'galtypes' variable is empty.")
	case config.Workers < 1:
		return fmt.Errorf("The variable '%s' was set to %d.",
			"workers", config.Workers)
	case config.CatalogCache < 0:
		return fmt.Errorf("The variable '%s' was set to %d.",
			"catalog_cache", config.CatalogCache)
	}

	for _, i := range config.ShellNums {
		if i < 0 {
			return fmt.Errorf("The 'shellnums' variable contains the "+
				"negative shell %d.", i)
		}
	}
	if len(config.ShellNums) == 0 {
		if config.ZMin < 0 || config.ZMax < config.ZMin {
			return fmt.Errorf("The variables 'zmin' and 'zmax' were set to "+
				"%g and %g.", config.ZMin, config.ZMax)
		}
		if config.ZMax > config.ZMaxTable {
			return fmt.Errorf("The variable 'zmax' is %g, but the distance "+
				"table only extends to 'zmax_table' = %g.",
				config.ZMax, config.ZMaxTable)
		}
	}

	if err = config.Cosmo.Validate(); err != nil {
		return err
	}
	if !(config.ZMaxTable > 0) {
		return fmt.Errorf("The variable '%s' was set to %g.",
			"zmax_table", config.ZMaxTable)
	}

	if _, err = zapcore.ParseLevel(config.LogLevel); err != nil {
		return fmt.Errorf("The variable 'log_level' was set to '%s'.",
			config.LogLevel)
	}

	return nil
}

// Manifest returns the parameters which determine the contents of a shell.
func (config *GlobalConfig) Manifest() *memo.Manifest {
	m := &memo.Manifest{
		Version: version.SourceVersion,
		BoxL:    config.BoxL, ShellWidth: config.ShellWidth,
		Origin: config.Origin,
		H100:   config.Cosmo.H100, OmegaM: config.Cosmo.OmegaM,
		OmegaL: config.Cosmo.OmegaL, OmegaR: config.Cosmo.OmegaR,
		ZMaxTable: config.ZMaxTable, Cutsky: -1,
	}
	if config.IsCutsky {
		m.Cutsky = config.SnapshotCutsky
	}
	return m
}

// configReader converts config variables, remembering the first failure.
type configReader struct {
	v   *viper.Viper
	err error
}

func varName(key string) string {
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		return key[i+1:]
	}
	return key
}

func (r *configReader) fail(key, s, kind string) {
	if r.err == nil {
		r.err = fmt.Errorf("The variable '%s' was set to '%s', which I "+
			"couldn't parse as %s.", varName(key), s, kind)
	}
}

func (r *configReader) String(key string) string {
	return strings.TrimSpace(r.v.GetString(key))
}

func (r *configReader) Float(key string) float64 {
	s := r.String(key)
	if s == "" {
		if r.err == nil {
			r.err = fmt.Errorf("The variable '%s' isn't set.", varName(key))
		}
		return 0
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		r.fail(key, s, "a number")
	}
	return x
}

func (r *configReader) Int(key string) int {
	s := r.String(key)
	if s == "" {
		if r.err == nil {
			r.err = fmt.Errorf("The variable '%s' isn't set.", varName(key))
		}
		return 0
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		r.fail(key, s, "an integer")
	}
	return i
}

func (r *configReader) Bool(key string) bool {
	s := r.String(key)
	switch strings.ToLower(s) {
	case "1", "t", "true", "yes", "on":
		return true
	case "", "0", "f", "false", "no", "off":
		return false
	}
	r.fail(key, s, "a boolean")
	return false
}

// Ints parses a comma-separated list. An unset variable is an empty list.
func (r *configReader) Ints(key string) []int {
	s := r.String(key)
	if s == "" {
		return nil
	}
	toks := strToList(s)
	out := make([]int, len(toks))
	for i := range toks {
		var err error
		if out[i], err = strconv.Atoi(toks[i]); err != nil {
			r.fail(key, s, "a list of integers")
			return nil
		}
	}
	return out
}

func (r *configReader) Floats(key string) []float64 {
	s := r.String(key)
	if s == "" {
		return nil
	}
	toks := strToList(s)
	out := make([]float64, len(toks))
	for i := range toks {
		var err error
		if out[i], err = strconv.ParseFloat(toks[i], 64); err != nil {
			r.fail(key, s, "a list of numbers")
			return nil
		}
	}
	return out
}

func strToList(a string) []string {
	strs := strings.Split(a, ",")
	for i := range strs {
		strs[i] = strings.TrimSpace(strs[i])
	}
	return strs
}

// ExampleConfig returns an example configuration file.
func ExampleConfig() string {
	return fmt.Sprintf(`# Note: comments must be on their own lines.

[dir]
# Output directory. Shells which already exist here are not rebuilt, so an
# interrupted run can simply be restarted. The first run also writes
# lightcone.yaml here, and later runs with different geometry or cosmology
# are refused.
dir_out = path/to/lightcone/
# Directory holding the tracer catalogs.
dir_gcat = path/to/catalogs/
# Name of the catalog of a snapshot, a la printf(). It is passed the snapshot
# number. Catalogs are whitespace-separated text with x, y, z [Mpc/h] and
# vx, vy, vz [km/s] in the first six columns and the tracer class in the
# tenth.
input_name_template = galaxies_%%03d.txt
# Name of each output shell. It is passed the tracer class and then the shell
# number.
lightcone_name_template = lightcone_galtype%%d_%%d.fits
# Text file with snapshot numbers in the first column and scale factors in
# the second. Only needed when is_cutsky is false.
file_alist = path/to/alist.txt

[sim]
# Side length of the periodic box and thickness of each shell, in Mpc/h.
boxL = 2000
shellwidth = 25
# Shells to build. If this is not set, every shell between zmin and zmax is
# built instead.
# shellnums = 0, 1, 2
zmin = 0.0
zmax = 0.8
# If true, every shell uses snapshot_cutsky. Otherwise, each shell uses the
# snapshot closest to the redshift of its midpoint.
is_cutsky = false
# snapshot_cutsky = 100
# Tracer classes (tenth catalog column) to build shells for.
galtypes = 1, 2, 3
# Position of the observer inside the box, in Mpc/h.
origin = 0, 0, 0

[cosmo]
h = 0.6774
omega_m = 0.3089
omega_l = 0.6911
omega_r = 0
# Largest redshift in the distance-redshift table. Must be beyond the outer
# edge of the last shell.
zmax_table = 10

[run]
# Target version of lightcone. This only allows lightcone to notice when its
# source and config files are not from the same version.
version = %s
# Number of shells built at once. Defaults to the number of CPUs.
# workers = 8
# Number of parsed catalogs kept in memory between shells.
catalog_cache = 2
# If set, run metrics are written here as a node-exporter textfile.
# metrics_file = lightcone.prom
log_level = info
# nil, performance, or debug.
log_mode = nil`, version.SourceVersion)
}
