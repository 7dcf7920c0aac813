package config

// Output formats accepted by output.format.
const (
	FormatText  = "text"
	FormatSARIF = "sarif"
	FormatJSON  = "json"
)

// FileName is the config file picked up from the working directory.
const FileName = "ccheck.toml"

type Config struct {
	Version       int           `toml:"version"`
	Rules         Rules         `toml:"rules"`
	Analysis      Analysis      `toml:"analysis"`
	Output        Output        `toml:"output"`
	Log           Log           `toml:"log"`
	Observability Observability `toml:"observability"`
}

type Rules struct {
	// UnsafeFunctions are glob patterns matched against callee names. Empty
	// means the built-in deny-list.
	UnsafeFunctions []string `toml:"unsafe_functions"`
}

type Analysis struct {
	Parallel bool `toml:"parallel"`
}

type Output struct {
	DumpAST     *bool  `toml:"dump_ast"`
	Format      string `toml:"format"`
	Path        string `toml:"path"`
	ProjectRoot string `toml:"project_root"`
}

type Log struct {
	Level string `toml:"level"`
}

type Observability struct {
	MetricsTextfile string `toml:"metrics_textfile"`
	EnableTracing   bool   `toml:"enable_tracing"`
	OTLPEndpoint    string `toml:"otlp_endpoint"`
}

// DefaultConfig is the configuration used when no file is found.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func (o Output) ShouldDumpAST() bool {
	if o.DumpAST == nil {
		return true
	}
	return *o.DumpAST
}

// TracingEndpoint returns the OTLP endpoint when tracing is enabled, else "".
func (o Observability) TracingEndpoint() string {
	if !o.EnableTracing {
		return ""
	}
	return o.OTLPEndpoint
}
