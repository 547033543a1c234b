package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jbpagliuco/CppRefl/pkg/registry"
)

// Options control reflection of a file and collection of a module.
//
// InputFile        – header to reflect (file pass only)
// ModuleName       – name of the module; names the aggregate registry and module code
// ModuleDir        – root of the module's sources; declarations outside it are skipped
// OutDir           – where registries and generated code are written
// IncludePaths     – include directories handed to the frontend
// Definitions      – preprocessor definitions handed to the frontend
// FrontendArgs     – extra frontend arguments
// AstDump          – explicit cursor dump to read instead of <input><AstSuffix>
// AstSuffix        – suffix locating a file's cursor dump
// RaiseWarnings    – frontend warnings fail the file pass
// RaiseErrors      – frontend errors fail the file pass
// RegistryFormat   – json or msgpack
// HashFunction     – crc32 or xxhash
// StrictMerge      – module collection refuses conflicting declarations
// OpenAttempts     – registry file open attempts before giving up
// OpenBackoff      – wait between attempts
// DeleteEmptyFiles – remove generated files for inputs with nothing reflected
// Concurrency      – registry decoding parallelism, 0 for GOMAXPROCS
// Manifest         – module manifest path, relative to OutDir unless absolute
// ExcludeTags      – members carrying one of these tags are left out of generated code
type Options struct {
	InputFile        string        `json:"input_file,omitempty" yaml:"input_file,omitempty" toml:"input_file,omitempty" mapstructure:"input_file,omitempty"`
	ModuleName       string        `json:"module_name,omitempty" yaml:"module_name,omitempty" toml:"module_name,omitempty" mapstructure:"module_name,omitempty"`
	ModuleDir        string        `json:"module_dir,omitempty" yaml:"module_dir,omitempty" toml:"module_dir,omitempty" mapstructure:"module_dir,omitempty"`
	OutDir           string        `json:"out_dir,omitempty" yaml:"out_dir,omitempty" toml:"out_dir,omitempty" mapstructure:"out_dir,omitempty"`
	IncludePaths     []string      `json:"include_paths,omitempty" yaml:"include_paths,omitempty" toml:"include_paths,omitempty" mapstructure:"include_paths,omitempty"`
	Definitions      []string      `json:"definitions,omitempty" yaml:"definitions,omitempty" toml:"definitions,omitempty" mapstructure:"definitions,omitempty"`
	FrontendArgs     []string      `json:"frontend_args,omitempty" yaml:"frontend_args,omitempty" toml:"frontend_args,omitempty" mapstructure:"frontend_args,omitempty"`
	AstDump          string        `json:"ast_dump,omitempty" yaml:"ast_dump,omitempty" toml:"ast_dump,omitempty" mapstructure:"ast_dump,omitempty"`
	AstSuffix        string        `json:"ast_suffix,omitempty" yaml:"ast_suffix,omitempty" toml:"ast_suffix,omitempty" mapstructure:"ast_suffix,omitempty"`
	RaiseWarnings    bool          `json:"raise_warnings,omitempty" yaml:"raise_warnings,omitempty" toml:"raise_warnings,omitempty" mapstructure:"raise_warnings,omitempty"`
	RaiseErrors      bool          `json:"raise_errors,omitempty" yaml:"raise_errors,omitempty" toml:"raise_errors,omitempty" mapstructure:"raise_errors,omitempty"`
	RegistryFormat   string        `json:"registry_format,omitempty" yaml:"registry_format,omitempty" toml:"registry_format,omitempty" mapstructure:"registry_format,omitempty"`
	HashFunction     string        `json:"hash_function,omitempty" yaml:"hash_function,omitempty" toml:"hash_function,omitempty" mapstructure:"hash_function,omitempty"`
	StrictMerge      bool          `json:"strict_merge,omitempty" yaml:"strict_merge,omitempty" toml:"strict_merge,omitempty" mapstructure:"strict_merge,omitempty"`
	OpenAttempts     int           `json:"open_attempts,omitempty" yaml:"open_attempts,omitempty" toml:"open_attempts,omitempty" mapstructure:"open_attempts,omitempty"`
	OpenBackoff      time.Duration `json:"open_backoff,omitempty" yaml:"open_backoff,omitempty" toml:"open_backoff,omitempty" mapstructure:"open_backoff,omitempty"`
	DeleteEmptyFiles bool          `json:"delete_empty_files,omitempty" yaml:"delete_empty_files,omitempty" toml:"delete_empty_files,omitempty" mapstructure:"delete_empty_files,omitempty"`
	Concurrency      int           `json:"concurrency,omitempty" yaml:"concurrency,omitempty" toml:"concurrency,omitempty" mapstructure:"concurrency,omitempty"`
	Manifest         string        `json:"manifest,omitempty" yaml:"manifest,omitempty" toml:"manifest,omitempty" mapstructure:"manifest,omitempty"`
	ExcludeTags      []string      `json:"exclude_tags,omitempty" yaml:"exclude_tags,omitempty" toml:"exclude_tags,omitempty" mapstructure:"exclude_tags,omitempty"`
}

const DefaultManifest = "reflmodule.yaml"

func NewOptions() *Options {
	return &Options{
		OutDir:         "Generated",
		AstSuffix:      ".ast.yaml",
		RaiseErrors:    true,
		RegistryFormat: string(registry.FormatJSON),
		HashFunction:   registry.HashCRC32,
		StrictMerge:    true,
		OpenAttempts:   registry.DefaultRetry.Attempts,
		OpenBackoff:    registry.DefaultRetry.Backoff,
		Manifest:       DefaultManifest,
	}
}

// Normalize fills defaults, makes directories absolute and validates
// the registry format and hash function names.
func (o *Options) Normalize() error {
	if o.ModuleDir == "" {
		return errors.New("module directory is required")
	}
	if o.ModuleName == "" {
		o.ModuleName = filepath.Base(filepath.Clean(o.ModuleDir))
	}
	if o.OutDir == "" {
		o.OutDir = "Generated"
	}
	var err error
	for _, p := range []*string{&o.ModuleDir, &o.OutDir, &o.InputFile, &o.AstDump} {
		if *p == "" {
			continue
		}
		if *p, err = filepath.Abs(*p); err != nil {
			return err
		}
	}
	if o.AstSuffix == "" {
		o.AstSuffix = ".ast.yaml"
	}
	format, err := registry.ParseFormat(o.RegistryFormat)
	if err != nil {
		return err
	}
	o.RegistryFormat = string(format)
	if _, err := registry.HashByName(o.HashFunction); err != nil {
		return err
	}
	o.HashFunction = strings.ToLower(o.HashFunction)
	if o.HashFunction == "" {
		o.HashFunction = registry.HashCRC32
	}
	if o.OpenAttempts < 1 {
		o.OpenAttempts = 1
	}
	if o.OpenBackoff < 0 {
		return fmt.Errorf("negative open backoff %s", o.OpenBackoff)
	}
	if o.Manifest == "" {
		o.Manifest = DefaultManifest
	}
	if !filepath.IsAbs(o.Manifest) {
		o.Manifest = filepath.Join(o.OutDir, o.Manifest)
	}
	o.ExcludeTags = splitTagList(o.ExcludeTags)
	return nil
}

func (o *Options) Format() registry.Format { return registry.Format(o.RegistryFormat) }

func (o *Options) Retry() registry.Retry {
	return registry.Retry{Attempts: o.OpenAttempts, Backoff: o.OpenBackoff}
}

// RegistryOptions configures registries built or loaded under these options.
func (o *Options) RegistryOptions() []registry.Option {
	fn, err := registry.HashByName(o.HashFunction)
	if err != nil {
		return nil
	}
	return []registry.Option{registry.WithHashFunction(fn)}
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithInputFile(f string) Option  { return func(o *Options) { o.InputFile = f } }
func WithModuleName(n string) Option { return func(o *Options) { o.ModuleName = n } }
func WithModuleDir(d string) Option  { return func(o *Options) { o.ModuleDir = d } }
func WithOutDir(d string) Option     { return func(o *Options) { o.OutDir = d } }
func WithIncludePaths(paths ...string) Option {
	return func(o *Options) { o.IncludePaths = append(o.IncludePaths, paths...) }
}
func WithDefinitions(defs ...string) Option {
	return func(o *Options) { o.Definitions = append(o.Definitions, defs...) }
}
func WithFrontendArgs(args ...string) Option {
	return func(o *Options) { o.FrontendArgs = append(o.FrontendArgs, args...) }
}
func WithAstDump(f string) Option   { return func(o *Options) { o.AstDump = f } }
func WithAstSuffix(s string) Option { return func(o *Options) { o.AstSuffix = s } }
func WithRaiseWarnings() Option     { return func(o *Options) { o.RaiseWarnings = true } }
func WithIgnoreErrors() Option      { return func(o *Options) { o.RaiseErrors = false } }
func WithRegistryFormat(f registry.Format) Option {
	return func(o *Options) { o.RegistryFormat = string(f) }
}
func WithHashFunction(name string) Option { return func(o *Options) { o.HashFunction = name } }
func WithStrictMerge(strict bool) Option  { return func(o *Options) { o.StrictMerge = strict } }
func WithOpenRetry(attempts int, backoff time.Duration) Option {
	return func(o *Options) { o.OpenAttempts, o.OpenBackoff = attempts, backoff }
}
func WithDeleteEmptyFiles() Option    { return func(o *Options) { o.DeleteEmptyFiles = true } }
func WithConcurrency(n int) Option    { return func(o *Options) { o.Concurrency = n } }
func WithManifest(path string) Option { return func(o *Options) { o.Manifest = path } }
func WithExcludeTags(tags ...string) Option {
	return func(o *Options) { o.ExcludeTags = append(o.ExcludeTags, tags...) }
}

// Apply builds Options from the defaults and opts.
func Apply(opts ...Option) *Options {
	o := NewOptions()
	for _, fn := range opts {
		fn(o)
	}
	return o
}
