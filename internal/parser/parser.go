// Package parser reflects annotated declarations from a translation unit
// into a registry.
package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.uber.org/multierr"

	"github.com/jbpagliuco/CppRefl/pkg/frontend"
	"github.com/jbpagliuco/CppRefl/pkg/model"
	"github.com/jbpagliuco/CppRefl/pkg/parser"
	"github.com/jbpagliuco/CppRefl/pkg/registry"
)

var (
	ErrUnhandledCursor  = errors.New("unhandled cursor")
	ErrUnresolvableType = errors.New("unresolvable type")
	ErrMissingTemplate  = errors.New("missing template")
	ErrDiagnostics      = errors.New("frontend diagnostics")
	ErrNoTranslation    = errors.New("failed to create translation unit")
)

// MaxDiagnostics caps how many frontend diagnostics are inspected.
const MaxDiagnostics = 100

// DiagnosticsError carries the frontend diagnostics that failed a parse.
type DiagnosticsError struct {
	Err error
}

func (e *DiagnosticsError) Error() string {
	errs := multierr.Errors(e.Err)
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = err.Error()
	}
	return fmt.Sprintf("%d frontend diagnostic(s):\n%s", len(errs), strings.Join(lines, "\n"))
}

func (e *DiagnosticsError) Is(target error) bool { return target == ErrDiagnostics }

func (e *DiagnosticsError) Unwrap() error { return e.Err }

// Errors returns the individual diagnostics.
func (e *DiagnosticsError) Errors() []error { return multierr.Errors(e.Err) }

// Parser holds state of a reflection run over one translation unit.
type Parser struct {
	opts   *parser.Options
	fe     frontend.Frontend
	reg    *registry.Registry
	logger *slog.Logger

	// typeCursors remembers the declaring cursor of every resolved type so
	// specializations can walk their generic template.
	typeCursors map[*model.TypeInfo]frontend.Cursor
}

// New returns a Parser filling reg. A nil logger uses slog.Default.
func New(fe frontend.Frontend, reg *registry.Registry, opts *parser.Options, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		opts:        opts,
		fe:          fe,
		reg:         reg,
		logger:      logger,
		typeCursors: make(map[*model.TypeInfo]frontend.Cursor),
	}
}

func (p *Parser) Registry() *registry.Registry { return p.reg }

// Parse reflects opts.InputFile.
func (p *Parser) Parse(ctx context.Context) error {
	tu, err := p.fe.Parse(ctx, frontend.Request{
		InputFile:    p.opts.InputFile,
		IncludePaths: p.opts.IncludePaths,
		Definitions:  p.opts.Definitions,
		Args:         p.opts.FrontendArgs,
	})
	if err != nil {
		return err
	}
	if tu == nil || tu.Root() == nil {
		return fmt.Errorf("%w: %s", ErrNoTranslation, p.opts.InputFile)
	}
	if err := p.checkDiagnostics(tu.Diagnostics()); err != nil {
		return err
	}
	if err := p.Reflect(tu.Root()); err != nil {
		return err
	}
	p.logger.Debug("reflected translation unit",
		"input", p.opts.InputFile,
		"classes", len(p.reg.Classes()),
		"enums", len(p.reg.Enums()),
		"aliases", len(p.reg.Aliases()),
		"functions", len(p.reg.Functions()),
	)
	return nil
}

// checkDiagnostics fails on fatal diagnostics, and on errors and warnings
// when configured to. Only the first MaxDiagnostics are looked at.
func (p *Parser) checkDiagnostics(diags []frontend.Diagnostic) error {
	if len(diags) > MaxDiagnostics {
		diags = diags[:MaxDiagnostics]
	}
	var errs error
	for _, d := range diags {
		raise := false
		switch d.Severity {
		case frontend.SeverityWarning:
			raise = p.opts.RaiseWarnings
		case frontend.SeverityError:
			raise = p.opts.RaiseErrors
		case frontend.SeverityFatal:
			raise = true
		}
		if raise {
			errs = multierr.Append(errs, d)
		} else if d.Severity >= frontend.SeverityWarning {
			p.logger.Warn("frontend diagnostic", "file", d.Location.File, "line", d.Location.Line, "severity", d.Severity.String(), "message", d.Message)
		}
	}
	if errs != nil {
		return &DiagnosticsError{Err: errs}
	}
	return nil
}

// Reflect walks the tree under root.
func (p *Parser) Reflect(root frontend.Cursor) error {
	return p.reflectCursor(root)
}

func (p *Parser) reflectCursor(c frontend.Cursor) error {
	switch c.Kind() {
	case frontend.CursorTranslationUnit, frontend.CursorNamespace:
		return p.reflectChildren(c)
	case frontend.CursorClassDecl, frontend.CursorStructDecl, frontend.CursorClassTemplate,
		frontend.CursorEnumDecl, frontend.CursorTypeAliasDecl:
		if !c.IsDefinition() {
			return nil
		}
	case frontend.CursorFunctionDecl:
	default:
		return nil
	}

	if !p.withinModule(c) {
		return nil
	}
	meta, err := cursorMetadata(c)
	if err != nil {
		return err
	}
	if !meta.IsReflected {
		return nil
	}

	switch c.Kind() {
	case frontend.CursorEnumDecl:
		err = p.reflectEnum(c, meta)
	case frontend.CursorTypeAliasDecl:
		err = p.reflectAlias(c, meta)
	case frontend.CursorFunctionDecl:
		err = p.reflectFunction(c, meta)
	default:
		_, err = p.reflectDeclaredClass(c)
	}
	if err != nil {
		return err
	}
	return p.reflectChildren(c)
}

func (p *Parser) reflectChildren(c frontend.Cursor) error {
	for _, child := range c.Children() {
		if err := p.reflectCursor(child); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) reflectEnum(c frontend.Cursor, meta model.MetadataInfo) error {
	ti, err := p.resolveCursor(c)
	if err != nil {
		return err
	}
	if p.reg.GetEnum(ti.QualifiedName()) != nil {
		return nil
	}
	e := &model.EnumInfo{Type: ti, Metadata: meta}
	for _, child := range c.Children() {
		if child.Kind() != frontend.CursorEnumConstantDecl {
			continue
		}
		vm, err := cursorMetadata(child)
		if err != nil {
			return err
		}
		if child.Spelling() == BodyMarker {
			line := vm.SourceLocation.Line
			e.GeneratedBodyLine = &line
			continue
		}
		e.Values = append(e.Values, &model.EnumValueInfo{Name: child.Spelling(), Value: child.EnumValue(), Metadata: vm})
	}
	p.reg.AddEnum(e)
	return nil
}

// reflectAlias records a type alias and links it to the class or enum it
// names. An alias naming a specialization nobody reflected yet reflects it.
func (p *Parser) reflectAlias(c frontend.Cursor, meta model.MetadataInfo) error {
	t := c.Type()
	if t == nil {
		return fmt.Errorf("%w: alias %s has no type", ErrUnresolvableType, c.Spelling())
	}
	ti, err := p.resolveType(t)
	if err != nil {
		return err
	}
	if p.reg.GetAlias(ti.QualifiedName()) != nil {
		return nil
	}
	aliased := t.Canonical()
	at, err := p.resolveType(aliased)
	if err != nil {
		return err
	}
	a := &model.AliasInfo{Type: ti, AliasType: at, Metadata: meta}
	switch aliased.Kind() {
	case frontend.TypeRecord:
		class := p.reg.GetClass(at.QualifiedName())
		if class == nil && at.Template.IsSpecialized() {
			if class, err = p.reflectClassType(aliased); err != nil {
				return err
			}
		}
		if class != nil {
			a.AliasClass = class.Type.QualifiedName()
		}
	case frontend.TypeEnum:
		if e := p.reg.GetEnum(at.QualifiedName()); e != nil {
			a.AliasEnum = e.Type.QualifiedName()
		}
	}
	p.reg.AddAlias(a)
	return nil
}

func (p *Parser) reflectFunction(c frontend.Cursor, meta model.MetadataInfo) error {
	id := cursorIdentity(c)
	if p.reg.GetFunction(id.QualifiedName()) != nil {
		return nil
	}
	ret, args, err := p.callable(c)
	if err != nil {
		return err
	}
	return p.reg.AddFunction(&model.FunctionInfo{Identity: id, ReturnType: ret, ArgumentTypes: args, Metadata: meta})
}
