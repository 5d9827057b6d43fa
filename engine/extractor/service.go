package extractor

import (
	"context"
	"fmt"
	"go/token"
	"go/types"
	"sort"
	"time"

	"github.com/archscope/typegraph/engine/core"
	"github.com/archscope/typegraph/pkg/logger"
	"golang.org/x/tools/go/packages"
)

// service implements the Extractor interface using go/packages type
// information. Go has no sealed or static types, so those flags stay
// false; interfaces map to abstract.
type service struct {
	config *Config
}

// NewExtractor creates a new Go source extractor
func NewExtractor(config *Config) Extractor {
	if config == nil {
		config = DefaultConfig()
	}
	return &service{config: config}
}

// ExtractProject loads all packages under path and emits node facts for
// every named type plus edge facts for how those types use each other.
func (s *service) ExtractProject(ctx context.Context, path string, projectID string) (*Facts, error) {
	startTime := time.Now()
	cfg := &packages.Config{
		Context: ctx,
		Dir:     path,
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedTypesInfo |
			packages.NeedSyntax | packages.NeedFiles,
		Tests: s.config.IncludeTests,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, core.NewError(
			fmt.Errorf("failed to load packages: %w", err),
			core.ErrorCodeExtractionFailed,
			map[string]any{"path": path})
	}

	named := collectNamedTypes(pkgs)
	if len(named) == 0 {
		return nil, core.NewError(
			fmt.Errorf("no named types found under %s", path),
			core.ErrorCodeNoTypesFound, nil)
	}

	facts := &Facts{
		Nodes: make([]core.NodeFact, 0, len(named)),
		Edges: make([]core.EdgeFact, 0, len(named)*4),
	}
	for _, entry := range named {
		facts.Nodes = append(facts.Nodes, nodeFact(entry, projectID))
		facts.Edges = append(facts.Edges, s.typeEdges(entry, named)...)
	}
	facts.Edges = append(facts.Edges, implementationEdges(named)...)

	logger.Info("extraction complete",
		"path", path,
		"packages", len(pkgs),
		"types", len(facts.Nodes),
		"edges", len(facts.Edges),
		"duration", time.Since(startTime))
	return facts, nil
}

// namedEntry pairs a named type with the fileset needed for spans
type namedEntry struct {
	obj   *types.TypeName
	named *types.Named
	fset  *token.FileSet
}

// collectNamedTypes gathers every named type declared in the loaded
// packages, sorted by id for deterministic fact order.
func collectNamedTypes(pkgs []*packages.Package) map[core.ID]*namedEntry {
	result := make(map[core.ID]*namedEntry)
	for _, pkg := range pkgs {
		if pkg.Types == nil {
			continue
		}
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			obj, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || obj.IsAlias() {
				continue
			}
			named, ok := obj.Type().(*types.Named)
			if !ok {
				continue
			}
			result[typeID(obj)] = &namedEntry{obj: obj, named: named, fset: pkg.Fset}
		}
	}
	return result
}

func typeID(obj *types.TypeName) core.ID {
	if obj.Pkg() == nil {
		return core.ID(obj.Name())
	}
	return core.ID(obj.Pkg().Path() + "." + obj.Name())
}

func nodeFact(entry *namedEntry, projectID string) core.NodeFact {
	obj := entry.obj
	fact := core.NodeFact{
		ID:            typeID(obj),
		SimpleName:    obj.Name(),
		Namespace:     obj.Pkg().Path(),
		ProjectID:     projectID,
		Accessibility: core.AccessibilityInternal,
	}
	if obj.Exported() {
		fact.Accessibility = core.AccessibilityPublic
	}
	switch entry.named.Underlying().(type) {
	case *types.Interface:
		fact.Kind = core.TypeKindInterface
		fact.IsAbstract = true
	case *types.Struct:
		fact.Kind = core.TypeKindStruct
	case *types.Basic:
		fact.Kind = core.TypeKindEnum
	default:
		fact.Kind = core.TypeKindClass
	}
	if pos := entry.fset.Position(obj.Pos()); pos.IsValid() {
		fact.Span = &core.SourceSpan{File: pos.Filename, StartLine: pos.Line, EndLine: pos.Line}
	}
	return fact
}

// typeEdges emits the edges originating at one named type: field and
// embedding edges for structs, embedding for interfaces, and parameter/
// return edges for methods.
func (s *service) typeEdges(entry *namedEntry, known map[core.ID]*namedEntry) []core.EdgeFact {
	sourceID := typeID(entry.obj)
	edges := make([]core.EdgeFact, 0)

	switch underlying := entry.named.Underlying().(type) {
	case *types.Struct:
		for i := 0; i < underlying.NumFields(); i++ {
			field := underlying.Field(i)
			kind := core.KindField
			if field.Embedded() {
				kind = core.KindInheritance
			}
			edges = append(edges, referenceEdges(sourceID, field.Type(), kind, field.Name(), known)...)
		}
	case *types.Interface:
		for i := 0; i < underlying.NumEmbeddeds(); i++ {
			edges = append(edges,
				referenceEdges(sourceID, underlying.EmbeddedType(i), core.KindInheritance, "", known)...)
		}
	}

	for i := 0; i < entry.named.NumMethods(); i++ {
		method := entry.named.Method(i)
		sig, ok := method.Type().(*types.Signature)
		if !ok {
			continue
		}
		for j := 0; j < sig.Params().Len(); j++ {
			edges = append(edges,
				referenceEdges(sourceID, sig.Params().At(j).Type(), core.KindParameter, method.Name(), known)...)
		}
		for j := 0; j < sig.Results().Len(); j++ {
			edges = append(edges,
				referenceEdges(sourceID, sig.Results().At(j).Type(), core.KindReturnType, method.Name(), known)...)
		}
	}
	return edges
}

// referenceEdges resolves every known named type reachable inside t and
// emits one edge per reference. Type arguments of generic instantiations
// come out as GenericArgument edges.
func referenceEdges(
	source core.ID,
	t types.Type,
	kind core.DependencyKind,
	member string,
	known map[core.ID]*namedEntry,
) []core.EdgeFact {
	edges := make([]core.EdgeFact, 0, 1)
	for _, ref := range namedReferences(t) {
		targetID := typeID(ref.Obj())
		if targetID == source {
			continue
		}
		if _, ok := known[targetID]; !ok {
			continue
		}
		refKind := kind
		if ref.TypeArgs() != nil && ref.TypeArgs().Len() > 0 && kind == core.KindField {
			refKind = core.KindGenericArgument
		}
		edges = append(edges, core.EdgeFact{
			SourceID:   source,
			TargetID:   targetID,
			Kind:       refKind,
			MemberName: member,
		})
	}
	return edges
}

// namedReferences unwraps composite types down to their named components
func namedReferences(t types.Type) []*types.Named {
	switch v := t.(type) {
	case *types.Named:
		refs := []*types.Named{v}
		if args := v.TypeArgs(); args != nil {
			for i := 0; i < args.Len(); i++ {
				refs = append(refs, namedReferences(args.At(i))...)
			}
		}
		return refs
	case *types.Pointer:
		return namedReferences(v.Elem())
	case *types.Slice:
		return namedReferences(v.Elem())
	case *types.Array:
		return namedReferences(v.Elem())
	case *types.Chan:
		return namedReferences(v.Elem())
	case *types.Map:
		return append(namedReferences(v.Key()), namedReferences(v.Elem())...)
	default:
		return nil
	}
}

// implementationEdges emits an Interface edge for every concrete type that
// satisfies an in-module interface.
func implementationEdges(known map[core.ID]*namedEntry) []core.EdgeFact {
	ids := make([]core.ID, 0, len(known))
	for id := range known {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	edges := make([]core.EdgeFact, 0)
	for _, concreteID := range ids {
		concrete := known[concreteID]
		if types.IsInterface(concrete.named) {
			continue
		}
		for _, ifaceID := range ids {
			entry := known[ifaceID]
			iface, ok := entry.named.Underlying().(*types.Interface)
			if !ok || iface.NumMethods() == 0 {
				continue
			}
			if types.Implements(types.NewPointer(concrete.named), iface) {
				edges = append(edges, core.EdgeFact{
					SourceID: concreteID,
					TargetID: ifaceID,
					Kind:     core.KindInterface,
				})
			}
		}
	}
	return edges
}
