package core

// DependencyKind represents how a source type uses a target type
type DependencyKind string

const (
	KindInheritance        DependencyKind = "Inheritance"
	KindInterface          DependencyKind = "Interface"
	KindField              DependencyKind = "Field"
	KindProperty           DependencyKind = "Property"
	KindMethod             DependencyKind = "Method"
	KindConstructor        DependencyKind = "Constructor"
	KindParameter          DependencyKind = "Parameter"
	KindReturnType         DependencyKind = "ReturnType"
	KindLocalVariable      DependencyKind = "LocalVariable"
	KindGenericArgument    DependencyKind = "GenericArgument"
	KindAttribute          DependencyKind = "Attribute"
	KindUsingDirective     DependencyKind = "UsingDirective"
	KindNamespaceReference DependencyKind = "NamespaceReference"
	KindStaticReference    DependencyKind = "StaticReference"
	KindCastOperation      DependencyKind = "CastOperation"
	KindTypeOfExpression   DependencyKind = "TypeOfExpression"
	KindIsExpression       DependencyKind = "IsExpression"
	KindAsExpression       DependencyKind = "AsExpression"
	KindNewExpression      DependencyKind = "NewExpression"
	KindArrayCreation      DependencyKind = "ArrayCreation"
	KindDelegate           DependencyKind = "Delegate"
	KindEvent              DependencyKind = "Event"
	KindIndexerAccess      DependencyKind = "IndexerAccess"
	KindExtensionMethod    DependencyKind = "ExtensionMethod"
	KindAnonymousType      DependencyKind = "AnonymousType"
	KindLambda             DependencyKind = "Lambda"
	KindLinqExpression     DependencyKind = "LinqExpression"
	KindMethodCall         DependencyKind = "MethodCall"
	KindFieldAccess        DependencyKind = "FieldAccess"
	KindPropertyAccess     DependencyKind = "PropertyAccess"
	KindLocalVariableType  DependencyKind = "LocalVariableType"
)

// baseWeights maps each dependency kind to its structural weight on a 1-10
// scale. The mapping is fixed; weights are never mutated after edge creation.
var baseWeights = map[DependencyKind]int{
	KindInheritance:        10,
	KindInterface:          9,
	KindConstructor:        8,
	KindField:              7,
	KindProperty:           6,
	KindMethod:             6,
	KindEvent:              6,
	KindNewExpression:      6,
	KindGenericArgument:    5,
	KindStaticReference:    5,
	KindDelegate:           5,
	KindMethodCall:         5,
	KindParameter:          4,
	KindReturnType:         4,
	KindExtensionMethod:    4,
	KindFieldAccess:        4,
	KindPropertyAccess:     4,
	KindAttribute:          3,
	KindCastOperation:      3,
	KindArrayCreation:      3,
	KindLocalVariable:      3,
	KindLocalVariableType:  3,
	KindIndexerAccess:      3,
	KindLambda:             3,
	KindLinqExpression:     3,
	KindTypeOfExpression:   2,
	KindIsExpression:       2,
	KindAsExpression:       2,
	KindAnonymousType:      2,
	KindUsingDirective:     1,
	KindNamespaceReference: 1,
}

// BaseWeight returns the structural weight for the kind, in [1,10].
// Unknown kinds weigh 1.
func (k DependencyKind) BaseWeight() int {
	if w, ok := baseWeights[k]; ok {
		return w
	}
	return 1
}
