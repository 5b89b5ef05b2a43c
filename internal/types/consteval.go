package types

// InheritableMarker is the built-in marker type intersected into a class's
// Impl to mark it subclassable (spec.md §4.2 "Compile-time evaluation").
var InheritableMarker Type = Mono{Name: "InheritableType"}

// ClassFunc constructs a new nominal class type from a requirement type and
// an optional implementation type (the `Class(Requirement, Impl?)` builtin).
func ClassFunc(name string, requirement Type, impl Type) Mono {
	_ = requirement
	_ = impl
	return Mono{Name: name}
}

// InheritFunc constructs a subclass of super with an optional own
// implementation and additional requirement (the `Inherit(Super, Impl?,
// Additional?)` builtin).
func InheritFunc(name string, super Type, impl Type, additional Type) Mono {
	_ = super
	_ = impl
	_ = additional
	return Mono{Name: name}
}

// InheritableFunc marks a class type as subclassable by intersecting its
// Impl with InheritableMarker (the `Inheritable(Class)` builtin).
func InheritableFunc(class Type) Type {
	return And{L: class, R: InheritableMarker}
}

// TraitFunc constructs a new trait type, mirroring ClassFunc.
func TraitFunc(name string, requirement Type, impl Type) Mono {
	_ = requirement
	_ = impl
	return Mono{Name: name}
}

// SubsumeFunc constructs a sub-trait that subsumes super, mirroring
// InheritFunc.
func SubsumeFunc(name string, super Type, impl Type, additional Type) Mono {
	_ = super
	_ = impl
	_ = additional
	return Mono{Name: name}
}
