// Package codegen generates facades and precompiled plans for contracts.
//
// Contracts are interfaces whose doc comment carries a //bind:contract
// directive.  Methods take binding hints as directives on their own doc
// comments, in the same key=value syntax as tony struct tags:
//
//	//bind:contract
//	type Person interface {
//		//bind:identity
//		Name() string
//		//bind:path=address.city
//		City() string
//		//bind:elem=string,parallel
//		Tags() []any
//		//bind:expr='"Hello " + Name()'
//		Greeting() string
//		//bind:derived
//		Initial() string
//	}
//
// The recognized method keys are identity, index=N, path=P, elem=T,
// parallel, expr=E and derived.  A derived method has its body supplied at
// run time with contract.Derive, from an init function of the package.
//
// For each contract the generated file holds a facade type implementing
// the interface over a bind.Object, the annotations, the facade
// registration and a bind.Precompile call fixing category and path per
// method.  Categories and paths are computed here the way the classify
// and resolve packages compute them at run time; the specialized builder
// rejects a plan that no longer agrees.
package codegen
