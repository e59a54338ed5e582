// Package queryir describes statement lookups against a saved graph.
//
// A lookup is a triple pattern over one named graph: subject, predicate
// and object are each fixed to a term or left open. The store compiles
// these values instead of accepting query text, which keeps the set of
// shapes a backend must handle small and closed.
//
// Query and Predicate are sealed by unexported marker methods, so a type
// switch over them in a backend is exhaustive.
//
// In SPARQL terms, Pattern("population", <x>, nil, "v"@cs) is
//
//	SELECT ?p WHERE { GRAPH <population> { <x> ?p "v"@cs } }
package queryir
