// Package rdf provides the term and statement types shared by every other
// qbcube package.
//
// This package contains value types only. All other internal packages
// import rdf; rdf imports nothing internal.
//
// Key design constraints:
//   - Term is sealed: only IRI, Blank and Literal implement it
//   - Subjects are Resources (IRI or Blank), never literals
//   - Statement is comparable, so it can key a map directly
//   - Literals are built through constructors so that equal values have
//     identical representations (plain strings always carry xsd:string,
//     language-tagged strings always carry rdf:langString)
package rdf
