// Package answers holds the mutable answer store: the single source of truth
// mapping field ids to entered values. Scalars and option sets share the
// Value type; option sets keep insertion order but membership is the
// contract. The store itself performs no I/O; persistence gateways encode it
// with MarshalJSON/UnmarshalJSON.
package answers
