// Package testtypes holds wire types generated from schema.yaml. Between
// them they use every construct the generator supports.
package testtypes

//go:generate go run github.com/eigerco/bytetransport/cmd/bytegen --schema schema.yaml --out types_wire.go
