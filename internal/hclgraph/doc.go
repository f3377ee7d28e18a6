// Package hclgraph loads stage graph definitions from HCL files. A
// definition declares stages (shape, inputs, reduction extents, placeholder
// flag) and the set of requested output buffers; the loader translates it
// into ir tensors ready for schedule synthesis.
package hclgraph
