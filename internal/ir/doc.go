// Package ir holds the minimal tensor IR the scheduler operates on: tensors
// and the operations that produce them. The synthesis core treats *ir.Op as
// an opaque identity handle; only graph construction, annotation, and the
// scheduling strategies look inside.
package ir
