package parser

import "github.com/kestrel-db/sqlsyntax/ast"

// slab is a typed bump allocator. It hands out pointers into a chunk of
// values and starts a new, larger chunk when the current one is full, so a
// parse allocates a handful of chunks instead of one object per node.
//
// Chunks are ordinary Go slices, so the garbage collector sees every pointer
// stored in a node. A chunk is never reused: nodes already handed out stay
// valid for as long as the caller holds them.
type slab[T any] struct {
	chunk []T
}

const (
	initialChunkLen = 32
	maxChunkLen     = 4096
	growFactor      = 2
)

func (s *slab[T]) alloc() *T {
	if len(s.chunk) == cap(s.chunk) {
		size := cap(s.chunk) * growFactor
		if size < initialChunkLen {
			size = initialChunkLen
		}
		if size > maxChunkLen {
			size = maxChunkLen
		}
		s.chunk = make([]T, 0, size)
	}
	s.chunk = s.chunk[:len(s.chunk)+1]
	return &s.chunk[len(s.chunk)-1]
}

// arena owns the slabs for the expression nodes, which dominate the node
// count of a typical statement.
type arena struct {
	idents   slab[ast.Ident]
	numbers  slab[ast.Number]
	strings  slab[ast.StringLit]
	unaries  slab[ast.UnaryExpr]
	binaries slab[ast.BinaryExpr]
}

// reset forgets the current chunks. Trees from earlier parses keep theirs.
func (a *arena) reset() {
	*a = arena{}
}

func arenaNode[T any](s *slab[T], v T) *T {
	n := s.alloc()
	*n = v
	return n
}
