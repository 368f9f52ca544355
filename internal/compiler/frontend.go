package compiler

import "sync"

var (
	builderMu      sync.RWMutex
	defaultBuilder ASTBuilder
)

// RegisterASTBuilder installs the front-end parser the driver uses.
// The core only depends on the ASTBuilder boundary; the concrete
// parser is linked in by the binary.
func RegisterASTBuilder(builder ASTBuilder) {
	builderMu.Lock()
	defer builderMu.Unlock()
	defaultBuilder = builder
}

// DefaultASTBuilder returns the registered front end, nil when none is
// linked in
func DefaultASTBuilder() ASTBuilder {
	builderMu.RLock()
	defer builderMu.RUnlock()
	return defaultBuilder
}
