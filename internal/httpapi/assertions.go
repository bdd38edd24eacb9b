package httpapi

import (
	"github.com/vqtran/loanbook/internal/service/book"
	"github.com/vqtran/loanbook/internal/storage/memory"
)

// Compile-time interface assertions.
var (
	_ Book         = (*book.Service)(nil)
	_ ReadyChecker = (*memory.Store)(nil)
)
