package memory

import "github.com/vqtran/loanbook/internal/storage"

// Compile-time interface assertion for the in-memory Store.
var _ storage.RowStore = (*Store)(nil)
