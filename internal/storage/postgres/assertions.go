package postgres

import "github.com/vqtran/loanbook/internal/storage"

var _ storage.RowStore = (*Store)(nil)
