// Package gateway performs creates and updates against the row store,
// composing the schema adapter (naming-convention retry) and the contract-id
// issuer (collision retry).
//
// The store's column-naming convention and primary-key field are resolved
// lazily and cached in a session-scoped Config owned by the gateway. The
// cache is advisory, not authoritative: every write attempts the cached mode
// first and falls back through the remaining candidates. The remote store is
// the sole authority on identifier uniqueness, so a uniqueness violation is
// an expected, recoverable condition.
package gateway

import (
	"context"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/vqtran/loanbook/internal/contractid"
	"github.com/vqtran/loanbook/internal/loan"
	"github.com/vqtran/loanbook/internal/schema"
	"github.com/vqtran/loanbook/internal/storage"
)

// maxCreateAttempts bounds the outer create loop: the initial pass plus one
// pass per regenerated identifier.
const maxCreateAttempts = 7

// Config is the session-scoped naming state, mutated only through the
// gateway's own return path.
type Config struct {
	Mode schema.Mode
	// PrimaryKey is the canonical primary-key field ("contractId" or "id"),
	// rendered into a concrete column name per mode at write time.
	PrimaryKey string
}

// DefaultConfig assumes the canonical convention until a store round-trip
// says otherwise.
func DefaultConfig() Config {
	return Config{Mode: schema.ModeCamel, PrimaryKey: "contractId"}
}

// Gateway mediates all store access for one session.
type Gateway struct {
	store storage.RowStore
	cfg   Config
	// resolved marks that cfg was detected from a loaded sample; detection
	// runs once per session and later loads keep the held state.
	resolved bool
	log      *slog.Logger
}

// New constructs a gateway over the given store.
func New(store storage.RowStore, log *slog.Logger) *Gateway {
	return &Gateway{store: store, cfg: DefaultConfig(), log: log}
}

// Config returns the current session naming state.
func (g *Gateway) Config() Config { return g.cfg }

// candidateModes returns the naming modes to try, cached mode first,
// deduplicated.
func (g *Gateway) candidateModes() []schema.Mode {
	order := []schema.Mode{g.cfg.Mode, schema.ModeCamel, schema.ModeLower, schema.ModeSnake}
	out := order[:0]
	seen := make(map[schema.Mode]struct{}, len(order))
	for _, m := range order {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

func (g *Gateway) lockMode(m schema.Mode) {
	if g.cfg.Mode != m {
		g.log.Info("naming mode locked", "mode", m.String())
		g.cfg.Mode = m
	}
}

// createState drives the per-call state machine of Create.
type createState int

const (
	// stateTryingMode attempts the insert under the current candidate mode.
	stateTryingMode createState = iota
	// stateRegenerating replaces the rejected identifier and restarts the
	// candidate modes from the top.
	stateRegenerating
	// stateExhausted surfaces the last error.
	stateExhausted
)

// Create inserts a new contract. Naming-mode failures advance to the next
// candidate mode; a uniqueness violation regenerates the identifier
// (augmenting the caller's taken-set) and restarts the whole mode sequence,
// because the identifier, not the mode, was at fault. All modes failing
// without a uniqueness violation is terminal. Attempts are strictly
// sequential; parallel regeneration would defeat the taken-set check.
func (g *Gateway) Create(ctx context.Context, l loan.Loan, taken map[int64]struct{}) (loan.Loan, error) {
	var lastErr error
	modes := g.candidateModes()
	modeIdx := 0
	attempt := 0
	state := stateTryingMode
	for {
		switch state {
		case stateTryingMode:
			mode := modes[modeIdx]
			stored, err := g.store.Insert(ctx, schema.Project(schema.ToRow(l), mode))
			if err == nil {
				g.lockMode(mode)
				return schema.Normalize(stored), nil
			}
			lastErr = err
			switch classify(err) {
			case classUniqueViolation:
				state = stateRegenerating
			default:
				g.log.Debug("insert rejected under naming mode", "mode", mode.String(), "err", err)
				modeFallbacks.Inc()
				modeIdx++
				if modeIdx == len(modes) {
					state = stateExhausted
				}
			}
		case stateRegenerating:
			identifierConflicts.Inc()
			taken[l.ContractID] = struct{}{}
			rejected := l.ContractID
			l.ContractID = contractid.Issue(taken, loan.IDDigits)
			g.log.Warn("contract id collision, reissuing", "rejected", rejected, "reissued", l.ContractID)
			attempt++
			if attempt == maxCreateAttempts {
				state = stateExhausted
				break
			}
			modes = g.candidateModes()
			modeIdx = 0
			state = stateTryingMode
		case stateExhausted:
			return loan.Loan{}, lastErr
		}
	}
}

// Update patches the row keyed by the session's primary-key field, rendered
// into the candidate mode's column name alongside the patch. A single pass
// over the candidate modes: updates are keyed on an existing row, so the
// patch itself cannot raise a uniqueness violation.
func (g *Gateway) Update(ctx context.Context, id int64, patch storage.Row) (loan.Loan, error) {
	var lastErr error
	for i, mode := range g.candidateModes() {
		stored, err := g.store.UpdateBy(ctx, schema.Rename(g.cfg.PrimaryKey, mode), id, schema.Project(patch, mode))
		if err == nil {
			g.lockMode(mode)
			return schema.Normalize(stored), nil
		}
		lastErr = err
		if i > 0 {
			modeFallbacks.Inc()
		}
	}
	return loan.Loan{}, lastErr
}

// Load fetches all of an owner's contracts, resolving the naming mode and
// primary-key field from the first loaded sample once per session, and
// returns them normalized and sorted by contract id.
func (g *Gateway) Load(ctx context.Context, owner uuid.UUID) ([]loan.Loan, error) {
	rows, err := g.store.SelectBy(ctx, "owner", owner.String())
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 && !g.resolved {
		g.cfg.Mode = schema.Detect(rows[0])
		g.cfg.PrimaryKey = schema.DetectPrimaryKey(rows[0])
		g.resolved = true
	}
	out := make([]loan.Loan, 0, len(rows))
	for _, r := range rows {
		out = append(out, schema.Normalize(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ContractID < out[j].ContractID })
	return out, nil
}

// DeleteOwner removes every contract carrying the owner tag.
func (g *Gateway) DeleteOwner(ctx context.Context, owner uuid.UUID) error {
	return g.store.DeleteBy(ctx, "owner", owner.String())
}
