package testutils

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/noble-assets/cctp-relay/internal/bridge"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBurnCapExceeded     = errors.New("burn amount exceeds per-message cap")
	ErrNothingInCustody    = errors.New("burn exceeds authorized custody")
)

// Ledger is an in-memory BurnLedger for tests. It keeps per-token caller
// balances, a custody balance for tokens pulled in by TransferIn, an
// authorized allowance set by Authorize, and a per-message burn cap. Nonces
// are issued monotonically from 1.
//
// Snapshot/Restore capture and roll back the full ledger state, so tests can
// run requests under a transactional unit of work.
type Ledger struct {
	Cap           *uint256.Int // nil means uncapped
	FailAuthorize error        // next Authorize fails with this error, then clears

	balances  map[bridge.Address]map[bridge.Address]*uint256.Int // token -> holder -> balance
	custody   map[bridge.Address]*uint256.Int                    // token -> custody balance
	allowance map[bridge.Address]*uint256.Int                    // token -> authorized amount
	nonce     uint64

	snapshot *ledgerSnapshot
}

type ledgerSnapshot struct {
	balances  map[bridge.Address]map[bridge.Address]*uint256.Int
	custody   map[bridge.Address]*uint256.Int
	allowance map[bridge.Address]*uint256.Int
	nonce     uint64
}

func NewLedger() *Ledger {
	return &Ledger{
		balances:  make(map[bridge.Address]map[bridge.Address]*uint256.Int),
		custody:   make(map[bridge.Address]*uint256.Int),
		allowance: make(map[bridge.Address]*uint256.Int),
	}
}

// Fund credits holder with amount of token.
func (l *Ledger) Fund(token, holder bridge.Address, amount *uint256.Int) {
	if l.balances[token] == nil {
		l.balances[token] = make(map[bridge.Address]*uint256.Int)
	}
	bal := l.balanceOf(token, holder)
	l.balances[token][holder] = new(uint256.Int).Add(bal, amount)
}

// Balance reports holder's balance of token.
func (l *Ledger) Balance(token, holder bridge.Address) *uint256.Int {
	return new(uint256.Int).Set(l.balanceOf(token, holder))
}

// Custody reports the ledger's custody balance of token.
func (l *Ledger) Custody(token bridge.Address) *uint256.Int {
	if c := l.custody[token]; c != nil {
		return new(uint256.Int).Set(c)
	}
	return uint256.NewInt(0)
}

// LastNonce reports the most recently issued burn nonce, 0 if none.
func (l *Ledger) LastNonce() bridge.Nonce {
	return bridge.Nonce(l.nonce)
}

func (l *Ledger) balanceOf(token, holder bridge.Address) *uint256.Int {
	if hs := l.balances[token]; hs != nil {
		if b := hs[holder]; b != nil {
			return b
		}
	}
	return uint256.NewInt(0)
}

func (l *Ledger) TransferIn(token, from bridge.Address, amount *uint256.Int) error {
	bal := l.balanceOf(token, from)
	if bal.Lt(amount) {
		return fmt.Errorf("%w: have %s, need %s", ErrInsufficientBalance, bal, amount)
	}
	if l.balances[token] == nil {
		l.balances[token] = make(map[bridge.Address]*uint256.Int)
	}
	l.balances[token][from] = new(uint256.Int).Sub(bal, amount)
	l.custody[token] = new(uint256.Int).Add(l.Custody(token), amount)
	return nil
}

func (l *Ledger) TransferOut(token, to bridge.Address, amount *uint256.Int) error {
	custody := l.Custody(token)
	if custody.Lt(amount) {
		return fmt.Errorf("%w: custody %s, refund %s", ErrNothingInCustody, custody, amount)
	}
	l.custody[token] = custody.Sub(custody, amount)
	l.Fund(token, to, amount)
	return nil
}

func (l *Ledger) Authorize(token bridge.Address, amount *uint256.Int) error {
	if l.FailAuthorize != nil {
		err := l.FailAuthorize
		l.FailAuthorize = nil
		return err
	}
	l.allowance[token] = new(uint256.Int).Set(amount)
	return nil
}

func (l *Ledger) Burn(amount *uint256.Int, destination bridge.Domain, mintRecipient, token bridge.Address) (bridge.Nonce, error) {
	return l.burn(amount, token)
}

func (l *Ledger) BurnWithCaller(amount *uint256.Int, destination bridge.Domain, mintRecipient, token bridge.Address, destinationCaller bridge.Address) (bridge.Nonce, error) {
	return l.burn(amount, token)
}

func (l *Ledger) burn(amount *uint256.Int, token bridge.Address) (bridge.Nonce, error) {
	if l.Cap != nil && amount.Gt(l.Cap) {
		return 0, fmt.Errorf("%w: cap %s, got %s", ErrBurnCapExceeded, l.Cap, amount)
	}
	allowed := l.allowance[token]
	custody := l.Custody(token)
	if allowed == nil || allowed.Lt(amount) || custody.Lt(amount) {
		return 0, ErrNothingInCustody
	}
	l.custody[token] = custody.Sub(custody, amount)
	l.allowance[token] = new(uint256.Int).Sub(allowed, amount)
	l.nonce++
	return bridge.Nonce(l.nonce), nil
}

// Snapshot records the current state for a later Restore.
func (l *Ledger) Snapshot() {
	l.snapshot = &ledgerSnapshot{
		balances:  copyBalances(l.balances),
		custody:   copyAmounts(l.custody),
		allowance: copyAmounts(l.allowance),
		nonce:     l.nonce,
	}
}

// Restore rolls the ledger back to the last Snapshot.
func (l *Ledger) Restore() {
	if l.snapshot == nil {
		return
	}
	l.balances = l.snapshot.balances
	l.custody = l.snapshot.custody
	l.allowance = l.snapshot.allowance
	l.nonce = l.snapshot.nonce
	l.snapshot = nil
}

func copyAmounts(in map[bridge.Address]*uint256.Int) map[bridge.Address]*uint256.Int {
	out := make(map[bridge.Address]*uint256.Int, len(in))
	for k, v := range in {
		out[k] = new(uint256.Int).Set(v)
	}
	return out
}

func copyBalances(in map[bridge.Address]map[bridge.Address]*uint256.Int) map[bridge.Address]map[bridge.Address]*uint256.Int {
	out := make(map[bridge.Address]map[bridge.Address]*uint256.Int, len(in))
	for k, v := range in {
		out[k] = copyAmounts(v)
	}
	return out
}
