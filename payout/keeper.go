/*
Package payout implements the keeper that drives distributions of a
single pool. It watches the vault balance and, once the threshold is
reached, draws winners among the holders of the pool asset and submits a
distribute transaction signed by the payer and the pool authority. Every
round is recorded in a journal.
*/
package payout

import (
	"context"
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"time"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/client"
	sharepoold "github.com/iov-one/sharepool/cmd/sharepoold/app"
	"github.com/iov-one/sharepool/crypto"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/x/distributor"
	"github.com/iov-one/sharepool/x/sigs"
	"github.com/tendermint/tendermint/libs/log"
	"golang.org/x/time/rate"
)

// gasMargin is added to the computed cost of a distribution when no gas
// limit is configured.
const gasMargin = 1000

// distributionGasLimit returns the worst case cost of a distribution
// transaction signed by given number of keys, plus the margin.
func distributionGasLimit(receivers, signers int) int64 {
	return distributor.DistributionGas(receivers) +
		sharepoold.TxCost +
		int64(signers)*sigs.SignatureVerifyCost +
		gasMargin
}

// Submitter commits a transaction and waits for its result.
type Submitter interface {
	CommitTx(ctx context.Context, tx sharepool.Tx) (*client.CommitResult, error)
}

var _ Submitter = (*client.Client)(nil)

// Keeper runs distribution rounds of a single pool.
type Keeper struct {
	q         client.Querier
	submitter Submitter
	journal   *Journal
	metrics   *Metrics
	limiter   *rate.Limiter
	logger    log.Logger
	rnd       *rand.Rand
	now       func() time.Time

	pool      sharepool.Address
	chainID   string
	payer     *crypto.PrivateKey
	authority *crypto.PrivateKey
	memo      string
	gasLimit  int64
	interval  time.Duration
}

// NewKeeper returns a keeper of given pool. It submits at most one round
// per minute and polls every ten seconds until configured otherwise.
func NewKeeper(q client.Querier, s Submitter, j *Journal, pool sharepool.Address, chainID string, payer, authority *crypto.PrivateKey) *Keeper {
	return &Keeper{
		q:         q,
		submitter: s,
		journal:   j,
		limiter:   rate.NewLimiter(rate.Every(time.Minute), 1),
		logger:    log.NewNopLogger(),
		rnd:       rand.New(rand.NewSource(seed())),
		now:       time.Now,
		pool:      pool,
		chainID:   chainID,
		payer:     payer,
		authority: authority,
		interval:  10 * time.Second,
	}
}

func seed() int64 {
	var b [8]byte
	if _, err := cryptorand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.BigEndian.Uint64(b[:]))
}

// FromConfig builds a keeper as described by the configuration.
func FromConfig(c *Config, q client.Querier, s Submitter, j *Journal) (*Keeper, error) {
	pool, err := c.PoolAddress()
	if err != nil {
		return nil, err
	}
	payer, authority, err := c.Keys()
	if err != nil {
		return nil, err
	}
	perSecond := rate.Limit(c.RoundsPerMinute / 60)
	return NewKeeper(q, s, j, pool, c.ChainID, payer, authority).
		WithLimiter(rate.NewLimiter(perSecond, 1)).
		WithMemo(c.Memo).
		WithGasLimit(c.GasLimit).
		WithInterval(c.PollInterval), nil
}

func (k *Keeper) WithLogger(logger log.Logger) *Keeper {
	k.logger = logger.With("module", "payout")
	return k
}

func (k *Keeper) WithMetrics(m *Metrics) *Keeper {
	k.metrics = m
	return k
}

func (k *Keeper) WithLimiter(l *rate.Limiter) *Keeper {
	k.limiter = l
	return k
}

func (k *Keeper) WithRand(rnd *rand.Rand) *Keeper {
	k.rnd = rnd
	return k
}

func (k *Keeper) WithMemo(memo string) *Keeper {
	k.memo = memo
	return k
}

// WithGasLimit sets the gas limit of distribute transactions. Zero
// computes the limit from the pool configuration.
func (k *Keeper) WithGasLimit(limit int64) *Keeper {
	k.gasLimit = limit
	return k
}

func (k *Keeper) WithInterval(d time.Duration) *Keeper {
	k.interval = d
	return k
}

// Run executes a round every interval until the context is cancelled.
// Failed rounds are logged and do not stop the keeper.
func (k *Keeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(k.interval)
	defer ticker.Stop()

	for {
		if _, err := k.Tick(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			k.logger.Error("round failed", "err", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Tick checks the vault and distributes if the threshold is reached. It
// returns the round, or nil if the vault is below the threshold.
func (k *Keeper) Tick(ctx context.Context) (*Round, error) {
	state, err := client.Pool(k.q, k.pool)
	if err != nil {
		return nil, errors.Wrap(err, "pool")
	}
	vault, err := client.Vault(k.q, k.pool)
	if err != nil {
		return nil, errors.Wrap(err, "vault")
	}
	threshold, err := state.Threshold()
	if err != nil {
		return nil, err
	}
	k.metrics.observeVault(vault.Balance, threshold)
	if vault.Balance < threshold {
		k.logger.Debug("threshold not reached", "vault", vault.Balance, "threshold", threshold)
		return nil, nil
	}
	k.logger.Info("threshold reached", "vault", vault.Balance, "threshold", threshold)

	if err := k.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(errors.ErrTimeout, err.Error())
	}

	round, err := NewRound(k.pool, vault.Balance, k.now())
	if err != nil {
		return nil, err
	}
	err = k.distribute(ctx, state, round)
	if err != nil {
		round.Status = RoundFailed
		round.Error = err.Error()
	} else {
		round.Status = RoundCommitted
	}
	k.metrics.observeRound(round)
	// The transaction may be committed even if the context was cancelled
	// while waiting for it, so the outcome is always recorded.
	if jerr := k.journal.Save(context.WithoutCancel(ctx), round); jerr != nil {
		err = errors.Append(err, errors.Wrap(jerr, "journal"))
	}
	k.logger.Info("round finished",
		"round", round.ID,
		"status", round.Status,
		"winners", len(round.Winners),
		"tx", round.TxID,
		"height", round.Height)
	return round, err
}

func (k *Keeper) distribute(ctx context.Context, state *distributor.DistributorState, round *Round) error {
	holders, err := Holders(k.q, state.Asset, k.pool)
	if err != nil {
		return err
	}
	round.Holders = len(holders)
	k.logger.Info("holders listed", "holders", len(holders))

	winners, err := DrawWinners(k.rnd, holders, int(state.NumberOfShares-1))
	if err != nil {
		return errors.Wrap(err, "draw winners")
	}
	round.Winners = winners

	// Keep a trace of the attempt even if the submission never returns.
	if err := k.journal.Save(ctx, round); err != nil {
		return errors.Wrap(err, "journal")
	}

	tx, err := k.distributeTx(state, winners)
	if err != nil {
		return err
	}
	res, err := k.submitter.CommitTx(ctx, tx)
	if err != nil {
		return errors.Wrap(err, "submit")
	}
	round.TxID = res.ID.String()
	round.Height = res.Height
	return res.Err
}

// distributeTx builds the distribute transaction paying given winners,
// signed by the payer and the authority.
func (k *Keeper) distributeTx(state *distributor.DistributorState, winners []sharepool.Address) (*sharepoold.Tx, error) {
	msg := &distributor.DistributeMsg{
		Metadata:  &sharepool.Metadata{Schema: 1},
		Pool:      k.pool,
		Payer:     k.payer.PublicKey().Address(),
		Authority: k.authority.PublicKey().Address(),
		Asset:     state.Asset,
		Memo:      k.memo,
	}
	for _, w := range winners {
		msg.Receivers = append(msg.Receivers, distributor.NewReceiver(w, state.Asset))
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	signers := []*crypto.PrivateKey{k.payer}
	if !msg.Authority.Equals(msg.Payer) {
		signers = append(signers, k.authority)
	}

	tx := sharepoold.NewTx(msg)
	tx.Memo = k.memo
	tx.GasLimit = k.gasLimit
	if tx.GasLimit == 0 {
		tx.GasLimit = distributionGasLimit(len(winners), len(signers))
	}
	for _, s := range signers {
		seq, err := client.NextNonce(k.q, s.PublicKey().Address())
		if err != nil {
			return nil, errors.Wrap(err, "nonce")
		}
		sig, err := sigs.SignTx(s, tx, k.chainID, seq)
		if err != nil {
			return nil, errors.Wrap(err, "sign")
		}
		tx.Signatures = append(tx.Signatures, sig)
	}
	return tx, nil
}
