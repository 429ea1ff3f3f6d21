package repo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/radieske/parlay-settlement-poc/internal/settlement"
)

// txLedger implementa settlement.Ledger sobre a transação corrente:
// saldos em ledger_accounts, cada transferência registrada em
// pool_ledger. Commits e rollbacks acompanham a operação chamadora,
// então a transferência é atômica com a mutação contábil.
type txLedger struct {
	tx     *sql.Tx
	poolID string
	ref    string // ex: "claim:42"
}

func (l *txLedger) Balance(ctx context.Context, account string) (uint64, error) {
	var bal int64
	err := l.tx.QueryRowContext(ctx,
		`SELECT balance FROM ledger_accounts WHERE account=$1 FOR UPDATE`, account).Scan(&bal)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return uint64(bal), nil
}

// Transfer debita a conta do pool (autorizada pela capability do
// próprio pool) e credita o destino, criando a conta destino se
// necessário.
func (l *txLedger) Transfer(ctx context.Context, signer settlement.PoolSigner, to string, amount uint64) error {
	from := signer.Account()

	res, err := l.tx.ExecContext(ctx,
		`UPDATE ledger_accounts SET balance = balance - $1 WHERE account=$2 AND balance >= $1`,
		int64(amount), from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return settlement.ErrInsufficientProtocolLiquidity
	}

	if _, err := l.tx.ExecContext(ctx, `
		INSERT INTO ledger_accounts(account, balance) VALUES($1,$2)
		ON CONFLICT (account) DO UPDATE SET balance = ledger_accounts.balance + EXCLUDED.balance`,
		to, int64(amount)); err != nil {
		return err
	}

	_, err = l.tx.ExecContext(ctx, `
		INSERT INTO pool_ledger(id, pool_id, from_account, to_account, amount, ref)
		VALUES($1,$2,$3,$4,$5,$6)`,
		uuid.NewString(), l.poolID, from, to, int64(amount), l.ref)
	return err
}
