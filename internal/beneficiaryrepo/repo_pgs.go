// Package beneficiaryrepo manages repository layer of beneficiaries.
package beneficiaryrepo

import (
	"context"

	"github.com/go-vault/vault-bank/internal/domain"
	"github.com/go-vault/vault-bank/pkg/dbpkg"
	"github.com/go-vault/vault-bank/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates beneficiary repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns beneficiary RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const createQuery = `
INSERT INTO
    beneficiaries (owner, account_number, name)
VALUES
    ($1, $2, $3)
RETURNING id, owner, account_number, name, created_at
`

// Create saves the beneficiary and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateBeneficiaryParams) (domain.Beneficiary, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, arg.Owner, arg.AccountNumber, arg.Name)

	var b domain.Beneficiary

	err := row.Scan(
		&b.ID,
		&b.Owner,
		&b.AccountNumber,
		&b.Name,
		&b.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "beneficiaries_owner_account_number_key":
				return b, domain.ErrBeneficiaryAlreadyExists
			case "beneficiaries_owner_fkey":
				return b, domain.ErrOwnerNotFound
			}
		}

		return b, errorspkg.ErrInternal
	}

	return b, nil
}

const listQuery = `
SELECT id, owner, account_number, name, created_at FROM beneficiaries
WHERE owner = $1
ORDER BY created_at
`

// List returns all beneficiaries saved by the given owner.
func (r *RepoPGS) List(ctx context.Context, owner string) ([]domain.Beneficiary, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery, owner)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Beneficiary{}

	for rows.Next() {
		var b domain.Beneficiary
		if err := rows.Scan(
			&b.ID,
			&b.Owner,
			&b.AccountNumber,
			&b.Name,
			&b.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, b)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const deleteQuery = `
DELETE FROM beneficiaries
WHERE id = $1 AND owner = $2
`

// Delete removes the beneficiary with the given id if it belongs to the owner.
func (r *RepoPGS) Delete(ctx context.Context, id int64, owner string) error {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, deleteQuery, id, owner)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	affected, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if affected == 0 {
		return domain.ErrBeneficiaryNotFound
	}

	return nil
}
