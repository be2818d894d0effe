package transferrepo

import (
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/go-vault/vault-bank/pkg/errorspkg"
)

func TestTranslateTxError(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "SerializationFailure",
			err:  &pq.Error{Code: "40001"},
			want: errorspkg.ErrUnavailable,
		},
		{
			name: "Deadlock",
			err:  &pq.Error{Code: "40P01"},
			want: errorspkg.ErrUnavailable,
		},
		{
			name: "ConnectionFailure",
			err:  &pq.Error{Code: "08006"},
			want: errorspkg.ErrUnavailable,
		},
		{
			name: "BadConn",
			err:  driver.ErrBadConn,
			want: errorspkg.ErrUnavailable,
		},
		{
			name: "SemanticFailure",
			err:  errors.New("syntax error at or near"),
			want: errorspkg.ErrInternal,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, translateTxError(tc.err), tc.want)
		})
	}
}
