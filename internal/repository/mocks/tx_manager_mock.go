package mocks

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TxManagerStub 直接以 nil tx 執行 fn，搭配 repository mock 使用
type TxManagerStub struct {
	Calls     int
	CommitErr error
}

func NewTxManagerStub() *TxManagerStub {
	return &TxManagerStub{}
}

func (s *TxManagerStub) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	s.Calls++
	if err := fn(nil); err != nil {
		return err
	}
	return s.CommitErr
}
