package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrContractUnavailable = errors.New("contract not initialized")
	ErrWalletNotConnected  = errors.New("wallet not connected")
	ErrTransactionFailed   = errors.New("transaction failed")
	ErrInvalidInput        = errors.New("invalid input")
)
