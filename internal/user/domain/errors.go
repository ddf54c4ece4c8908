package domain

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidUser     = errors.New("username is empty or missing")
	ErrNegativeBalance = errors.New("balance must be a positive number")

	// Ledger errors: the account balance invariant belongs here, the
	// auction engine only reports them.
	ErrNoFunds           = errors.New("you have no greenbay dollars, you can't bid")
	ErrInsufficientFunds = errors.New("you have not enough greenbay dollars on your account")
)
