// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"

	"github.com/taibuivan/repairment/internal/platform/sec"
)

// # Account Data Access

// AccountRepository defines the data access contract for accounts.
type AccountRepository interface {

	/*
		FindByUsername returns the login record for username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *Account: Hydrated entity
		  - error: ErrAccountNotFound or database failures
	*/
	FindByUsername(context context.Context, username string) (*Account, error)

	/*
		Create checks email, username and personal number for uniqueness, in
		that order, and persists the account when all three are free.

		Parameters:
		  - context: context.Context
		  - account: NewAccount

		Returns:
		  - sec.StatusCode: StatusOK or the first uniqueness rule that failed
		  - error: Database failures
	*/
	Create(context context.Context, account NewAccount) (sec.StatusCode, error)
}
