package impl

import (
	domainerrors "lebay/internal/domain/errors"
	"lebay/internal/domain/repository"
	"lebay/internal/errors"
)

// repoErrors pairs repository sentinels with the errors shown to clients.
var repoErrors = []struct {
	from error
	to   *domainerrors.BaseError
}{
	{repository.ErrUserNotFound, domainerrors.ErrUserNotFound},
	{repository.ErrUserAlreadyExists, domainerrors.ErrUserAlreadyExists},
	{repository.ErrSellerNotFound, domainerrors.ErrSellerProfileRequired},
	{repository.ErrCategoryNotFound, domainerrors.ErrCategoryNotFound},
	{repository.ErrItemNotFound, domainerrors.ErrItemNotFound},
	{repository.ErrAuctionNotFound, domainerrors.ErrAuctionNotFound},
	{repository.ErrSaleNotFound, domainerrors.ErrSaleNotFound},
	{repository.ErrSaleAlreadyExists, domainerrors.ErrAlreadyPaid},
	{repository.ErrRefreshTokenNotFound, domainerrors.ErrRefreshTokenInvalid},
}

// translateRepoError replaces a repository sentinel with its client-facing
// error and wraps anything else with message.
func translateRepoError(err error, message string) error {
	if err == nil {
		return nil
	}

	if _, ok := domainerrors.AsAppError(err); ok {
		return errors.WithMessage(err, message)
	}

	for _, m := range repoErrors {
		if errors.Is(err, m.from) {
			return errors.Wrap(m.to, message)
		}
	}

	return errors.Wrap(err, message)
}
