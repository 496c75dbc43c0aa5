package repository

import "context"

// TransactionManager runs use case steps atomically without exposing the
// database driver.
type TransactionManager interface {
	// Execute runs fn in one transaction: a returned error rolls back, nil commits.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory hands out repositories bound to the current transaction.
type RepositoryFactory interface {
	UserRepo() UserRepository
	AuthRepo() AuthRepository
	RefreshTokenRepo() RefreshTokenRepository
	SellerRepo() SellerRepository
	CategoryRepo() CategoryRepository
	ItemRepo() ItemRepository
	AuctionRepo() AuctionRepository
	BidRepo() BidRepository
	SaleRepo() SaleRepository
}
