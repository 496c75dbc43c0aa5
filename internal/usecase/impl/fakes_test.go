package impl

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"lebay/internal/domain/auction"
	"lebay/internal/domain/entity"
	domainerrors "lebay/internal/domain/errors"
	"lebay/internal/domain/repository"
	"lebay/internal/domain/service"
	"lebay/internal/errors"

	"github.com/google/uuid"
)

// memStore is an in-memory database shared by every fake repository. Row
// locks are held until the owning fake transaction finishes.
type memStore struct {
	mu         sync.Mutex
	clock      auction.Clock
	users      map[uuid.UUID]*entity.User
	auths      map[uuid.UUID]*entity.Authentication
	tokens     map[uuid.UUID]*entity.RefreshToken
	sellers    map[uuid.UUID]*entity.Seller
	categories map[uuid.UUID]*entity.ItemCategory
	items      map[uuid.UUID]*entity.Item
	events     map[uuid.UUID]*entity.AuctionEvent
	eventSeq   map[uuid.UUID]int
	bids       []*entity.Bid
	sales      map[uuid.UUID]*entity.Sale

	lockMu    sync.Mutex
	rowLocks  map[uuid.UUID]*sync.Mutex
	lockCalls atomic.Int64
}

func newMemStore(clock auction.Clock) *memStore {
	return &memStore{
		clock:      clock,
		users:      make(map[uuid.UUID]*entity.User),
		auths:      make(map[uuid.UUID]*entity.Authentication),
		tokens:     make(map[uuid.UUID]*entity.RefreshToken),
		sellers:    make(map[uuid.UUID]*entity.Seller),
		eventSeq:   make(map[uuid.UUID]int),
		categories: make(map[uuid.UUID]*entity.ItemCategory),
		items:      make(map[uuid.UUID]*entity.Item),
		events:     make(map[uuid.UUID]*entity.AuctionEvent),
		sales:      make(map[uuid.UUID]*entity.Sale),
		rowLocks:   make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *memStore) lockRow(id uuid.UUID) func() {
	s.lockMu.Lock()
	lock, ok := s.rowLocks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.rowLocks[id] = lock
	}
	s.lockMu.Unlock()

	s.lockCalls.Add(1)
	lock.Lock()

	return lock.Unlock
}

// fakeTx is one transaction. Outside a transaction (tx == nil) a row lock is
// released right away, like an autocommit statement.
type fakeTx struct {
	store   *memStore
	unlocks []func()
}

func (tx *fakeTx) hold(store *memStore, id uuid.UUID) {
	unlock := store.lockRow(id)
	if tx == nil {
		unlock()

		return
	}
	tx.unlocks = append(tx.unlocks, unlock)
}

func (tx *fakeTx) release() {
	for i := len(tx.unlocks) - 1; i >= 0; i-- {
		tx.unlocks[i]()
	}
}

type fakeTxManager struct {
	store      *memStore
	executions atomic.Int64
	failWith   error
}

func (tm *fakeTxManager) Execute(_ context.Context, fn func(txRepoFactory repository.RepositoryFactory) error) error {
	tm.executions.Add(1)
	if tm.failWith != nil {
		return tm.failWith
	}

	tx := &fakeTx{store: tm.store}
	defer tx.release()

	return fn(&fakeRepoFactory{store: tm.store, tx: tx})
}

type fakeRepoFactory struct {
	store *memStore
	tx    *fakeTx
}

func (f *fakeRepoFactory) UserRepo() repository.UserRepository { return &fakeUserRepo{f.store, f.tx} }
func (f *fakeRepoFactory) AuthRepo() repository.AuthRepository { return &fakeAuthRepo{f.store} }
func (f *fakeRepoFactory) RefreshTokenRepo() repository.RefreshTokenRepository {
	return &fakeRefreshRepo{f.store}
}
func (f *fakeRepoFactory) SellerRepo() repository.SellerRepository     { return &fakeSellerRepo{f.store} }
func (f *fakeRepoFactory) CategoryRepo() repository.CategoryRepository { return &fakeCategoryRepo{f.store} }
func (f *fakeRepoFactory) ItemRepo() repository.ItemRepository         { return &fakeItemRepo{f.store} }
func (f *fakeRepoFactory) AuctionRepo() repository.AuctionRepository {
	return &fakeAuctionRepo{f.store, f.tx}
}
func (f *fakeRepoFactory) BidRepo() repository.BidRepository   { return &fakeBidRepo{f.store} }
func (f *fakeRepoFactory) SaleRepo() repository.SaleRepository { return &fakeSaleRepo{f.store} }

// --- users ---

type fakeUserRepo struct {
	s  *memStore
	tx *fakeTx
}

func (r *fakeUserRepo) withSeller(u *entity.User) *entity.User {
	copied := *u
	copied.Seller = nil
	for _, seller := range r.s.sellers {
		if seller.UserID == u.ID {
			sc := *seller
			copied.Seller = &sc
		}
	}

	return &copied
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return r.withSeller(u), nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, username) {
			return r.withSeller(u), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return r.withSeller(u), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, user.Username) || u.Email == user.Email {
			return repository.ErrUserAlreadyExists
		}
	}

	user.ID = uuid.New()
	user.CreatedAt = r.s.clock.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	copied.Seller = nil
	r.s.users[user.ID] = &copied

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.users[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	copied := *user
	copied.Username = existing.Username
	copied.Seller = nil
	r.s.users[user.ID] = &copied

	return nil
}

func (r *fakeUserRepo) AcquireSessionMutex(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	_, ok := r.s.users[id]
	r.s.mu.Unlock()
	if !ok {
		return repository.ErrUserNotFound
	}

	r.tx.hold(r.s, id)

	return nil
}

// --- auth ---

type fakeAuthRepo struct{ s *memStore }

func (r *fakeAuthRepo) CreateAuthentication(_ context.Context, auth *entity.Authentication) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	auth.ID = uuid.New()
	copied := *auth
	r.s.auths[auth.ID] = &copied

	return nil
}

func (r *fakeAuthRepo) FindAuthentication(_ context.Context, provider, providerUserID string) (*entity.Authentication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.auths {
		if a.Provider == provider && a.ProviderUserID == providerUserID {
			copied := *a

			return &copied, nil
		}
	}

	return nil, repository.ErrAuthNotFound
}

func (r *fakeAuthRepo) FindAuthenticationByUserID(_ context.Context, userID uuid.UUID, provider string) (*entity.Authentication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, a := range r.s.auths {
		if a.UserID == userID && a.Provider == provider {
			copied := *a

			return &copied, nil
		}
	}

	return nil, repository.ErrAuthNotFound
}

func (r *fakeAuthRepo) UpdatePasswordHash(_ context.Context, authID uuid.UUID, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.auths[authID]
	if !ok {
		return repository.ErrAuthNotFound
	}
	a.PasswordHash = passwordHash

	return nil
}

// --- refresh tokens ---

type fakeRefreshRepo struct{ s *memStore }

func (r *fakeRefreshRepo) CreateRefreshToken(_ context.Context, token *entity.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	token.ID = uuid.New()
	token.CreatedAt = r.s.clock.Now()
	copied := *token
	r.s.tokens[token.ID] = &copied

	return nil
}

func (r *fakeRefreshRepo) FindRefreshTokenByHash(_ context.Context, tokenHash string, now time.Time) (*entity.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, t := range r.s.tokens {
		if t.TokenHash == tokenHash && t.ExpiresAt.After(now) {
			copied := *t

			return &copied, nil
		}
	}

	return nil, repository.ErrRefreshTokenNotFound
}

func (r *fakeRefreshRepo) FindRefreshTokensByUserID(_ context.Context, userID uuid.UUID, now time.Time) ([]*entity.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.RefreshToken
	for _, t := range r.s.tokens {
		if t.UserID == userID && t.ExpiresAt.After(now) {
			copied := *t
			out = append(out, &copied)
		}
	}

	return out, nil
}

func (r *fakeRefreshRepo) DeleteRefreshTokenByHash(_ context.Context, tokenHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, t := range r.s.tokens {
		if t.TokenHash == tokenHash {
			delete(r.s.tokens, id)
		}
	}

	return nil
}

func (r *fakeRefreshRepo) DeleteRefreshTokenByID(_ context.Context, userID, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tokens[id]
	if !ok || t.UserID != userID {
		return repository.ErrRefreshTokenNotFound
	}
	delete(r.s.tokens, id)

	return nil
}

func (r *fakeRefreshRepo) DeleteRefreshTokensByUserID(_ context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, t := range r.s.tokens {
		if t.UserID == userID {
			delete(r.s.tokens, id)
		}
	}

	return nil
}

func (r *fakeRefreshRepo) DeleteExpiredRefreshTokens(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var deleted int64
	for id, t := range r.s.tokens {
		if !t.ExpiresAt.After(now) {
			delete(r.s.tokens, id)
			deleted++
		}
	}

	return deleted, nil
}

func (r *fakeRefreshRepo) CountActiveSessionsByUserID(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	tokens, err := r.FindRefreshTokensByUserID(ctx, userID, now)

	return len(tokens), err
}

// --- sellers ---

type fakeSellerRepo struct{ s *memStore }

func (r *fakeSellerRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.Seller, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, seller := range r.s.sellers {
		if seller.UserID == userID {
			copied := *seller

			return &copied, nil
		}
	}

	return nil, repository.ErrSellerNotFound
}

func (r *fakeSellerRepo) Create(_ context.Context, seller *entity.Seller) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.sellers {
		if existing.UserID == seller.UserID {
			return repository.ErrSellerAlreadyExists
		}
	}

	seller.ID = uuid.New()
	seller.CreatedAt = r.s.clock.Now()
	copied := *seller
	r.s.sellers[seller.ID] = &copied

	return nil
}

func (r *fakeSellerRepo) Update(_ context.Context, seller *entity.Seller) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.sellers[seller.ID]; !ok {
		return repository.ErrSellerNotFound
	}
	copied := *seller
	r.s.sellers[seller.ID] = &copied

	return nil
}

// --- categories ---

type fakeCategoryRepo struct{ s *memStore }

func (r *fakeCategoryRepo) Create(_ context.Context, category *entity.ItemCategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	category.ID = uuid.New()
	copied := *category
	r.s.categories[category.ID] = &copied

	return nil
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.ItemCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	copied := *c

	return &copied, nil
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]*entity.ItemCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*entity.ItemCategory, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		copied := *c
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })

	return out, nil
}

// --- items ---

type fakeItemRepo struct{ s *memStore }

func (r *fakeItemRepo) Create(_ context.Context, item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item.ID = uuid.New()
	item.CreatedAt = r.s.clock.Now()
	copied := *item
	r.s.items[item.ID] = &copied

	return nil
}

func (r *fakeItemRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item, ok := r.s.items[id]
	if !ok {
		return nil, repository.ErrItemNotFound
	}
	copied := *item

	return &copied, nil
}

func (r *fakeItemRepo) UpdateDetails(_ context.Context, item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.items[item.ID]
	if !ok {
		return repository.ErrItemNotFound
	}
	existing.Title = item.Title
	existing.Description = item.Description
	existing.Condition = item.Condition
	existing.CategoryID = item.CategoryID

	return nil
}

func (r *fakeItemRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to entity.ItemStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item, ok := r.s.items[id]
	if !ok {
		return repository.ErrItemNotFound
	}
	if item.Status != from {
		return repository.ErrItemStatusConflict
	}
	item.Status = to

	return nil
}

func (r *fakeItemRepo) ListBySeller(_ context.Context, sellerID uuid.UUID, status entity.ItemStatus) ([]*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Item
	for _, item := range r.s.items {
		if item.SellerID == sellerID && item.Status == status {
			copied := *item
			out = append(out, &copied)
		}
	}

	return out, nil
}

// --- auctions ---

type fakeAuctionRepo struct {
	s  *memStore
	tx *fakeTx
}

// aggregate must be called with s.mu held.
func (r *fakeAuctionRepo) aggregate(event *entity.AuctionEvent) *entity.Auction {
	ev := *event
	item := *r.s.items[event.ItemID]
	a := &entity.Auction{Event: &ev, Item: &item}

	for _, b := range r.s.bids {
		if b.AuctionEventID != event.ID {
			continue
		}
		a.BidCount++
		if a.HighestBid == nil || b.Amount.GreaterThan(a.HighestBid.Amount) {
			copied := *b
			a.HighestBid = &copied
		}
	}

	for _, sale := range r.s.sales {
		if sale.AuctionEventID == event.ID {
			copied := *sale
			a.Sales = append(a.Sales, &copied)
		}
	}
	sort.Slice(a.Sales, func(i, j int) bool { return a.Sales[i].CreatedAt.After(a.Sales[j].CreatedAt) })

	return a
}

func (r *fakeAuctionRepo) Create(_ context.Context, event *entity.AuctionEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.items[event.ItemID]; !ok {
		return repository.ErrItemNotFound
	}
	event.ID = uuid.New()
	event.CreatedAt = r.s.clock.Now()
	copied := *event
	r.s.events[event.ID] = &copied
	r.s.eventSeq[event.ID] = len(r.s.eventSeq)

	return nil
}

func (r *fakeAuctionRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Auction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	event, ok := r.s.events[id]
	if !ok {
		return nil, repository.ErrAuctionNotFound
	}

	return r.aggregate(event), nil
}

func (r *fakeAuctionRepo) LockByID(ctx context.Context, id uuid.UUID) (*entity.Auction, error) {
	r.s.mu.Lock()
	_, ok := r.s.events[id]
	r.s.mu.Unlock()
	if !ok {
		return nil, repository.ErrAuctionNotFound
	}

	r.tx.hold(r.s, id)

	return r.FindByID(ctx, id)
}

func (r *fakeAuctionRepo) SetWinningBidder(_ context.Context, id uuid.UUID, bidderID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	event, ok := r.s.events[id]
	if !ok {
		return repository.ErrAuctionNotFound
	}
	winner := bidderID
	event.WinningBidderID = &winner

	return nil
}

func (r *fakeAuctionRepo) ListCurrent(_ context.Context, query repository.CurrentAuctionQuery) ([]*entity.Auction, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	search := strings.ToLower(query.Search)
	var matched []*entity.Auction
	for _, event := range r.s.events {
		item := r.s.items[event.ItemID]
		if item.Status != entity.ItemStatusRunning || query.Now.Before(event.StartTime) || !query.Now.Before(event.EndTime) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(item.Title), search) && !strings.Contains(strings.ToLower(item.Description), search) {
			continue
		}
		if query.CategoryID != nil && item.CategoryID != *query.CategoryID {
			continue
		}
		if query.ExcludeSellerID != nil && item.SellerID == *query.ExcludeSellerID {
			continue
		}
		matched = append(matched, r.aggregate(event))
	}

	// Insertion order stands in for created_at, which ties under the fixed clock.
	sort.Slice(matched, func(i, j int) bool {
		if query.Sort == repository.AuctionSortTitle && matched[i].Item.Title != matched[j].Item.Title {
			return matched[i].Item.Title < matched[j].Item.Title
		}

		return r.s.eventSeq[matched[i].Event.ID] < r.s.eventSeq[matched[j].Event.ID]
	})

	total := int64(len(matched))
	if query.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[query.Offset:]
	if query.Limit > 0 && len(matched) > query.Limit {
		matched = matched[:query.Limit]
	}

	return matched, total, nil
}

func (r *fakeAuctionRepo) ListEndedRunningIDs(_ context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var ids []uuid.UUID
	for id, event := range r.s.events {
		if r.s.items[event.ItemID].Status == entity.ItemStatusRunning && !now.Before(event.EndTime) {
			ids = append(ids, id)
		}
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	return ids, nil
}

func (r *fakeAuctionRepo) ListBySeller(_ context.Context, sellerID uuid.UUID, status entity.ItemStatus) ([]*entity.Auction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Auction
	for _, event := range r.s.events {
		item := r.s.items[event.ItemID]
		if item.SellerID == sellerID && item.Status == status {
			out = append(out, r.aggregate(event))
		}
	}

	return out, nil
}

func (r *fakeAuctionRepo) ListWonBy(_ context.Context, bidderID uuid.UUID) ([]*entity.Auction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Auction
	for _, event := range r.s.events {
		if r.s.items[event.ItemID].Status == entity.ItemStatusSold && event.WinningBidderID != nil && *event.WinningBidderID == bidderID {
			out = append(out, r.aggregate(event))
		}
	}

	return out, nil
}

func (r *fakeAuctionRepo) ListByItemID(_ context.Context, itemID uuid.UUID) ([]*entity.AuctionEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.AuctionEvent
	for _, event := range r.s.events {
		if event.ItemID == itemID {
			copied := *event
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

// --- bids ---

type fakeBidRepo struct{ s *memStore }

func (r *fakeBidRepo) Create(_ context.Context, bid *entity.Bid) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	bid.ID = uuid.New()
	bid.CreatedAt = r.s.clock.Now()
	copied := *bid
	r.s.bids = append(r.s.bids, &copied)

	return nil
}

func (r *fakeBidRepo) ListByAuction(_ context.Context, auctionID uuid.UUID) ([]*entity.Bid, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Bid
	for _, b := range r.s.bids {
		if b.AuctionEventID == auctionID {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amount.GreaterThan(out[j].Amount) })

	return out, nil
}

// --- sales ---

type fakeSaleRepo struct{ s *memStore }

func (r *fakeSaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.sales {
		if existing.AuctionEventID == sale.AuctionEventID {
			return repository.ErrSaleAlreadyExists
		}
	}

	sale.ID = uuid.New()
	sale.CreatedAt = r.s.clock.Now()
	copied := *sale
	r.s.sales[sale.ID] = &copied

	return nil
}

func (r *fakeSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sale, ok := r.s.sales[id]
	if !ok {
		return nil, repository.ErrSaleNotFound
	}
	copied := *sale

	return &copied, nil
}

func (r *fakeSaleRepo) ListBySeller(_ context.Context, sellerID uuid.UUID) ([]*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Sale
	for _, sale := range r.s.sales {
		event := r.s.events[sale.AuctionEventID]
		if r.s.items[event.ItemID].SellerID == sellerID {
			copied := *sale
			out = append(out, &copied)
		}
	}

	return out, nil
}

func (r *fakeSaleRepo) UpdatePaymentStatus(_ context.Context, id uuid.UUID, status entity.PaymentStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sale, ok := r.s.sales[id]
	if !ok {
		return repository.ErrSaleNotFound
	}
	sale.PaymentStatus = status

	return nil
}

// --- services ---

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed-" + password, nil
}

func (fakeHasher) Check(password, hash string) bool {
	return hash == "hashed-"+password
}

func (fakeHasher) ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return domainerrors.ErrPasswordStrength.WithDetails("too short")
	}

	return nil
}

// fakeTokenService issues opaque sequential tokens and remembers their owner.
type fakeTokenService struct {
	mu     sync.Mutex
	seq    int
	owners map[string]uuid.UUID
}

func newFakeTokenService() *fakeTokenService {
	return &fakeTokenService{owners: make(map[string]uuid.UUID)}
}

func (s *fakeTokenService) GenerateTokens(userID uuid.UUID, _ []string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	access, refresh := fmt.Sprintf("access-%d", s.seq), fmt.Sprintf("refresh-%d", s.seq)
	s.owners[access] = userID
	s.owners[refresh] = userID

	return access, refresh, nil
}

func (s *fakeTokenService) ValidateToken(token string) (*service.Claims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.owners[token]
	if !ok {
		return nil, errors.New("unknown token")
	}

	tokenType := service.TokenTypeAccess
	if strings.HasPrefix(token, "refresh-") {
		tokenType = service.TokenTypeRefresh
	}

	return &service.Claims{UserID: userID, Type: tokenType}, nil
}

func (s *fakeTokenService) GetRefreshTokenDuration() time.Duration {
	return time.Hour
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*entity.AuctionEventMessage
	err    error
}

func (p *fakePublisher) PublishAuctionEvent(_ context.Context, event *entity.AuctionEventMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)

	return p.err
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) ofType(eventType entity.EventType) []*entity.AuctionEventMessage {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []*entity.AuctionEventMessage
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}

	return out
}

type fakeQRCode struct{}

func (fakeQRCode) GenerateInvoiceQR(invoiceNumber string) ([]byte, error) {
	return []byte("png:" + invoiceNumber), nil
}

func (fakeQRCode) ParseInvoiceQR(qrData string) (string, error) {
	return strings.TrimPrefix(qrData, "png:"), nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gets++
	v, ok := c.entries[key]

	return v, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sets++
	c.entries[key] = value

	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)

	return nil
}
