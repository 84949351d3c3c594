package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/vinitha-rv/library-backend/models"
	"github.com/vinitha-rv/library-backend/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeBookRepo struct {
	mu        sync.Mutex
	books     map[primitive.ObjectID]models.Book
	findErr   error
	decErrAt  int // fail the n-th DecrementStock call with decErr (1-based)
	decErr    error
	decCalls  int
	incCalls  int
	afterFind func(id primitive.ObjectID) // simulates a concurrent writer
}

func newFakeBookRepo(books ...models.Book) *fakeBookRepo {
	r := &fakeBookRepo{books: map[primitive.ObjectID]models.Book{}}
	for _, b := range books {
		r.books[b.ID] = b
	}
	return r
}

func (r *fakeBookRepo) stock(id primitive.ObjectID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.books[id].Stock
}

func (r *fakeBookRepo) FindAll(ctx context.Context) ([]models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	out := []models.Book{}
	for _, b := range r.books {
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeBookRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	r.mu.Lock()
	if r.findErr != nil {
		r.mu.Unlock()
		return nil, r.findErr
	}
	b, ok := r.books[id]
	hook := r.afterFind
	r.mu.Unlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	if hook != nil {
		hook(id)
	}
	return &b, nil
}

func (r *fakeBookRepo) Create(ctx context.Context, book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if book.ID.IsZero() {
		book.ID = primitive.NewObjectID()
	}
	r.books[book.ID] = *book
	return nil
}

func (r *fakeBookRepo) Update(ctx context.Context, id primitive.ObjectID, u models.BookUpdate) (*models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.Price != nil {
		b.Price = *u.Price
	}
	if u.Stock != nil {
		b.Stock = *u.Stock
	}
	r.books[id] = b
	return &b, nil
}

func (r *fakeBookRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *fakeBookRepo) Search(ctx context.Context, q string) ([]models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Book{}
	q = strings.ToLower(q)
	for _, b := range r.books {
		if strings.Contains(strings.ToLower(b.Title), q) || strings.Contains(strings.ToLower(b.Author), q) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookRepo) FindByCategory(ctx context.Context, c string) ([]models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Book{}
	for _, b := range r.books {
		if strings.Contains(strings.ToLower(b.Category), strings.ToLower(c)) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookRepo) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decCalls++
	if r.decErrAt > 0 && r.decCalls == r.decErrAt {
		return r.decErr
	}
	b, ok := r.books[id]
	if !ok || b.Stock < qty {
		return repository.ErrInsufficientStock
	}
	b.Stock -= qty
	r.books[id] = b
	return nil
}

func (r *fakeBookRepo) IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.incCalls++
	b, ok := r.books[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Stock += qty
	r.books[id] = b
	return nil
}

func (r *fakeBookRepo) snapshot() map[primitive.ObjectID]models.Book {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make(map[primitive.ObjectID]models.Book, len(r.books))
	for k, v := range r.books {
		cp[k] = v
	}
	return cp
}

func (r *fakeBookRepo) restore(m map[primitive.ObjectID]models.Book) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books = m
}

type fakePaymentRepo struct {
	mu        sync.Mutex
	payments  []models.Payment
	createErr error
}

func (r *fakePaymentRepo) Create(ctx context.Context, p *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	r.payments = append(r.payments, *p)
	return nil
}

func (r *fakePaymentRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePaymentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payments)
}

func (r *fakePaymentRepo) truncate(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments = r.payments[:n]
}

// fakeTxRunner mimics a transactional store by restoring snapshots on failure.
type fakeTxRunner struct {
	atomic   bool
	books    *fakeBookRepo
	payments *fakePaymentRepo
}

func (f *fakeTxRunner) Atomic() bool { return f.atomic }

func (f *fakeTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !f.atomic {
		return fn(ctx)
	}
	snap := f.books.snapshot()
	n := f.payments.count()
	if err := fn(ctx); err != nil {
		f.books.restore(snap)
		f.payments.truncate(n)
		return err
	}
	return nil
}

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[primitive.ObjectID]models.User
	createErr error
	existsErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]models.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return repository.ErrDuplicate
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.existsErr != nil {
		return false, r.existsErr
	}
	for _, u := range r.users {
		if u.Email == email || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type fakeContactRepo struct {
	saved []models.ContactMessage
	err   error
}

func (r *fakeContactRepo) Create(ctx context.Context, m *models.ContactMessage) error {
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, *m)
	return nil
}

type fakeCache struct {
	mu            sync.Mutex
	version       int64
	books         map[string]models.Book
	list          []models.Book
	invalidations int
}

func newFakeCache() *fakeCache {
	return &fakeCache{version: 1, books: map[string]models.Book{}}
}

func (c *fakeCache) Version(context.Context) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

func (c *fakeCache) GetBook(_ context.Context, v int64, id string) (*models.Book, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v != c.version {
		return nil, false
	}
	b, ok := c.books[id]
	if !ok {
		return nil, false
	}
	return &b, true
}

func (c *fakeCache) SetBookAsync(v int64, b *models.Book) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v == c.version {
		c.books[b.ID.Hex()] = *b
	}
}

func (c *fakeCache) GetBookList(_ context.Context, v int64) ([]models.Book, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v != c.version || c.list == nil {
		return nil, false
	}
	return c.list, true
}

func (c *fakeCache) SetBookListAsync(v int64, books []models.Book) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v == c.version {
		c.list = books
	}
}

func (c *fakeCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
	c.books = map[string]models.Book{}
	c.list = nil
	c.invalidations++
}

type fakeEvents struct {
	mu     sync.Mutex
	events []models.CheckoutEvent
	err    error
}

func (f *fakeEvents) PublishCheckoutCompleted(_ context.Context, e models.CheckoutEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return f.err
}

type fakeTokens struct {
	err error
}

func (f fakeTokens) GenerateAccessToken(userID, email, username string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-for-" + userID, nil
}

var errStore = errors.New("store unavailable")
