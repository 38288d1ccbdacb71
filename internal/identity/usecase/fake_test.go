package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	pqotp "github.com/pquerna/otp"
	"github.com/shandysiswandi/vendorauth/internal/identity/entity"
	"github.com/shandysiswandi/vendorauth/internal/pkg/config"
	"github.com/shandysiswandi/vendorauth/internal/pkg/goerror"
	"github.com/shandysiswandi/vendorauth/internal/pkg/hash"
	"github.com/shandysiswandi/vendorauth/internal/pkg/instrument"
	"github.com/shandysiswandi/vendorauth/internal/pkg/jwt"
	"github.com/shandysiswandi/vendorauth/internal/pkg/otp"
	"github.com/shandysiswandi/vendorauth/internal/pkg/validator"
)

const testJWTSecret = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// memoryDB mirrors the row semantics of the postgres repository.
type memoryDB struct {
	mu         sync.Mutex
	vendors    map[string]entity.Vendor
	challenges []entity.Challenge
	// calls records writes as "Method email" in arrival order.
	calls []string

	errGetVendor error
	errIssue     error
	errLookup    error
	// lostCreate makes CreateVendor behave as if a concurrent request inserted first.
	lostCreate *entity.Vendor
}

func newMemoryDB() *memoryDB {
	return &memoryDB{vendors: map[string]entity.Vendor{}}
}

func (m *memoryDB) GetVendorByEmail(_ context.Context, email string) (*entity.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.errGetVendor != nil {
		return nil, m.errGetVendor
	}
	v, ok := m.vendors[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &v, nil
}

func (m *memoryDB) CreateVendor(_ context.Context, in entity.Vendor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lostCreate != nil {
		m.vendors[m.lostCreate.Email] = *m.lostCreate
		m.lostCreate = nil
	}
	if _, ok := m.vendors[in.Email]; ok {
		return goerror.ErrConflict
	}
	m.vendors[in.Email] = in
	m.calls = append(m.calls, "CreateVendor "+in.Email)
	return nil
}

func (m *memoryDB) IssueChallenge(_ context.Context, in entity.Challenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.errIssue != nil {
		return m.errIssue
	}
	m.calls = append(m.calls, "IssueChallenge "+in.Email)
	for i := range m.challenges {
		if m.challenges[i].Email == in.Email && !m.challenges[i].IsUsed {
			m.challenges[i].IsUsed = true
		}
	}
	m.challenges = append(m.challenges, in)
	return nil
}

func (m *memoryDB) GetUnusedChallenge(_ context.Context, email, codeHash string) (*entity.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.errLookup != nil {
		return nil, m.errLookup
	}
	for i := len(m.challenges) - 1; i >= 0; i-- {
		c := m.challenges[i]
		if c.Email == email && c.CodeHash == codeHash && !c.IsUsed {
			return &c, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (m *memoryDB) IncrementLatestChallengeRetry(_ context.Context, email string, maxRetry int32) (*entity.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.challenges) - 1; i >= 0; i-- {
		c := &m.challenges[i]
		if c.Email != email || c.IsUsed {
			continue
		}
		c.RetryCount++
		if c.RetryCount >= maxRetry {
			c.IsUsed = true
		}
		out := *c
		return &out, nil
	}
	return nil, goerror.ErrNotFound
}

func (m *memoryDB) ConsumeChallenge(_ context.Context, id int64, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := false
	for i := range m.challenges {
		c := &m.challenges[i]
		if c.ID == id && !c.IsUsed {
			found = true
		}
	}
	if !found {
		return goerror.ErrNotFound
	}
	for i := range m.challenges {
		if m.challenges[i].Email == email {
			m.challenges[i].IsUsed = true
		}
	}
	return nil
}

func (m *memoryDB) DeleteExpiredChallenges(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.challenges[:0]
	var deleted int64
	for _, c := range m.challenges {
		if c.ExpiresAt.Before(now) {
			deleted++
			continue
		}
		kept = append(kept, c)
	}
	m.challenges = kept
	return deleted, nil
}

func (m *memoryDB) challengesFor(email string) []entity.Challenge {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []entity.Challenge
	for _, c := range m.challenges {
		if c.Email == email {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memoryDB) seedChallenge(c entity.Challenge) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.challenges = append(m.challenges, c)
}

func (m *memoryDB) callLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.calls...)
}

func (m *memoryDB) setVendorActive(email string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := m.vendors[email]
	v.IsActive = active
	m.vendors[email] = v
}

type outbox struct {
	mu   sync.Mutex
	sent []OTPDelivery
	err  error
}

func (o *outbox) SendOTP(_ context.Context, in OTPDelivery) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.err != nil {
		return o.err
	}
	o.sent = append(o.sent, in)
	return nil
}

func (o *outbox) last(t *testing.T) OTPDelivery {
	t.Helper()

	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.sent) == 0 {
		t.Fatalf("expected an otp delivery")
	}
	return o.sent[len(o.sent)-1]
}

type recordedEvents struct {
	mu            sync.Mutex
	provisioned   []VendorProvisionedEvent
	authenticated []VendorAuthenticatedEvent
	err           error
}

func (r *recordedEvents) PublishVendorProvisioned(_ context.Context, msg VendorProvisionedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.provisioned = append(r.provisioned, msg)
	return r.err
}

func (r *recordedEvents) PublishVendorAuthenticated(_ context.Context, msg VendorAuthenticatedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.authenticated = append(r.authenticated, msg)
	return r.err
}

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type sequence struct {
	mu   sync.Mutex
	next int64
}

func (s *sequence) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

type tokenIDs struct{}

func (tokenIDs) Generate() string { return "token-id" }

type harness struct {
	uc     *Usecase
	db     *memoryDB
	mail   *outbox
	events *recordedEvents
	clock  *manualClock
	jwt    jwt.JWT
	hmac   hash.Hash
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  identity:\n    otp_max_retry: 5\n"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}
	gen, err := otp.NewNumeric(pqotp.DigitsSix)
	if err != nil {
		t.Fatalf("otp: %v", err)
	}

	clk := &manualClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	tokens, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(testJWTSecret),
		Issuer:    "vendorauth",
		Audiences: []string{"vendor-portal"},
		TTL:       24 * time.Hour,
		Clock:     clk,
		UUID:      tokenIDs{},
	})
	if err != nil {
		t.Fatalf("jwt: %v", err)
	}

	hasher, err := hash.NewHMACSHA256("otp-secret-otp-secret-otp-secret-0001")
	if err != nil {
		t.Fatalf("hmac: %v", err)
	}

	h := &harness{
		db:     newMemoryDB(),
		mail:   &outbox{},
		events: &recordedEvents{},
		clock:  clk,
		jwt:    tokens,
		hmac:   hasher,
	}
	h.uc = New(Dependency{
		RepoDB:        h.db,
		RepoMessaging: h.events,
		RepoMail:      h.mail,
		Validator:     v,
		Config:        cfg,
		HMAC:          h.hmac,
		OTP:           gen,
		UID:           &sequence{},
		Clock:         clk,
		JWT:           tokens,
		Instrument:    instrument.NewNoop(),
	})
	return h
}

// wrongCode returns a six digit code different from code.
func wrongCode(code string) string {
	if code == "000000" {
		return "111111"
	}
	return "000000"
}

func assertBusiness(t *testing.T, err error, status int, msg string) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *goerror.Error, got %v", err)
	}
	if gerr.StatusCode() != status || gerr.Msg() != msg {
		t.Fatalf("expected %d %q, got %d %q", status, msg, gerr.StatusCode(), gerr.Msg())
	}
}
