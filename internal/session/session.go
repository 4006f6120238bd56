package session

import (
	"strconv"
	"sync"
	"time"

	"github.com/dokanapp/storefront-go/pkg/auth"
	"github.com/dokanapp/storefront-go/pkg/enums"
)

// Credential keys as persisted by the credential store. These are opaque
// key/value strings with no structure beyond what the session gives them.
const (
	KeyToken          = "token"
	KeyUserID         = "user_id"
	KeyUserName       = "user_name"
	KeyRole           = "role"
	KeyVendorEmail    = "vendor_email"
	KeyVendorPhone    = "vendor_phone"
	KeyVendorShopName = "vendor_shop_name"
)

var allKeys = []string{
	KeyToken,
	KeyUserID,
	KeyUserName,
	KeyRole,
	KeyVendorEmail,
	KeyVendorPhone,
	KeyVendorShopName,
}

// Fields is a flat snapshot of everything a session holds.
type Fields struct {
	UserID         int64
	Name           string
	Role           enums.Role
	Token          string
	VendorEmail    string
	VendorPhone    string
	VendorShopName string
}

// Session is the explicit authenticated-identity object injected into the
// cart store, checkout transaction and fulfillment board. It is safe for
// concurrent reads while a login or logout mutates it.
type Session struct {
	mu     sync.RWMutex
	fields Fields
}

// New returns an empty, unauthenticated session.
func New() *Session {
	return &Session{}
}

// Apply replaces the session identity, typically after a login.
func (s *Session) Apply(fields Fields) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = fields
}

// Clear drops the identity, typically on logout.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = Fields{}
}

// Fields returns a snapshot of the current identity.
func (s *Session) Fields() Fields {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fields
}

// Token implements storeapi.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fields.Token
}

// UserID returns the authenticated user id, zero when logged out.
func (s *Session) UserID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fields.UserID
}

// Name returns the display name.
func (s *Session) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fields.Name
}

// Role returns the session role, empty when logged out.
func (s *Session) Role() enums.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fields.Role
}

// Authenticated reports whether a bearer credential is present.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// TokenExpired reports whether the held token's exp claim has passed.
// The signature is not verified; the server owns that. Missing or
// undecodable tokens count as expired.
func (s *Session) TokenExpired(now time.Time) bool {
	token := s.Token()
	if token == "" {
		return true
	}
	claims, err := auth.InspectClaims(token)
	if err != nil || claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Before(now)
}

// Load rebuilds a session from the credential store. Absent keys produce
// an unauthenticated session, not an error.
func Load(store CredentialStore) (*Session, error) {
	fields := Fields{}

	token, err := store.Get(KeyToken)
	if err != nil {
		return nil, err
	}
	fields.Token = token

	if raw, err := store.Get(KeyUserID); err != nil {
		return nil, err
	} else if raw != "" {
		id, convErr := strconv.ParseInt(raw, 10, 64)
		if convErr == nil {
			fields.UserID = id
		}
	}

	if fields.Name, err = store.Get(KeyUserName); err != nil {
		return nil, err
	}
	rawRole, err := store.Get(KeyRole)
	if err != nil {
		return nil, err
	}
	if role, parseErr := enums.ParseRole(rawRole); parseErr == nil {
		fields.Role = role
	}
	if fields.VendorEmail, err = store.Get(KeyVendorEmail); err != nil {
		return nil, err
	}
	if fields.VendorPhone, err = store.Get(KeyVendorPhone); err != nil {
		return nil, err
	}
	if fields.VendorShopName, err = store.Get(KeyVendorShopName); err != nil {
		return nil, err
	}

	sess := New()
	sess.Apply(fields)
	return sess, nil
}

// Save persists the session identity into the credential store.
func (s *Session) Save(store CredentialStore) error {
	fields := s.Fields()
	values := map[string]string{
		KeyToken:          fields.Token,
		KeyUserID:         strconv.FormatInt(fields.UserID, 10),
		KeyUserName:       fields.Name,
		KeyRole:           string(fields.Role),
		KeyVendorEmail:    fields.VendorEmail,
		KeyVendorPhone:    fields.VendorPhone,
		KeyVendorShopName: fields.VendorShopName,
	}
	for key, value := range values {
		if err := store.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}

// Wipe removes every session key from the credential store.
func Wipe(store CredentialStore) error {
	return store.Delete(allKeys...)
}
