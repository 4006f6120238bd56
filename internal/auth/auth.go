// Package auth signs buyers and vendors in and out, keeping the session
// and its credential store in step with the server.
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/dokanapp/storefront-go/internal/session"
	pkgerrors "github.com/dokanapp/storefront-go/pkg/errors"
	"github.com/dokanapp/storefront-go/pkg/logger"
	"github.com/dokanapp/storefront-go/pkg/storeapi"
)

// API is the slice of the transport the authenticator needs.
type API interface {
	LoginUser(ctx context.Context, email, password string) (*storeapi.Credentials, error)
	RegisterUser(ctx context.Context, name, email, password string) (*storeapi.Credentials, error)
	LoginVendor(ctx context.Context, email, password string) (*storeapi.Credentials, error)
	RegisterVendor(ctx context.Context, name, email, phone, shopName, password string) (*storeapi.Credentials, error)
}

// Authenticator applies login results to the session and persists them.
type Authenticator struct {
	api   API
	sess  *session.Session
	store session.CredentialStore
	logg  *logger.Logger
}

func NewAuthenticator(api API, sess *session.Session, store session.CredentialStore, logg *logger.Logger) (*Authenticator, error) {
	if api == nil {
		return nil, fmt.Errorf("storefront api required")
	}
	if sess == nil {
		return nil, fmt.Errorf("session required")
	}
	if store == nil {
		return nil, fmt.Errorf("credential store required")
	}
	return &Authenticator{api: api, sess: sess, store: store, logg: logg}, nil
}

// LoginUser authenticates a buyer and persists the credential.
func (a *Authenticator) LoginUser(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}
	creds, err := a.api.LoginUser(ctx, email, password)
	if err != nil {
		return err
	}
	return a.adopt(ctx, creds)
}

// RegisterUser creates a buyer account and signs it in.
func (a *Authenticator) RegisterUser(ctx context.Context, name, email, password string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name, email and password are required")
	}
	creds, err := a.api.RegisterUser(ctx, name, email, password)
	if err != nil {
		return err
	}
	return a.adopt(ctx, creds)
}

// LoginVendor authenticates a vendor and persists the credential.
func (a *Authenticator) LoginVendor(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}
	creds, err := a.api.LoginVendor(ctx, email, password)
	if err != nil {
		return err
	}
	return a.adopt(ctx, creds)
}

// RegisterVendor creates a vendor account and signs it in.
func (a *Authenticator) RegisterVendor(ctx context.Context, name, email, phone, shopName, password string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)
	shopName = strings.TrimSpace(shopName)
	if name == "" || email == "" || phone == "" || shopName == "" || password == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "all vendor fields are required")
	}
	creds, err := a.api.RegisterVendor(ctx, name, email, phone, shopName, password)
	if err != nil {
		return err
	}
	return a.adopt(ctx, creds)
}

// Logout clears the session and removes every persisted credential key.
func (a *Authenticator) Logout(ctx context.Context) error {
	userID := a.sess.UserID()
	a.sess.Clear()
	if err := session.Wipe(a.store); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "could not clear stored credentials")
	}
	if a.logg != nil {
		a.logg.Info(a.logg.WithUserID(ctx, userID), "logged out")
	}
	return nil
}

func (a *Authenticator) adopt(ctx context.Context, creds *storeapi.Credentials) error {
	if creds == nil || creds.Token == "" {
		return pkgerrors.New(pkgerrors.CodeServerRejected, "login reply carried no token")
	}
	a.sess.Apply(session.Fields{
		UserID:         creds.UserID,
		Name:           creds.Username,
		Role:           creds.Role,
		Token:          creds.Token,
		VendorEmail:    creds.Email,
		VendorPhone:    creds.Phone,
		VendorShopName: creds.ShopName,
	})
	if err := a.sess.Save(a.store); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "could not persist credentials")
	}
	if a.logg != nil {
		lctx := a.logg.WithUserID(ctx, creds.UserID)
		lctx = a.logg.WithField(lctx, "role", creds.Role.String())
		a.logg.Info(lctx, "signed in")
	}
	return nil
}
