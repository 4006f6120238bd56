package controllers

import (
	"net/http"
	"time"

	"github.com/dokanapp/storefront-go/api/responses"
	"github.com/dokanapp/storefront-go/api/validators"
	pkgauth "github.com/dokanapp/storefront-go/pkg/auth"
	"github.com/dokanapp/storefront-go/pkg/config"
	"github.com/dokanapp/storefront-go/pkg/db/models"
	"github.com/dokanapp/storefront-go/pkg/enums"
	pkgerrors "github.com/dokanapp/storefront-go/pkg/errors"
	"github.com/dokanapp/storefront-go/pkg/logger"
	"github.com/dokanapp/storefront-go/pkg/security"
	"github.com/dokanapp/storefront-go/pkg/storeapi"
)

type loginBody struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerUserBody struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type registerVendorBody struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	ShopName string `json:"shop_name" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// Login authenticates an account of the given role and answers with a
// bearer credential.
func Login(repo *Repo, cfg config.JWTConfig, role enums.Role, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body loginBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := repo.UserByEmail(r.Context(), body.Email, role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ok, err := security.VerifyPassword(body.Password, user.PasswordHash)
		if err != nil || !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password"))
			return
		}

		writeCredentials(w, r, cfg, user, logg)
	}
}

// RegisterUser creates a buyer account and signs it in.
func RegisterUser(repo *Repo, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body registerUserBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		hash, err := security.HashPassword(body.Password, pwCfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password"))
			return
		}
		user := &models.User{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: hash,
			Role:         enums.RoleBuyer,
		}
		if err := repo.CreateUser(r.Context(), user); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeCredentials(w, r, jwtCfg, user, logg)
	}
}

// RegisterVendor creates a vendor account and signs it in.
func RegisterVendor(repo *Repo, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body registerVendorBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		hash, err := security.HashPassword(body.Password, pwCfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password"))
			return
		}
		user := &models.User{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: hash,
			Role:         enums.RoleVendor,
			Phone:        body.Phone,
			ShopName:     body.ShopName,
		}
		if err := repo.CreateUser(r.Context(), user); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeCredentials(w, r, jwtCfg, user, logg)
	}
}

func writeCredentials(w http.ResponseWriter, r *http.Request, cfg config.JWTConfig, user *models.User, logg *logger.Logger) {
	token, err := pkgauth.MintAccessToken(cfg, time.Now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
	})
	if err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token"))
		return
	}

	if logg != nil {
		lctx := logg.WithUserID(r.Context(), user.ID)
		lctx = logg.WithField(lctx, "role", string(user.Role))
		logg.Info(lctx, "signed in")
	}

	responses.WriteJSON(w, http.StatusOK, storeapi.Credentials{
		Token:    token,
		UserID:   user.ID,
		Username: user.Name,
		Role:     user.Role,
		Email:    user.Email,
		Phone:    user.Phone,
		ShopName: user.ShopName,
	})
}
