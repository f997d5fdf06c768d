package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/ethereum"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"golang.org/x/xerrors"
)

const defaultTokenTtl = 24 * time.Hour

type AuthUseCaseCfg struct {
	JwtSecret string
	// SigningMsg is what wallets sign to sign in. A %s verb is replaced by
	// the lower-cased address.
	SigningMsg string
	Admins     domain.Admins
	TokenTtl   time.Duration
	Clock      domain.Clock
}

type impl struct {
	jwtSecret  []byte
	signingMsg string
	admins     domain.Admins
	tokenTtl   time.Duration
	now        domain.Clock
}

func New(cfg *AuthUseCaseCfg) domain.AuthUsecase {
	ttl := cfg.TokenTtl
	if ttl <= 0 {
		ttl = defaultTokenTtl
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	return &impl{
		jwtSecret:  []byte(cfg.JwtSecret),
		signingMsg: cfg.SigningMsg,
		admins:     cfg.Admins,
		tokenTtl:   ttl,
		now:        now,
	}
}

// SigningMessage is the message address signs to obtain a token.
func SigningMessage(template string, address domain.Address) string {
	if strings.Contains(template, "%s") {
		return fmt.Sprintf(template, address.ToLower())
	}
	return template
}

func (im *impl) VerifySignature(ctx ctx.Ctx, address domain.Address, signature string) error {
	if !address.IsValid() || len(signature) == 0 {
		return xerrors.Errorf("%w: address %q", domain.ErrInvalidParameters, address)
	}
	if !strings.HasPrefix(signature, "0x") {
		signature = "0x" + signature
	}

	ok, err := ethereum.ValidateMsgSignature([]byte(SigningMessage(im.signingMsg, address)), signature, string(address))
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "address": address}).Warn("ethereum.ValidateMsgSignature failed")
		return xerrors.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !ok {
		return xerrors.Errorf("%w: signature not from %s", domain.ErrUnauthorized, address)
	}
	return nil
}

func (im *impl) SignToken(ctx ctx.Ctx, address domain.Address) (string, error) {
	claims := domain.JwtCustomClaims{
		Address: address.ToLowerStr(),
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: im.now().Add(im.tokenTtl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	if ss, err := token.SignedString(im.jwtSecret); err != nil {
		ctx.WithField("err", err).Error("token.SignedString failed")
		return "", err
	} else {
		return ss, nil
	}
}

func (im *impl) ParseToken(ctx ctx.Ctx, str string) (string, error) {
	token, err := jwt.ParseWithClaims(str, &domain.JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("Unexpected signing method: %v", token.Header["alg"])
		}
		return im.jwtSecret, nil
	})
	if err != nil {
		return "", xerrors.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	if claims, ok := token.Claims.(*domain.JwtCustomClaims); ok && token.Valid {
		return claims.Address, nil
	}

	return "", domain.ErrUnauthorized
}

func (im *impl) IsAdmin(ctx ctx.Ctx, address domain.Address) bool {
	return im.admins.Contains(address)
}
