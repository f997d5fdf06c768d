package usecase_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/stores/auth/usecase"
)

const template = "sign in to the marketplace as %s"

func TestSignAndParseToken(t *testing.T) {
	ctx := ctx.Background()
	u := usecase.New(&usecase.AuthUseCaseCfg{JwtSecret: "jwt-secret"})
	tkn, err := u.SignToken(ctx, "0xAbC0000000000000000000000000000000000001")
	assert.NoError(t, err)
	assert.NotEmpty(t, tkn)
	ads, err := u.ParseToken(ctx, tkn)
	assert.NoError(t, err)
	assert.Equal(t, "0xabc0000000000000000000000000000000000001", ads)

	other := usecase.New(&usecase.AuthUseCaseCfg{JwtSecret: "other-secret"})
	_, err = other.ParseToken(ctx, tkn)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVerifySignature(t *testing.T) {
	req := require.New(t)
	ctx := ctx.Background()
	u := usecase.New(&usecase.AuthUseCaseCfg{JwtSecret: "jwt-secret", SigningMsg: template})

	privateKey, err := crypto.GenerateKey()
	req.NoError(err)
	address := domain.AddressFromCommon(crypto.PubkeyToAddress(privateKey.PublicKey))
	msg := usecase.SigningMessage(template, address)
	sig, err := crypto.Sign(accounts.TextHash([]byte(msg)), privateKey)
	req.NoError(err)

	req.NoError(u.VerifySignature(ctx, address, hexutil.Encode(sig)))

	strangerKey, err := crypto.GenerateKey()
	req.NoError(err)
	stranger := domain.AddressFromCommon(crypto.PubkeyToAddress(strangerKey.PublicKey))
	sig, err = crypto.Sign(accounts.TextHash([]byte(msg)), privateKey)
	req.NoError(err)
	req.ErrorIs(u.VerifySignature(ctx, stranger, hexutil.Encode(sig)), domain.ErrUnauthorized)

	req.ErrorIs(u.VerifySignature(ctx, address, "0x1234"), domain.ErrUnauthorized)
	req.ErrorIs(u.VerifySignature(ctx, "not-an-address", "0x1234"), domain.ErrInvalidParameters)
}

func TestIsAdmin(t *testing.T) {
	ctx := ctx.Background()
	u := usecase.New(&usecase.AuthUseCaseCfg{
		Admins: domain.NewAdmins([]string{"0x00000000000000000000000000000000000000AD"}),
	})
	assert.True(t, u.IsAdmin(ctx, "0x00000000000000000000000000000000000000ad"))
	assert.False(t, u.IsAdmin(ctx, "0x00000000000000000000000000000000000000fe"))
}
