package usecase

import (
	"sort"
	"sync"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/event"
	"golang.org/x/xerrors"
)

type PayTokenUseCaseCfg struct {
	Address domain.Address
	Admins  domain.Admins
	Emitter event.Emitter
}

type impl struct {
	address domain.Address
	admins  domain.Admins
	emitter event.Emitter
	mu      sync.RWMutex
	enabled map[domain.Address]bool
}

func New(cfg *PayTokenUseCaseCfg) domain.TokenRegistry {
	return &impl{
		address: cfg.Address.ToLower(),
		admins:  cfg.Admins,
		emitter: cfg.Emitter,
		enabled: make(map[domain.Address]bool),
	}
}

func (im *impl) Add(c ctx.Ctx, caller domain.Address, token domain.Address) error {
	if !im.admins.Contains(caller) {
		return domain.ErrUnauthorized
	}
	token = token.ToLower()

	im.mu.Lock()
	if im.enabled[token] {
		im.mu.Unlock()
		return xerrors.Errorf("%w: token %s already added", domain.ErrInvalidParameters, token)
	}
	im.enabled[token] = true
	im.mu.Unlock()

	im.emitter.Emit(c, im.address, event.TokenAdded, event.TokenPayload{Token: token})
	return nil
}

func (im *impl) Remove(c ctx.Ctx, caller domain.Address, token domain.Address) error {
	if !im.admins.Contains(caller) {
		return domain.ErrUnauthorized
	}
	token = token.ToLower()

	im.mu.Lock()
	if !im.enabled[token] {
		im.mu.Unlock()
		return xerrors.Errorf("%w: token %s not added", domain.ErrInvalidParameters, token)
	}
	delete(im.enabled, token)
	im.mu.Unlock()

	im.emitter.Emit(c, im.address, event.TokenRemoved, event.TokenPayload{Token: token})
	return nil
}

func (im *impl) Enabled(c ctx.Ctx, token domain.Address) bool {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.enabled[token.ToLower()]
}

func (im *impl) FindAll(c ctx.Ctx) ([]domain.Address, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	res := make([]domain.Address, 0, len(im.enabled))
	for token := range im.enabled {
		res = append(res, token)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res, nil
}
