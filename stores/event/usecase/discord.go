package usecase

import (
	"fmt"
	"math/big"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/event"
	"github.com/x-xyz/marketplace/domain/registry"
)

// EmbedSender is the part of *discordgo.Session the notifier needs.
type EmbedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error)
}

type NotifierCfg struct {
	Sender    EmbedSender
	ChannelId string
	Registry  registry.AddressRegistry
}

type notifier struct {
	sender    EmbedSender
	channelId string
	registry  registry.AddressRegistry
}

// NewDiscordSession connects a bot session for NewNotifier.
func NewDiscordSession(botKey string) (*discordgo.Session, error) {
	return discordgo.New(fmt.Sprintf("Bot %s", botKey))
}

// NewNotifier posts sales and auction results to a discord channel.
func NewNotifier(cfg *NotifierCfg) event.Handler {
	return &notifier{
		sender:    cfg.Sender,
		channelId: cfg.ChannelId,
		registry:  cfg.Registry,
	}
}

func (n *notifier) Handle(c ctx.Ctx, e *event.Event) error {
	var msg *discordgo.MessageEmbed
	switch p := e.Payload.(type) {
	case event.ItemSoldPayload:
		total := new(big.Int).Mul(p.PricePerItem, big.NewInt(p.Quantity))
		msg = &discordgo.MessageEmbed{
			Title:       "Item sold!",
			Description: fmt.Sprintf("%s/%s", p.Nft, p.TokenId),
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Seller", Value: string(p.Seller)},
				{Name: "Buyer", Value: string(p.Buyer)},
				{Name: "Quantity", Value: fmt.Sprintf("%d", p.Quantity)},
				{Name: "Price", Value: n.formatPrice(c, p.PayToken, total)},
			},
		}
	case event.BundleSoldPayload:
		msg = &discordgo.MessageEmbed{
			Title:       "Bundle sold!",
			Description: p.BundleId,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Seller", Value: string(p.Seller)},
				{Name: "Buyer", Value: string(p.Buyer)},
				{Name: "Price", Value: n.formatPrice(c, p.PayToken, p.Price)},
			},
		}
	case event.AuctionResultedPayload:
		msg = &discordgo.MessageEmbed{
			Title:       "Auction resulted!",
			Description: fmt.Sprintf("%s/%s", p.Nft, p.TokenId),
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Seller", Value: string(p.OldOwner)},
				{Name: "Winner", Value: string(p.Winner)},
				{Name: "Winning bid", Value: n.formatPrice(c, p.PayToken, p.WinningBid)},
			},
		}
	default:
		return nil
	}

	if _, err := n.sender.ChannelMessageSendEmbed(n.channelId, msg); err != nil {
		c.WithFields(log.Fields{
			"err":  err,
			"id":   e.Id,
			"name": e.Name,
		}).Error("discord.ChannelMessageSendEmbed failed")
		return err
	}
	return nil
}

func (n *notifier) formatPrice(c ctx.Ctx, token domain.Address, amount *big.Int) string {
	if amount == nil {
		amount = domain.Big0
	}
	cur, err := n.registry.Currency(c, token)
	if err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"token": token,
		}).Warn("unknown pay token")
		return fmt.Sprintf("%s %s", amount.String(), token)
	}
	value := decimal.NewFromBigInt(amount, -cur.Decimals())
	return fmt.Sprintf("%s %s", value.String(), cur.Symbol())
}
