package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/database/mongoclient"
	"github.com/x-xyz/marketplace/base/database/redisclient"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/base/metrics"
	bValidator "github.com/x-xyz/marketplace/base/validator"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/event"
	"github.com/x-xyz/marketplace/domain/registry"
	mmiddleware "github.com/x-xyz/marketplace/middleware"
	"github.com/x-xyz/marketplace/service/cache/provider"
	"github.com/x-xyz/marketplace/service/cache/provider/compound"
	"github.com/x-xyz/marketplace/service/cache/provider/primitive"
	redisProvider "github.com/x-xyz/marketplace/service/cache/provider/redis"
	"github.com/x-xyz/marketplace/service/chain"
	"github.com/x-xyz/marketplace/service/chainlink"
	"github.com/x-xyz/marketplace/service/erc20"
	"github.com/x-xyz/marketplace/service/oracle"
	"github.com/x-xyz/marketplace/service/query"
	"github.com/x-xyz/marketplace/service/redis"
	auction_delivery "github.com/x-xyz/marketplace/stores/auction/delivery/http"
	auction_usecase "github.com/x-xyz/marketplace/stores/auction/usecase"
	auth_delivery "github.com/x-xyz/marketplace/stores/auth/delivery/http"
	auth_middleware "github.com/x-xyz/marketplace/stores/auth/delivery/http/middleware"
	auth_usecase "github.com/x-xyz/marketplace/stores/auth/usecase"
	bundle_delivery "github.com/x-xyz/marketplace/stores/bundle/delivery/http"
	bundle_usecase "github.com/x-xyz/marketplace/stores/bundle/usecase"
	collection_delivery "github.com/x-xyz/marketplace/stores/collection/delivery/http"
	currency_delivery "github.com/x-xyz/marketplace/stores/currency/delivery/http"
	event_delivery "github.com/x-xyz/marketplace/stores/event/delivery/http"
	event_repository "github.com/x-xyz/marketplace/stores/event/repository"
	event_usecase "github.com/x-xyz/marketplace/stores/event/usecase"
	factory_delivery "github.com/x-xyz/marketplace/stores/factory/delivery/http"
	factory_usecase "github.com/x-xyz/marketplace/stores/factory/usecase"
	hc_delivery "github.com/x-xyz/marketplace/stores/healthcheck/delivery/http"
	hc_repo "github.com/x-xyz/marketplace/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/marketplace/stores/healthcheck/usecase"
	marketplace_delivery "github.com/x-xyz/marketplace/stores/marketplace/delivery/http"
	marketplace_usecase "github.com/x-xyz/marketplace/stores/marketplace/usecase"
	paytoken_delivery "github.com/x-xyz/marketplace/stores/paytoken/delivery/http"
	paytoken_usecase "github.com/x-xyz/marketplace/stores/paytoken/usecase"
	pricefeed_delivery "github.com/x-xyz/marketplace/stores/pricefeed/delivery/http"
	pricefeed_usecase "github.com/x-xyz/marketplace/stores/pricefeed/usecase"
	registry_delivery "github.com/x-xyz/marketplace/stores/registry/delivery/http"
	registry_usecase "github.com/x-xyz/marketplace/stores/registry/usecase"
	royalty_delivery "github.com/x-xyz/marketplace/stores/royalty/delivery/http"
	royalty_usecase "github.com/x-xyz/marketplace/stores/royalty/usecase"
)

func init() {
	configPath := pflag.String("config", "infra/configs/config.yaml", "config file path")
	pflag.Parse()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configPath)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	level := viper.GetString("log.level")
	if level == "" {
		level = "info"
	}
	if err := log.Init(level, viper.GetBool(`debug`)); err != nil {
		panic(err)
	}
	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

// lateEmitter lets the registry be built before the event usecase whose
// handlers need it.
type lateEmitter struct {
	event.Emitter
}

func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	var (
		mongoClient *mongoclient.Client
		redisCache  redis.Service
		eventRepo   event.Repo
	)

	// init mongo client
	if uri := viper.GetString("mongo.uri"); len(uri) > 0 {
		context.Info("init mongo")
		mongoClient = mongoclient.MustConnect(mongoclient.Options{
			URI:        uri,
			AuthDBName: viper.GetString("mongo.authDBName"),
			DBName:     viper.GetString("mongo.dbName"),
			SSL:        viper.GetBool("mongo.enableSSL"),
		})
		mgo := query.New(mongoClient, viper.GetBool("mongo.checkIndex"))
		if err := event_repository.EnsureIndexes(context, mgo); err != nil {
			context.WithField("err", err).Panic("event_repository.EnsureIndexes failed")
		}
		eventRepo = event_repository.New(mgo)
	}

	// init Redis service
	oracleCache := []provider.Provider{primitive.NewPrimitive("oracle_cache", viper.GetInt("oracles.cacheSizeMB"))}
	if uri := viper.GetString("redis_cache.uri"); len(uri) > 0 {
		context.Info("init redis cache")
		redisCacheName := viper.GetString("redis_cache.name")
		redisCachePool := redisclient.MustConnect(redisclient.Options{
			URI:            uri,
			Password:       viper.GetString("redis_cache.password"),
			PoolMultiplier: viper.GetFloat64("redis_cache.poolMultiplier"),
			Retry:          true,
		})
		redisCache = redis.New(redisCacheName, metrics.New(redisCacheName), &redis.Pools{
			Src: redisCachePool,
		})
		oracleCache = append(oracleCache, redisProvider.NewRedis(redisCache))
	}

	// init chain service
	networks := viper.Sub("networks")
	rpcs := make(map[int32]string)
	archiveRpcs := make(map[int32]string)
	if networks != nil {
		for k := range networks.AllSettings() {
			chainId := networks.GetInt32(fmt.Sprintf("%s.chainId", k))
			if rpc := networks.GetString(fmt.Sprintf("%s.rpcUrl", k)); len(rpc) > 0 {
				rpcs[chainId] = rpc
			}
			if archive := networks.GetString(fmt.Sprintf("%s.archiveRpcUrl", k)); len(archive) > 0 {
				archiveRpcs[chainId] = archive
			}
		}
	}
	chainService, err := chain.NewClient(context, &chain.ClientCfg{
		RpcUrls:        rpcs,
		ArchiveRpcUrls: archiveRpcs,
	})
	if err != nil {
		context.WithField("err", err).Warn("chainService started with error")
	}

	admins := domain.NewAdmins(viper.GetStringSlice("admin.addresses"))
	operator := domain.Address(viper.GetString("admin.operator")).ToLower()
	if !admins.Contains(operator) {
		context.WithField("operator", operator).Panic("admin.operator must be one of admin.addresses")
	}

	// construct registries, engines and factories
	emitter := &lateEmitter{}
	addressRegistry := registry_usecase.New(&registry_usecase.RegistryUseCaseCfg{
		Address: address("addresses.registry"),
		Admins:  admins,
		Emitter: emitter,
	})

	handlers := []event.Handler{}
	if botKey := viper.GetString("discord.botKey"); len(botKey) > 0 {
		session, err := event_usecase.NewDiscordSession(botKey)
		if err != nil {
			context.WithField("err", err).Panic("event_usecase.NewDiscordSession failed")
		}
		handlers = append(handlers, event_usecase.NewNotifier(&event_usecase.NotifierCfg{
			Sender:    session,
			ChannelId: viper.GetString("discord.channelId"),
			Registry:  addressRegistry,
		}))
	}
	events := event_usecase.New(&event_usecase.EventUseCaseCfg{
		Repo:     eventRepo,
		Handlers: handlers,
		Workers:  viper.GetInt("events.workers"),
	})
	emitter.Emitter = events

	tokens := paytoken_usecase.New(&paytoken_usecase.PayTokenUseCaseCfg{
		Address: address("addresses.tokenRegistry"),
		Admins:  admins,
		Emitter: events,
	})
	royalties := royalty_usecase.New(&royalty_usecase.RoyaltyUseCaseCfg{
		Address:  address("addresses.royaltyRegistry"),
		Admins:   admins,
		Registry: addressRegistry,
		Emitter:  events,
	})
	priceFeed := pricefeed_usecase.New(&pricefeed_usecase.PriceFeedUseCaseCfg{
		Address:       address("addresses.priceFeed"),
		Admins:        admins,
		Registry:      addressRegistry,
		Emitter:       events,
		WrappedNative: address("wrappedNative"),
	})

	marketplace, err := marketplace_usecase.New(&marketplace_usecase.MarketplaceUseCaseCfg{
		Address:  address("addresses.marketplace"),
		Admins:   admins,
		Registry: addressRegistry,
		Emitter:  events,
		Fee:      feeConfig("marketplace"),
	})
	if err != nil {
		context.WithField("err", err).Panic("marketplace_usecase.New failed")
	}
	minBidIncrement, err := parseAmount(viper.GetString("auction.minBidIncrement"))
	if err != nil {
		context.WithField("err", err).Panic("invalid auction.minBidIncrement")
	}
	auction, err := auction_usecase.New(&auction_usecase.AuctionUseCaseCfg{
		Address:               address("addresses.auction"),
		Admins:                admins,
		Registry:              addressRegistry,
		Emitter:               events,
		Fee:                   feeConfig("auction"),
		MinBidIncrement:       minBidIncrement,
		BidWithdrawalLockTime: duration("auction.bidWithdrawalLockTime", 0),
	})
	if err != nil {
		context.WithField("err", err).Panic("auction_usecase.New failed")
	}
	bundle, err := bundle_usecase.New(&bundle_usecase.BundleUseCaseCfg{
		Address:  address("addresses.bundleMarketplace"),
		Admins:   admins,
		Registry: addressRegistry,
		Emitter:  events,
		Fee:      feeConfig("bundle"),
	})
	if err != nil {
		context.WithField("err", err).Panic("bundle_usecase.New failed")
	}

	services := []struct {
		role    registry.Role
		service interface {
			Address() domain.Address
		}
	}{
		{registry.RoleMarketplace, marketplace},
		{registry.RoleAuction, auction},
		{registry.RoleBundleMarketplace, bundle},
	}
	bindRole := func(role registry.Role, addr domain.Address, service interface{}) {
		addressRegistry.Bind(addr, service)
		if err := addressRegistry.Update(context, operator, role, addr); err != nil {
			context.WithFields(log.Fields{"err": err, "role": role, "address": addr}).Panic("registry.Update failed")
		}
	}
	bindRole(registry.RoleTokenRegistry, address("addresses.tokenRegistry"), tokens)
	bindRole(registry.RoleRoyaltyRegistry, address("addresses.royaltyRegistry"), royalties)
	bindRole(registry.RolePriceFeed, address("addresses.priceFeed"), priceFeed)
	for _, s := range services {
		bindRole(s.role, s.service.Address(), s.service)
	}

	// bootstrap currencies and oracles
	for _, cfg := range currencyConfigs() {
		token := erc20.New(cfg)
		addressRegistry.Bind(token.Address(), token)
		if err := tokens.Add(context, operator, token.Address()); err != nil {
			context.WithFields(log.Fields{"err": err, "token": token.Address()}).Panic("tokens.Add failed")
		}
	}

	statics := []staticOracleCfg{}
	mustUnmarshal("oracles.static", &statics)
	for _, cfg := range statics {
		answer, err := parseAmount(cfg.Answer)
		if err != nil {
			context.WithFields(log.Fields{"err": err, "oracle": cfg.Address}).Panic("invalid oracle answer")
		}
		o := oracle.NewStatic(cfg.Address, cfg.Decimals, answer)
		addressRegistry.Bind(o.Address(), o)
		if err := priceFeed.RegisterOracle(context, operator, cfg.Token, o.Address()); err != nil {
			context.WithFields(log.Fields{"err": err, "token": cfg.Token}).Panic("priceFeed.RegisterOracle failed")
		}
	}

	feeds := []chainlinkOracleCfg{}
	mustUnmarshal("oracles.chainlink", &feeds)
	for _, cfg := range feeds {
		decimals := cfg.Decimals
		if decimals == 0 {
			if decimals, err = chainlink.FetchDecimals(context, chainService, domain.ChainId(cfg.ChainId), cfg.Address); err != nil {
				context.WithFields(log.Fields{"err": err, "feed": cfg.Address}).Warn("skip chainlink feed")
				continue
			}
		}
		o := chainlink.New(chainService, chainlink.Config{
			ChainId:  domain.ChainId(cfg.ChainId),
			Address:  cfg.Address,
			Decimals: decimals,
			Ttl:      duration("oracles.cacheTtl", 30*time.Second),
			Cache:    compound.NewCompound(oracleCache),
		})
		addressRegistry.Bind(o.Address(), o)
		if err := priceFeed.RegisterOracle(context, operator, cfg.Token, o.Address()); err != nil {
			context.WithFields(log.Fields{"err": err, "token": cfg.Token}).Panic("priceFeed.RegisterOracle failed")
		}
	}

	for _, k := range factoryKinds {
		cfg := factoryCfg{}
		mustUnmarshal(fmt.Sprintf("factories.%s", k.role), &cfg)
		if cfg.Address.IsEmpty() {
			continue
		}
		fees, err := cfg.fees()
		if err != nil {
			context.WithFields(log.Fields{"err": err, "role": k.role}).Panic("invalid factory fees")
		}
		factory, err := factory_usecase.New(&factory_usecase.FactoryUseCaseCfg{
			Address:  cfg.Address,
			Kind:     k.kind,
			Private:  k.private,
			Admins:   admins,
			Registry: addressRegistry,
			Emitter:  events,
			Fees:     fees,
			Treasury: address("addresses.treasury"),
		})
		if err != nil {
			context.WithFields(log.Fields{"err": err, "role": k.role}).Panic("factory_usecase.New failed")
		}
		bindRole(k.role, factory.Address(), factory)
	}

	if coll := address("addresses.itemCollection"); !coll.IsEmpty() {
		if err := addressRegistry.Update(context, operator, registry.RoleItemCollection, coll); err != nil {
			context.WithField("err", err).Warn("itemCollection left unset")
		}
	}

	auth := auth_usecase.New(&auth_usecase.AuthUseCaseCfg{
		JwtSecret:  viper.GetString("auth.jwtSecret"),
		SigningMsg: viper.GetString("auth.signingMsg"),
		Admins:     admins,
		TokenTtl:   viper.GetDuration("auth.tokenTtl"),
	})
	hc := hc_usecase.New(&hc_usecase.HealthCheckUseCaseCfg{
		Repo:     hc_repo.New(mongoClient, redisCache),
		Registry: addressRegistry,
		Roles: []registry.Role{
			registry.RoleTokenRegistry,
			registry.RoleRoyaltyRegistry,
			registry.RolePriceFeed,
			registry.RoleMarketplace,
			registry.RoleAuction,
			registry.RoleBundleMarketplace,
		},
	})

	authMiddleware := auth_middleware.New(auth)

	hc_delivery.New(e, hc)
	auth_delivery.New(e, auth, viper.GetString("auth.signingMsg"))
	registry_delivery.New(e, addressRegistry, authMiddleware)
	paytoken_delivery.New(e, addressRegistry, authMiddleware)
	royalty_delivery.New(e, addressRegistry, authMiddleware)
	pricefeed_delivery.New(e, addressRegistry, authMiddleware)
	marketplace_delivery.New(e, marketplace, authMiddleware)
	auction_delivery.New(e, auction, authMiddleware)
	bundle_delivery.New(e, bundle, authMiddleware)
	factory_delivery.New(e, addressRegistry, authMiddleware)
	collection_delivery.New(e, addressRegistry, authMiddleware)
	currency_delivery.New(e, addressRegistry, authMiddleware)
	event_delivery.New(e, events)

	e.GET("/check", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"address": c.Get("address").(domain.Address),
		})
	}, authMiddleware.Auth())

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
